// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the get-papers-list pipeline.
package types

// NotAvailable is substituted for any field absent from a PubMed record.
const NotAvailable = "Not Available"

// Author is one contributor on a paper, in source order.
type Author struct {
	// Name is the display name ("ForeName LastName", collective name, or NotAvailable).
	Name string `json:"name" yaml:"name"`

	// Affiliations lists the author's affiliation strings without duplicates.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	// Commercial is true when at least one affiliation was classified commercial.
	Commercial bool `json:"commercial" yaml:"commercial"`
}

// Paper is a normalized PubMed record that passed the commercial-affiliation
// filter. It is created once by the normalizer and not modified afterwards.
type Paper struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title with inline markup removed.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is the journal issue date as YYYY[-MM[-DD]] or the
	// free-text MedlineDate when PubMed provides no structured date.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Journal is the full journal title.
	Journal string `json:"journal" yaml:"journal"`

	// CommercialAuthors lists names of authors with a commercial affiliation.
	CommercialAuthors []string `json:"commercial_authors" yaml:"commercial_authors"`

	// CompanyAffiliations lists the commercial affiliation strings of those authors.
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`

	// CorrespondingEmail is the first e-mail address found in any affiliation.
	CorrespondingEmail string `json:"corresponding_email" yaml:"corresponding_email"`

	// DOI is the digital object identifier, or NotAvailable.
	DOI string `json:"doi" yaml:"doi"`

	// Authors is the full author list.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`
}

// HasDOI reports whether the paper carries a DOI.
func (p Paper) HasDOI() bool {
	return p.DOI != "" && p.DOI != NotAvailable
}

// IsCommercial reports whether at least one author has a commercial affiliation.
func (p Paper) IsCommercial() bool {
	return len(p.CommercialAuthors) > 0
}
