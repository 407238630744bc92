// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw PubMed records into flat types.Paper values,
// classifying each author affiliation along the way.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// emailPattern finds an e-mail address inside free-text affiliations.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Paper normalizes a and classifies its authors. It reports false only
// when the record has no PMID; every other missing field becomes
// types.NotAvailable.
func Paper(a *pubmed.Article, c *classify.Classifier) (types.Paper, bool) {
	pmid, ok := a.PMID()
	if !ok {
		return types.Paper{}, false
	}

	p := types.Paper{
		PMID:                pmid,
		Title:               orNotAvailable(a.Title()),
		Journal:             orNotAvailable(a.Journal()),
		PublicationDate:     orNotAvailable(FormatDate(a.PublicationDate())),
		DOI:                 orNotAvailable(a.DOI()),
		CorrespondingEmail:  types.NotAvailable,
		CommercialAuthors:   []string{},
		CompanyAffiliations: []string{},
	}

	seenAffiliation := make(map[string]bool)
	for _, raw := range a.Authors() {
		author := types.Author{
			Name:         orNotAvailable(raw.Name()),
			Affiliations: raw.AffiliationStrings(),
		}

		var commercial []string
		for _, aff := range author.Affiliations {
			if c.IsCommercial(aff) {
				commercial = append(commercial, aff)
			}
			if p.CorrespondingEmail == types.NotAvailable {
				if email := emailPattern.FindString(aff); email != "" {
					p.CorrespondingEmail = strings.TrimRight(email, ".")
				}
			}
		}

		if len(commercial) > 0 {
			author.Commercial = true
			p.CommercialAuthors = append(p.CommercialAuthors, author.Name)
			for _, aff := range commercial {
				if !seenAffiliation[aff] {
					seenAffiliation[aff] = true
					p.CompanyAffiliations = append(p.CompanyAffiliations, aff)
				}
			}
		}
		p.Authors = append(p.Authors, author)
	}

	return p, true
}

func orNotAvailable(v string, ok bool) string {
	if !ok || strings.TrimSpace(v) == "" {
		return types.NotAvailable
	}
	return v
}

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// FormatDate renders a PubMed date as YYYY, YYYY-MM or YYYY-MM-DD. Months
// may be names ("Mar", "March") or numbers. A month that is neither, such
// as "Spring", is kept after the year. Without a year the MedlineDate is
// returned verbatim.
func FormatDate(d pubmed.RawDate, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	if d.Year == "" {
		return d.MedlineDate, d.MedlineDate != ""
	}
	if d.Month == "" {
		return d.Year, true
	}

	month, known := parseMonth(d.Month)
	if !known {
		return d.Year + " " + d.Month, true
	}
	out := d.Year + "-" + twoDigits(month)
	if day, err := strconv.Atoi(d.Day); err == nil && day >= 1 && day <= 31 {
		out += "-" + twoDigits(day)
	}
	return out, true
}

func parseMonth(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 1 && n <= 12
	}
	if len(s) < 3 {
		return 0, false
	}
	n, ok := monthNumbers[strings.ToLower(s[:3])]
	return n, ok
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
