// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML, consumable by Pandoc and
// reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	PMID           string    `yaml:"PMID"`
	Note           string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes papers as a CSL-YAML list.
func WriteCSL(w io.Writer, papers []types.Paper) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func toCSLItem(p types.Paper) CSLItem {
	item := CSLItem{
		ID:     "pmid:" + p.PMID,
		Type:   "article-journal",
		Title:  available(p.Title),
		PMID:   p.PMID,
		Issued: parseDateParts(p.PublicationDate),
	}
	item.ContainerTitle = available(p.Journal)
	if p.HasDOI() {
		item.DOI = p.DOI
	}
	for _, a := range p.Authors {
		if a.Name == types.NotAvailable {
			continue
		}
		item.Author = append(item.Author, parseAuthorName(a.Name))
	}
	if len(p.CompanyAffiliations) > 0 {
		item.Note = "Company affiliations: " + join(p.CompanyAffiliations)
	}
	return item
}

func available(s string) string {
	if s == types.NotAvailable {
		return ""
	}
	return s
}

// parseDateParts reads the leading YYYY[-MM[-DD]] of a normalized date.
// Text after the first space, such as a season, is ignored.
func parseDateParts(date string) *CSLDate {
	if i := strings.IndexByte(date, ' '); i >= 0 {
		date = date[:i]
	}
	var parts []int
	for _, field := range strings.SplitN(date, "-", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

// parseAuthorName splits on the last space into given and family parts.
// Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
