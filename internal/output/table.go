// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	titleWidth       = 60
	affiliationWidth = 50
)

// WriteTable renders papers as a console table followed by a count line.
func WriteTable(w io.Writer, papers []types.Paper) error {
	if len(papers) == 0 {
		_, err := fmt.Fprintln(w, "No papers with company-affiliated authors found.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "PMID", "Title", "Date", "Journal", "Company Authors", "Company Affiliations"})
	for i, p := range papers {
		t.AppendRow(table.Row{
			i + 1,
			p.PMID,
			truncate(p.Title, titleWidth),
			p.PublicationDate,
			truncate(p.Journal, 30),
			join(p.CommercialAuthors),
			truncate(join(p.CompanyAffiliations), affiliationWidth),
		})
	}
	t.Render()

	_, err := fmt.Fprintf(w, "\n%d papers\n", len(papers))
	return err
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
