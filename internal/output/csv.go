// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// CSVHeader is the column order of the CSV sink.
var CSVHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Journal",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
	"DOI",
}

// WriteCSV writes a header row and one row per paper. Multi-valued
// columns are joined with "; ".
func WriteCSV(w io.Writer, papers []types.Paper) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range papers {
		if err := cw.Write(csvRow(p)); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", p.PMID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes papers to it.
func WriteCSVFile(path string, papers []types.Paper) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, papers); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func csvRow(p types.Paper) []string {
	return []string{
		p.PMID,
		p.Title,
		p.PublicationDate,
		p.Journal,
		join(p.CommercialAuthors),
		join(p.CompanyAffiliations),
		p.CorrespondingEmail,
		p.DOI,
	}
}
