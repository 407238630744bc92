// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders retained papers as CSV, a console table, JSON or
// CSL-YAML.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Format names a console rendering.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSL   Format = "csl"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a --format value. The empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSL, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, csl or csv)", s)
	}
}

// Write renders papers to w in format f.
func Write(w io.Writer, f Format, papers []types.Paper) error {
	switch f {
	case FormatTable, "":
		return WriteTable(w, papers)
	case FormatJSON:
		return WriteJSON(w, papers)
	case FormatCSL:
		return WriteCSL(w, papers)
	case FormatCSV:
		return WriteCSV(w, papers)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// join renders a multi-valued field, or the sentinel when it is empty.
func join(values []string) string {
	if len(values) == 0 {
		return types.NotAvailable
	}
	return strings.Join(values, "; ")
}
