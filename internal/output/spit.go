// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/staranto/dsctlgo/dataset"
)

// Options control how a table is emitted.
type Options struct {
	// Format is one of text, csv, json, yaml.
	Format string
	// Titles includes the header row in text output.
	Titles bool
	// Color enables colored text output.
	Color bool
	// Limit caps the emitted row count; 0 means all rows.
	Limit int
}

const dateLayout = "2006-01-02"

// Spit renders the table to w in the requested format. Columns appear
// in the table's canonical order.
func Spit(t *dataset.Table, opts Options, w io.Writer) error {
	rows := t.NumRows()
	if opts.Limit > 0 && opts.Limit < rows {
		rows = opts.Limit
	}

	switch opts.Format {
	case "json":
		out, err := json.Marshal(records(t, rows))
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "yaml":
		out, err := yaml.Marshal(records(t, rows))
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "csv":
		return csvWriter(t, rows, w)
	default:
		return tableWriter(t, rows, opts, w)
	}
}

// records flattens the columnar table into row maps for the structured
// formats. Times are emitted as dates; nulls as nil.
func records(t *dataset.Table, rows int) []map[string]any {
	out := make([]map[string]any, rows)
	for r := 0; r < rows; r++ {
		rec := make(map[string]any, t.NumCols())
		for _, c := range t.Columns {
			v := c.Values[r]
			if ts, ok := v.(time.Time); ok {
				v = ts.Format(dateLayout)
			}
			rec[c.Name] = v
		}
		out[r] = rec
	}
	return out
}

func csvWriter(t *dataset.Table, rows int, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	rec := make([]string, t.NumCols())
	for r := 0; r < rows; r++ {
		for i, c := range t.Columns {
			rec[i] = cell(c.Values[r], "")
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// tableWriter renders the result set in a tabular form honoring color
// and titles options.
func tableWriter(t *dataset.Table, rows int, opts Options, w io.Writer) error {
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("#f6be00"))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color("#ffffff"))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color("#00c8f0"))
	}

	var body [][]string
	for r := 0; r < rows; r++ {
		row := make([]string, t.NumCols())
		for i, c := range t.Columns {
			row[i] = cell(c.Values[r], "-")
		}
		body = append(body, row)
	}

	tbl := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Rows(body...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		tbl = tbl.Headers(t.ColumnNames()...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, tbl)
	return err
}

// cell converts one value to its display form. A custom empty value may
// be provided for nulls.
func cell(v any, empty string) string {
	switch v := v.(type) {
	case nil:
		return empty
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(dateLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}
