// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package dataset defines the pull/persist/load contract shared by every
// dataset in the repository: an in-memory columnar Table produced by a
// fetcher, a canonical on-disk parquet artifact written by Persist, and a
// Load that reads the artifact back without ever touching the network.
package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Kind is the logical type of a column.
type Kind int

const (
	Float64 Kind = iota
	Int64
	Bool
	String
	Time
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Time:
		return "time"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Column is a single named, typed column. Values holds one entry per row;
// a nil entry marks a null cell. Non-nil entries must match the Kind
// (float64, int64, bool, string, time.Time).
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Table is an in-memory columnar fetch result. It has no identity beyond
// being a function return value and is not mutated after construction.
// Column order is canonical (lexicographic by name), so a persist/load
// round trip is order-stable.
type Table struct {
	Columns []Column
}

// New validates the columns and returns a Table with canonical column
// order. All columns must have the same length, unique names, and values
// that agree with their declared kind.
func New(columns ...Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table must have at least one column")
	}

	rows := len(columns[0].Values)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column name must not be empty")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true

		if len(c.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d",
				c.Name, len(c.Values), rows)
		}

		for i, v := range c.Values {
			if v == nil {
				continue
			}
			if !kindMatches(c.Kind, v) {
				return nil, fmt.Errorf("column %q row %d: %T does not match kind %s",
					c.Name, i, v, c.Kind)
			}
		}
	}

	sorted := make([]Column, len(columns))
	copy(sorted, columns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	return &Table{Columns: sorted}, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Column returns the named column, or false if it does not exist.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in canonical order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func kindMatches(k Kind, v any) bool {
	switch k {
	case Float64:
		_, ok := v.(float64)
		return ok
	case Int64:
		_, ok := v.(int64)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	case Time:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}
