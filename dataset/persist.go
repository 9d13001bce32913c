// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Persist serializes the table to a parquet artifact at path, atomically
// replacing any prior artifact. The write goes to a temporary file in the
// target directory and is renamed into place only after a successful
// flush, so a reader never observes a half-written artifact. The target
// directory must already exist; creating it is the orchestration's job.
//
// Persist is invoked only from the pull orchestration, never as a side
// effect of a fetcher or a loader. All failures wrap ErrPersistFailed.
func Persist(t *Table, path string) error {
	schema := schemaOf(t)

	rows, err := deconstruct(t)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	dir, base := filepath.Dir(path), filepath.Base(path)
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrPersistFailed, err)
	}
	tmpName := tmp.Name()

	// On any failure below, leave nothing behind.
	fail := func(step string, cause error) error {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrPersistFailed, step, cause)
	}

	w := parquet.NewGenericWriter[any](tmp, schema,
		parquet.Compression(&parquet.Snappy))
	if len(rows) > 0 {
		if _, err := w.WriteRows(rows); err != nil {
			return fail("write rows", err)
		}
	}
	if err := w.Close(); err != nil {
		return fail("close writer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return fail("close temp file", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename into place: %v", ErrPersistFailed, err)
	}

	return nil
}

// schemaOf builds the self-describing parquet schema for a table. Every
// column is optional so null cells survive the round trip. parquet groups
// order fields lexicographically, which matches the Table's canonical
// column order.
func schemaOf(t *Table) *parquet.Schema {
	group := parquet.Group{}
	for _, c := range t.Columns {
		group[c.Name] = parquet.Optional(nodeOf(c.Kind))
	}
	return parquet.NewSchema("dataset", group)
}

func nodeOf(k Kind) parquet.Node {
	switch k {
	case Float64:
		return parquet.Leaf(parquet.DoubleType)
	case Int64:
		return parquet.Int(64)
	case Bool:
		return parquet.Leaf(parquet.BooleanType)
	case Time:
		return parquet.Timestamp(parquet.Millisecond)
	default:
		return parquet.String()
	}
}

// deconstruct flattens the table into parquet rows, one value per leaf
// column in canonical order.
func deconstruct(t *Table) ([]parquet.Row, error) {
	numRows := t.NumRows()
	rows := make([]parquet.Row, numRows)
	for r := 0; r < numRows; r++ {
		row := make(parquet.Row, 0, len(t.Columns))
		for ci, c := range t.Columns {
			v, err := cellValue(c, r, ci)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows[r] = row
	}
	return rows, nil
}

func cellValue(c Column, row, col int) (parquet.Value, error) {
	v := c.Values[row]
	if v == nil {
		return parquet.ValueOf(nil).Level(0, 0, col), nil
	}

	switch c.Kind {
	case Time:
		ts, ok := v.(time.Time)
		if !ok {
			return parquet.Value{}, fmt.Errorf(
				"column %q row %d: %T is not a time.Time", c.Name, row, v)
		}
		return parquet.ValueOf(ts.UnixMilli()).Level(0, 1, col), nil
	default:
		return parquet.ValueOf(v).Level(0, 1, col), nil
	}
}
