// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Load reads the artifact at path back into a Table. It is a pure disk
// read: it performs no network access under any circumstance and never
// falls back to fetching. A missing file is reported as
// ErrArtifactNotFound, exactly as if the pull step had never run; a file
// that cannot be parsed is reported as ErrArtifactCorrupt. OS-level open
// failures other than a missing file (permissions, a non-directory in
// the path) pass through unclassified. Repeated calls re-read from disk;
// there is no caching layer beyond the filesystem itself.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactCorrupt, path, err)
	}

	fields := pf.Schema().Fields()
	columns := make([]Column, len(fields))
	for i, fld := range fields {
		kind, err := kindOf(fld)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArtifactCorrupt, path, err)
		}
		columns[i] = Column{Name: fld.Name(), Kind: kind}
	}

	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, columns); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArtifactCorrupt, path, err)
		}
	}

	return New(columns...)
}

func readRowGroup(rg parquet.RowGroup, columns []Column) error {
	rows := rg.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 64)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			if len(row) != len(columns) {
				return fmt.Errorf("row has %d values, want %d",
					len(row), len(columns))
			}
			for _, v := range row {
				c := &columns[v.Column()]
				c.Values = append(c.Values, cellAny(c.Kind, v))
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func cellAny(k Kind, v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch k {
	case Float64:
		return v.Double()
	case Int64:
		return v.Int64()
	case Bool:
		return v.Boolean()
	case Time:
		return time.UnixMilli(v.Int64()).UTC()
	default:
		// Copy out of the parquet read buffer.
		return string(v.ByteArray())
	}
}

// kindOf maps a parquet leaf field back onto the Table kind it was
// written from.
func kindOf(f parquet.Field) (Kind, error) {
	typ := f.Type()
	if lt := typ.LogicalType(); lt != nil && lt.Timestamp != nil {
		return Time, nil
	}
	switch typ.Kind() {
	case parquet.Double:
		return Float64, nil
	case parquet.Int64:
		return Int64, nil
	case parquet.Boolean:
		return Bool, nil
	case parquet.ByteArray:
		return String, nil
	}
	return 0, fmt.Errorf("unsupported column type %s for %q", typ, f.Name())
}
