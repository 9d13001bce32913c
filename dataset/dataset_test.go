// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		wantErr string
	}{
		{
			name: "valid columns sorted canonically",
			columns: []Column{
				{Name: "zeta", Kind: Float64, Values: []any{1.0, 2.0}},
				{Name: "alpha", Kind: String, Values: []any{"a", nil}},
			},
		},
		{
			name:    "no columns",
			columns: nil,
			wantErr: "at least one column",
		},
		{
			name: "ragged columns",
			columns: []Column{
				{Name: "a", Kind: Float64, Values: []any{1.0}},
				{Name: "b", Kind: Float64, Values: []any{1.0, 2.0}},
			},
			wantErr: "has 2 rows, want 1",
		},
		{
			name: "duplicate names",
			columns: []Column{
				{Name: "a", Kind: Float64, Values: []any{1.0}},
				{Name: "a", Kind: Int64, Values: []any{int64(1)}},
			},
			wantErr: "duplicate column",
		},
		{
			name: "kind mismatch",
			columns: []Column{
				{Name: "a", Kind: Float64, Values: []any{"nope"}},
			},
			wantErr: "does not match kind float64",
		},
		{
			name: "empty name",
			columns: []Column{
				{Name: "", Kind: Float64, Values: []any{1.0}},
			},
			wantErr: "must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.columns...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "zeta"}, tbl.ColumnNames())
			assert.Equal(t, 2, tbl.NumRows())
			assert.Equal(t, 2, tbl.NumCols())
		})
	}
}

func TestTableColumn(t *testing.T) {
	tbl, err := New(
		Column{Name: "date", Kind: Time, Values: []any{time.Unix(0, 0).UTC()}},
		Column{Name: "ret", Kind: Float64, Values: []any{0.5}},
	)
	require.NoError(t, err)

	c, ok := tbl.Column("ret")
	require.True(t, ok)
	assert.Equal(t, Float64, c.Kind)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name      string
		outputDir string
		dataset   string
		want      string
	}{
		{
			name:      "simple",
			outputDir: "/data",
			dataset:   "fed_yield_curve",
			want:      filepath.Join("/data", "fed_yield_curve.parquet"),
		},
		{
			name:      "relative dir",
			outputDir: "_output",
			dataset:   "crsp_msix",
			want:      filepath.Join("_output", "crsp_msix.parquet"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactPath(tt.outputDir, tt.dataset))
			// The derivation is pure: the same inputs always agree.
			assert.Equal(t,
				ArtifactPath(tt.outputDir, tt.dataset),
				ArtifactPath(tt.outputDir, tt.dataset))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "time", Time.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
