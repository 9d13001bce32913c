// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dsctlgo/dataset"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantCount int
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match filter",
			spec:      "cusip=912828ZT0",
			wantCount: 1,
			want: []Filter{
				{Column: "cusip", Operand: "=", Target: "912828ZT0", Negate: false},
			},
		},
		{
			name:      "prefix match filter",
			spec:      "security_type^Treasury",
			wantCount: 1,
			want: []Filter{
				{Column: "security_type", Operand: "^", Target: "Treasury", Negate: false},
			},
		},
		{
			name:      "negated exact match",
			spec:      "security_term!=4-Week",
			wantCount: 1,
			want: []Filter{
				{Column: "security_term", Operand: "=", Target: "4-Week", Negate: true},
			},
		},
		{
			name:      "numeric comparison",
			spec:      "high_yield>4.5",
			wantCount: 1,
			want: []Filter{
				{Column: "high_yield", Operand: ">", Target: "4.5", Negate: false},
			},
		},
		{
			name:      "contains operand",
			spec:      "security_term@Week",
			wantCount: 1,
			want: []Filter{
				{Column: "security_term", Operand: "@", Target: "Week", Negate: false},
			},
		},
		{
			name:      "regex operand",
			spec:      "cusip/^9128.*",
			wantCount: 1,
			want: []Filter{
				{Column: "cusip", Operand: "/", Target: "^9128.*", Negate: false},
			},
		},
		{
			name:      "multiple filters",
			spec:      "security_type^Bill,high_yield<5",
			wantCount: 2,
			want: []Filter{
				{Column: "security_type", Operand: "^", Target: "Bill", Negate: false},
				{Column: "high_yield", Operand: "<", Target: "5", Negate: false},
			},
		},
		{
			name:      "invalid filter skipped",
			spec:      "cusip=x,not-a-filter,high_yield>1",
			wantCount: 2,
			want: []Filter{
				{Column: "cusip", Operand: "=", Target: "x", Negate: false},
				{Column: "high_yield", Operand: ">", Target: "1", Negate: false},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "cusip=x|high_yield>1",
			delimiter: "|",
			wantCount: 2,
			want: []Filter{
				{Column: "cusip", Operand: "=", Target: "x", Negate: false},
				{Column: "high_yield", Operand: ">", Target: "1", Negate: false},
			},
		},
		{
			name:      "empty target",
			spec:      "cusip=",
			wantCount: 1,
			want: []Filter{
				{Column: "cusip", Operand: "=", Target: "", Negate: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("DSCTL_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  "Bill",
			filter: Filter{Operand: "=", Target: "Bill", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  "Bill",
			filter: Filter{Operand: "=", Target: "Note", Negate: false},
			want:   false,
		},
		{
			name:   "negated exact match",
			value:  "Bill",
			filter: Filter{Operand: "=", Target: "Note", Negate: true},
			want:   true,
		},
		{
			name:   "prefix match",
			value:  "Treasury Bill",
			filter: Filter{Operand: "^", Target: "Treasury", Negate: false},
			want:   true,
		},
		{
			name:   "case insensitive match",
			value:  "BILL",
			filter: Filter{Operand: "~", Target: "bill", Negate: false},
			want:   true,
		},
		{
			name:   "contains",
			value:  "13-Week",
			filter: Filter{Operand: "@", Target: "Week", Negate: false},
			want:   true,
		},
		{
			name:   "regex match",
			value:  "912828ZT0",
			filter: Filter{Operand: "/", Target: "^9128.*0$", Negate: false},
			want:   true,
		},
		{
			name:   "string ordering",
			value:  "2024-01-15",
			filter: Filter{Operand: ">", Target: "2023-12-31", Negate: false},
			want:   true,
		},
		{
			name:   "invalid regex",
			value:  "x",
			filter: Filter{Operand: "/", Target: "[invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  "x",
			filter: Filter{Operand: "?", Target: "x", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{
			name:   "exact match",
			value:  4.5,
			filter: Filter{Operand: "=", Target: "4.5", Negate: false},
			want:   true,
		},
		{
			name:   "negated equal",
			value:  4.5,
			filter: Filter{Operand: "=", Target: "4.0", Negate: true},
			want:   true,
		},
		{
			name:   "greater than",
			value:  5.25,
			filter: Filter{Operand: ">", Target: "5", Negate: false},
			want:   true,
		},
		{
			name:   "less than false",
			value:  5.25,
			filter: Filter{Operand: "<", Target: "5", Negate: false},
			want:   false,
		},
		{
			name:   "invalid target",
			value:  1,
			filter: Filter{Operand: "=", Target: "nope", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  1,
			filter: Filter{Operand: "^", Target: "1", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func filterFixture(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.New(
		dataset.Column{Name: "cusip", Kind: dataset.String, Values: []any{
			"912796YB9", "912828ZT0", "912810TM0",
		}},
		dataset.Column{Name: "security_type", Kind: dataset.String, Values: []any{
			"Bill", "Note", "Bond",
		}},
		dataset.Column{Name: "high_yield", Kind: dataset.Float64, Values: []any{
			5.25, 4.125, nil,
		}},
		dataset.Column{Name: "auction_date", Kind: dataset.Time, Values: []any{
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		}},
	)
	require.NoError(t, err)
	return tbl
}

func TestFilterTable(t *testing.T) {
	tests := []struct {
		name       string
		spec       string
		wantCusips []string
	}{
		{
			name:       "empty spec keeps everything",
			spec:       "",
			wantCusips: []string{"912796YB9", "912828ZT0", "912810TM0"},
		},
		{
			name:       "string equality",
			spec:       "security_type=Note",
			wantCusips: []string{"912828ZT0"},
		},
		{
			name:       "numeric threshold excludes nulls",
			spec:       "high_yield>4",
			wantCusips: []string{"912796YB9", "912828ZT0"},
		},
		{
			name:       "time compared as date string",
			spec:       "auction_date>2024-02-01",
			wantCusips: []string{"912828ZT0", "912810TM0"},
		},
		{
			name:       "conjunction",
			spec:       "high_yield>4,security_type=Bill",
			wantCusips: []string{"912796YB9"},
		},
		{
			name:       "no matches",
			spec:       "security_type=TIPS",
			wantCusips: nil,
		},
		{
			name:       "unknown column does not reject",
			spec:       "no_such_column=x,security_type=Bond",
			wantCusips: []string{"912810TM0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterTable(filterFixture(t), tt.spec)
			require.NoError(t, err)

			cusips, ok := got.Column("cusip")
			require.True(t, ok)
			assert.Len(t, cusips.Values, len(tt.wantCusips))
			for i, want := range tt.wantCusips {
				assert.Equal(t, want, cusips.Values[i])
			}
		})
	}
}
