// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/dsctlgo/dataset"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components.
// It matches: key + operator + target, where operator can be negated with !
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
// This allows forms like '=', '!=', '^', '!^', etc.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the column,
// operand, optional negation and target value.
type Filter struct {
	Column  string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	// If there are no filters specified, go home early.
	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("DSCTL_FILTER_DELIM"); ok {
		delim = d
	}

	filterSpecs := strings.Split(spec, delim)
	for _, filterSpec := range filterSpecs {
		parts := filterRegex.FindStringSubmatch(filterSpec)

		// If a supported operand was not found, log an error and throw it away.
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[2] is the operand. It may have a leading negation. If so, trim it
		// and just use the remainder as the working operand.
		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Column:  parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// FilterTable returns a copy of t containing only the rows that match every
// filter in spec. An empty spec returns t unchanged.
func FilterTable(t *dataset.Table, spec string) (*dataset.Table, error) {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return t, nil
	}

	var keep []int
	for row := 0; row < t.NumRows(); row++ {
		if matchRow(t, row, filters) {
			keep = append(keep, row)
		}
	}

	cols := make([]dataset.Column, 0, t.NumCols())
	for _, name := range t.ColumnNames() {
		col, _ := t.Column(name)
		values := make([]any, 0, len(keep))
		for _, row := range keep {
			values = append(values, col.Values[row])
		}
		cols = append(cols, dataset.Column{Name: col.Name, Kind: col.Kind, Values: values})
	}

	return dataset.New(cols...)
}

// matchRow returns true if the row matches all of the provided filters.
// A null cell never matches.
func matchRow(t *dataset.Table, row int, filters []Filter) bool {
	for _, filter := range filters {
		col, ok := t.Column(filter.Column)

		// An unknown column gets reported but does not reject the row, so a
		// typo in one filter doesn't silently empty the result set.
		if !ok {
			msg := fmt.Sprintf("filter column not found: %s", filter.Column)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		value := col.Values[row]
		if value == nil {
			return false
		}

		var result bool
		switch v := value.(type) {
		case float64:
			result = checkNumericOperand(v, filter)
		case int64:
			result = checkNumericOperand(float64(v), filter)
		case bool:
			result = checkStringOperand(strconv.FormatBool(v), filter)
		case time.Time:
			result = checkStringOperand(v.Format("2006-01-02"), filter)
		case string:
			result = checkStringOperand(v, filter)
		default:
			log.Error(fmt.Sprintf("unsupported type for filtering: %T", value))
			result = false
		}

		if !result {
			return false
		}
	}

	return true
}

// checkNumericOperand compares a numeric value against the filter target using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
