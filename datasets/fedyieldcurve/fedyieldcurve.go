// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fedyieldcurve pulls the Gurkaynak-Sack-Wright zero-coupon
// Treasury yield curve published by the Federal Reserve Board.
package fedyieldcurve

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"

	"github.com/staranto/dsctlgo/dataset"
)

// Name is the dataset name and artifact basename.
const Name = "fed_yield_curve"

// DefaultURL is the published location of the GSW dataset.
const DefaultURL = "https://www.federalreserve.gov/data/yield-curve-tables/feds200628.csv"

// maturities is the number of SVENY columns (1..30 year zero-coupon
// yields) the dataset carries.
const maturities = 30

// Params are the fetch parameters. Zero values mean no date filter and
// the published source location.
type Params struct {
	// Start and End bound the date index, inclusive, when non-zero.
	Start time.Time
	End   time.Time

	// URL overrides the source location. Test seam.
	URL string
	// Client overrides the HTTP client.
	Client *http.Client
}

// Fetch retrieves the yield curve table into memory: a `date` column
// plus SVENY01..SVENY30. It performs network access only; it neither
// reads nor writes the artifact path. An unreachable source wraps
// dataset.ErrSourceUnavailable; an unrecognized layout wraps
// dataset.ErrSourceFormatChanged.
func Fetch(ctx context.Context, p Params) (*dataset.Table, error) {
	url := p.URL
	if url == "" {
		url = DefaultURL
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v",
			dataset.ErrSourceUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s",
			dataset.ErrSourceUnavailable, url, resp.Status)
	}

	return parse(resp.Body, p)
}

// parse reads the published CSV. The file opens with several free-text
// description lines before the real header row, so the header is found
// by scanning for the row whose first field is "Date".
func parse(r io.Reader, p Params) (*dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	cols, err := headerIndex(cr)
	if err != nil {
		return nil, err
	}

	dates := []any{}
	yields := make([][]any, maturities)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrSourceFormatChanged, err)
		}

		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q",
				dataset.ErrSourceFormatChanged, rec[0])
		}
		if !inWindow(date, p.Start, p.End) {
			continue
		}

		dates = append(dates, date)
		for i, idx := range cols {
			cell, err := parseYield(rec, idx)
			if err != nil {
				return nil, err
			}
			yields[i] = append(yields[i], cell)
		}
	}

	log.Debugf("%s: fetched %d rows", Name, len(dates))

	columns := make([]dataset.Column, 0, maturities+1)
	columns = append(columns, dataset.Column{
		Name: "date", Kind: dataset.Time, Values: dates,
	})
	for i := 0; i < maturities; i++ {
		columns = append(columns, dataset.Column{
			Name:   svenyName(i + 1),
			Kind:   dataset.Float64,
			Values: yields[i],
		})
	}

	return dataset.New(columns...)
}

// headerIndex scans to the header row and returns the record index of
// each SVENY column, ordered by maturity.
func headerIndex(cr *csv.Reader) ([maturities]int, error) {
	var cols [maturities]int

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return cols, fmt.Errorf("%w: no header row found",
				dataset.ErrSourceFormatChanged)
		}
		if err != nil {
			return cols, fmt.Errorf("%w: %v", dataset.ErrSourceFormatChanged, err)
		}
		if len(rec) == 0 || rec[0] != "Date" {
			continue
		}

		byName := make(map[string]int, len(rec))
		for i, name := range rec {
			byName[name] = i
		}
		for m := 1; m <= maturities; m++ {
			idx, ok := byName[svenyName(m)]
			if !ok {
				return cols, fmt.Errorf("%w: missing column %s",
					dataset.ErrSourceFormatChanged, svenyName(m))
			}
			cols[m-1] = idx
		}
		return cols, nil
	}
}

// parseYield converts one cell. The Board publishes blank or "NA" cells
// for dates before a maturity series starts; those become nulls.
func parseYield(rec []string, idx int) (any, error) {
	if idx >= len(rec) {
		return nil, fmt.Errorf("%w: short record", dataset.ErrSourceFormatChanged)
	}
	s := rec[idx]
	if s == "" || s == "NA" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad yield %q",
			dataset.ErrSourceFormatChanged, s)
	}
	return v, nil
}

func svenyName(maturity int) string {
	return fmt.Sprintf("SVENY%02d", maturity)
}

func inWindow(d, start, end time.Time) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

// Load reads the canonical artifact from baseDir. It never fetches: a
// missing artifact surfaces dataset.ErrArtifactNotFound, exactly as if
// the pull step had not been run.
func Load(baseDir string) (*dataset.Table, error) {
	return dataset.Load(dataset.ArtifactPath(baseDir, Name))
}
