// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package kenfrench pulls the Fama-French 25 portfolios (5x5 size by
// book-to-market) from the Ken French data library.
package kenfrench

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/dsctlgo/dataset"
)

// Name is the dataset name and artifact basename.
const Name = "ken_french_25_portfolios"

// DefaultURL is the zipped CSV published by the data library.
const DefaultURL = "https://mba.tuck.dartmouth.edu/pages/faculty/ken.french/ftp/25_Portfolios_5x5_CSV.zip"

// Params are the fetch parameters. Zero values mean the published
// source and no date filter.
type Params struct {
	Start time.Time
	End   time.Time

	// URL overrides the source location. Test seam.
	URL string
	// Client overrides the HTTP client.
	Client *http.Client
}

// Fetch retrieves the monthly value-weighted return table: a `date`
// column (first of month) plus one float column per portfolio. The
// library's -99.99 missing-value sentinels are carried through
// untouched; cleaning is the consumer's business, not the fetcher's.
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v",
			dataset.ErrSourceUnavailable, err)
	}

	csvBytes, err := extractCSV(body)
	if err != nil {
		return nil, err
	}

	return parse(csvBytes, p)
}

// extractCSV returns the first CSV member of the zip archive.
func extractCSV(body []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %v",
			dataset.ErrSourceFormatChanged, err)
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v",
				dataset.ErrSourceFormatChanged, f.Name, err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v",
				dataset.ErrSourceFormatChanged, f.Name, err)
		}
		return raw, nil
	}

	return nil, fmt.Errorf("%w: archive has no csv member",
		dataset.ErrSourceFormatChanged)
}

// parse reads the first monthly block of the file. The layout is a
// free-text preamble, a header row whose first field is blank and whose
// remaining fields name the portfolios, then YYYYMM-dated rows until
// the next section break.
func parse(raw []byte, p Params) (*dataset.Table, error) {
	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	names, err := headerNames(cr)
	if err != nil {
		return nil, err
	}

	dates := []any{}
	returns := make([][]any, len(names))

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrSourceFormatChanged, err)
		}

		date, ok := parseMonth(strings.TrimSpace(rec[0]))
		if !ok {
			// End of the monthly block (annual sections, section
			// titles, and blank separators follow).
			break
		}
		if !inWindow(date, p.Start, p.End) {
			continue
		}
		if len(rec) < len(names)+1 {
			return nil, fmt.Errorf("%w: short record for %s",
				dataset.ErrSourceFormatChanged, rec[0])
		}

		dates = append(dates, date)
		for i := range names {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad return %q",
					dataset.ErrSourceFormatChanged, rec[i+1])
			}
			returns[i] = append(returns[i], v)
		}
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no monthly rows found",
			dataset.ErrSourceFormatChanged)
	}
	log.Debugf("%s: fetched %d rows x %d portfolios", Name, len(dates), len(names))

	columns := make([]dataset.Column, 0, len(names)+1)
	columns = append(columns, dataset.Column{
		Name: "date", Kind: dataset.Time, Values: dates,
	})
	for i, name := range names {
		columns = append(columns, dataset.Column{
			Name:   name,
			Kind:   dataset.Float64,
			Values: returns[i],
		})
	}

	return dataset.New(columns...)
}

// headerNames scans to the portfolio header row.
func headerNames(cr *csv.Reader) ([]string, error) {
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no header row found",
				dataset.ErrSourceFormatChanged)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrSourceFormatChanged, err)
		}
		if len(rec) < 2 || strings.TrimSpace(rec[0]) != "" {
			continue
		}

		names := make([]string, 0, len(rec)-1)
		for _, f := range rec[1:] {
			f = strings.TrimSpace(f)
			if f == "" {
				return nil, fmt.Errorf("%w: blank portfolio name",
					dataset.ErrSourceFormatChanged)
			}
			names = append(names, f)
		}
		return names, nil
	}
}

// parseMonth converts YYYYMM to the first of the month, UTC.
func parseMonth(s string) (time.Time, bool) {
	if len(s) != 6 {
		return time.Time{}, false
	}
	d, err := time.Parse("200601", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
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

// Load reads the canonical artifact from baseDir; never fetches.
func Load(baseDir string) (*dataset.Table, error) {
	return dataset.Load(dataset.ArtifactPath(baseDir, Name))
}
