// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package wrdscrsp pulls the CRSP monthly index file (MSIX) through the
// WRDS postgres gateway. Authentication follows the usual WRDS setup:
// username from configuration, password from ~/.pgpass.
package wrdscrsp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/lib/pq" // postgres driver

	"github.com/staranto/dsctlgo/dataset"
)

// Name is the dataset name and artifact basename.
const Name = "crsp_msix"

const (
	wrdsHost = "wrds-pgdata.wharton.upenn.edu"
	wrdsPort = 9737
	wrdsDB   = "wrds"
)

// msixQuery selects the monthly index series: value- and equal-weighted
// index returns with and without distributions, the S&P composite, and
// total/used market counts and values.
const msixQuery = `
SELECT caldt, vwretd, vwretx, ewretd, ewretx, sprtrn, spindx,
       totval, totcnt, usdval, usdcnt
FROM crsp_a_indexes.msix
WHERE caldt BETWEEN $1 AND $2
ORDER BY caldt`

// Params are the fetch parameters.
type Params struct {
	// Start and End bound the calendar date, inclusive. Zero values
	// fall back to the full CRSP history window.
	Start time.Time
	End   time.Time

	// User is the WRDS username.
	User string

	// DSN overrides the connection string entirely. Test seam.
	DSN string
}

// Fetch runs the MSIX query and returns the result in memory. A gateway
// that cannot be reached wraps dataset.ErrSourceUnavailable; a result
// set that no longer scans into the expected columns wraps
// dataset.ErrSourceFormatChanged.
func Fetch(ctx context.Context, p Params) (*dataset.Table, error) {
	start, end := window(p)

	db, err := sql.Open("postgres", dsn(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}

	rows, err := db.QueryContext(ctx, msixQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	return scan(rows)
}

func scan(rows *sql.Rows) (*dataset.Table, error) {
	var (
		dates  []any
		floats = map[string][]any{}
		counts = map[string][]any{}
	)
	floatCols := []string{
		"vwretd", "vwretx", "ewretd", "ewretx", "sprtrn", "spindx",
		"totval", "usdval",
	}
	countCols := []string{"totcnt", "usdcnt"}

	for rows.Next() {
		var (
			caldt time.Time
			fv    [8]sql.NullFloat64
			cv    [2]sql.NullInt64
		)
		if err := rows.Scan(&caldt,
			&fv[0], &fv[1], &fv[2], &fv[3], &fv[4], &fv[5],
			&fv[6], &cv[0], &fv[7], &cv[1]); err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrSourceFormatChanged, err)
		}

		dates = append(dates, caldt.UTC())
		for i, name := range floatCols {
			floats[name] = append(floats[name], nullFloat(fv[i]))
		}
		for i, name := range countCols {
			counts[name] = append(counts[name], nullInt(cv[i]))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dataset.ErrSourceUnavailable, err)
	}

	log.Debugf("%s: fetched %d rows", Name, len(dates))

	columns := []dataset.Column{
		{Name: "date", Kind: dataset.Time, Values: dates},
	}
	for _, name := range floatCols {
		columns = append(columns, dataset.Column{
			Name: name, Kind: dataset.Float64, Values: floats[name],
		})
	}
	for _, name := range countCols {
		columns = append(columns, dataset.Column{
			Name: name, Kind: dataset.Int64, Values: counts[name],
		})
	}

	return dataset.New(columns...)
}

func nullFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

// dsn builds the gateway connection string. The password side of the
// login is left to libpq's ~/.pgpass handling, per WRDS convention.
func dsn(p Params) string {
	if p.DSN != "" {
		return p.DSN
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s sslmode=require",
		wrdsHost, wrdsPort, wrdsDB, p.User)
}

// window applies the CRSP full-history defaults used when no bounds are
// given.
func window(p Params) (time.Time, time.Time) {
	start, end := p.Start, p.End
	if start.IsZero() {
		start = time.Date(1925, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return start, end
}

// Load reads the canonical artifact from baseDir; never connects to
// WRDS.
func Load(baseDir string) (*dataset.Table, error) {
	return dataset.Load(dataset.ArtifactPath(baseDir, Name))
}
