// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package kenfrench

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dsctlgo/dataset"
)

const fixtureCSV = `This file was created using the CRSP database.
Missing data are indicated by -99.99.

  Average Value Weighted Returns -- Monthly
,SMALL LoBM,ME1 BM2,BIG HiBM
192607,   2.96,  -2.35,   1.10
192608,   4.40,  -1.32, -99.99
192609,   0.37,   1.06,   0.21

  Average Equal Weighted Returns -- Monthly
,SMALL LoBM,ME1 BM2,BIG HiBM
192607,   1.00,   1.00,   1.00
`

// serveZip wraps the fixture CSV in a zip archive, the shape the data
// library publishes.
func serveZip(t *testing.T, csvBody string) *httptest.Server {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("25_Portfolios_5x5.csv")
	require.NoError(t, err)
	_, err = f.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(buf.Bytes())
		}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := serveZip(t, fixtureCSV)

	tbl, err := Fetch(context.Background(), Params{URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.NumCols())
	// Only the first (value-weighted) monthly block is read.
	assert.Equal(t, 3, tbl.NumRows())

	d, ok := tbl.Column("date")
	require.True(t, ok)
	assert.Equal(t,
		time.Date(1926, 7, 1, 0, 0, 0, 0, time.UTC), d.Values[0])

	c, ok := tbl.Column("SMALL LoBM")
	require.True(t, ok)
	assert.InDelta(t, 2.96, c.Values[0].(float64), 1e-9)

	// Missing-value sentinels pass through uncleaned.
	big, ok := tbl.Column("BIG HiBM")
	require.True(t, ok)
	assert.InDelta(t, -99.99, big.Values[1].(float64), 1e-9)
}

func TestFetchDateWindow(t *testing.T) {
	srv := serveZip(t, fixtureCSV)

	tbl, err := Fetch(context.Background(), Params{
		URL: srv.URL,
		End: time.Date(1926, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestFetchNotAZip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("plain text, not an archive"))
		}))
	t.Cleanup(srv.Close)

	_, err := Fetch(context.Background(), Params{URL: srv.URL})
	assert.ErrorIs(t, err, dataset.ErrSourceFormatChanged)
}

func TestFetchNoMonthlyBlock(t *testing.T) {
	srv := serveZip(t, "just a title line\nand another\n")

	_, err := Fetch(context.Background(), Params{URL: srv.URL})
	assert.ErrorIs(t, err, dataset.ErrSourceFormatChanged)
}

func TestFetchSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
	t.Cleanup(srv.Close)

	_, err := Fetch(context.Background(), Params{URL: srv.URL})
	assert.ErrorIs(t, err, dataset.ErrSourceUnavailable)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, dataset.ErrArtifactNotFound)
}
