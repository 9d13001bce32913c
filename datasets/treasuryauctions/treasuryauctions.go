// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package treasuryauctions pulls auction results from the TreasuryDirect
// securities API.
package treasuryauctions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/dsctlgo/dataset"
)

// Name is the dataset name and artifact basename.
const Name = "treasury_auction_stats"

// DefaultURL is the auctioned-securities endpoint.
const DefaultURL = "https://www.treasurydirect.gov/TA_WS/securities/auctioned?format=json"

// Params are the fetch parameters.
type Params struct {
	// URL overrides the source location. Test seam.
	URL string
	// Client overrides the HTTP client.
	Client *http.Client
}

// fields maps artifact column names onto API attribute paths and kinds.
var fields = []struct {
	column string
	path   string
	kind   dataset.Kind
}{
	{"cusip", "cusip", dataset.String},
	{"security_type", "securityType", dataset.String},
	{"security_term", "securityTerm", dataset.String},
	{"auction_date", "auctionDate", dataset.Time},
	{"issue_date", "issueDate", dataset.Time},
	{"maturity_date", "maturityDate", dataset.Time},
	{"total_accepted", "totalAccepted", dataset.Float64},
	{"high_yield", "highYield", dataset.Float64},
}

// Fetch retrieves the auction table into memory. The API responds with
// a JSON array of auction objects; anything else wraps
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
	req.Header.Set("Accept", "application/json")

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

	return parse(body)
}

func parse(body []byte) (*dataset.Table, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not json",
			dataset.ErrSourceFormatChanged)
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected a json array",
			dataset.ErrSourceFormatChanged)
	}

	values := make([][]any, len(fields))
	var badCell error

	doc.ForEach(func(_, auction gjson.Result) bool {
		for i, f := range fields {
			cell, err := convert(auction.Get(f.path), f.kind)
			if err != nil {
				badCell = err
				return false
			}
			values[i] = append(values[i], cell)
		}
		return true
	})
	if badCell != nil {
		return nil, badCell
	}

	log.Debugf("%s: fetched %d auctions", Name, len(values[0]))

	columns := make([]dataset.Column, len(fields))
	for i, f := range fields {
		columns[i] = dataset.Column{
			Name:   f.column,
			Kind:   f.kind,
			Values: values[i],
		}
	}
	return dataset.New(columns...)
}

// convert coerces one API attribute. The API quotes its numbers, so
// floats are parsed from strings; blank and absent attributes become
// nulls.
func convert(r gjson.Result, k dataset.Kind) (any, error) {
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return nil, nil
	}

	switch k {
	case dataset.String:
		return r.String(), nil
	case dataset.Float64:
		v, err := strconv.ParseFloat(r.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q",
				dataset.ErrSourceFormatChanged, r.String())
		}
		return v, nil
	case dataset.Time:
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
			if d, err := time.Parse(layout, r.String()); err == nil {
				return d.UTC(), nil
			}
		}
		return nil, fmt.Errorf("%w: bad date %q",
			dataset.ErrSourceFormatChanged, r.String())
	}
	return nil, fmt.Errorf("%w: unhandled kind %s",
		dataset.ErrSourceFormatChanged, k)
}

// Load reads the canonical artifact from baseDir; never fetches.
func Load(baseDir string) (*dataset.Table, error) {
	return dataset.Load(dataset.ArtifactPath(baseDir, Name))
}
