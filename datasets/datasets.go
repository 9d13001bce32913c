// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package datasets is the roster of pullable datasets. Each entry binds a
// dataset name to its fetcher; the canonical artifact location is always
// dataset.ArtifactPath(cfg.OutputDir, Name), shared with the per-dataset
// Load functions consumers call.
package datasets

import (
	"context"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/datasets/fedyieldcurve"
	"github.com/staranto/dsctlgo/datasets/kenfrench"
	"github.com/staranto/dsctlgo/datasets/treasuryauctions"
	"github.com/staranto/dsctlgo/datasets/wrdscrsp"
	"github.com/staranto/dsctlgo/internal/config"
)

// Puller binds a dataset name to its fetch operation. Fetch obtains the
// dataset from its external source and returns it in memory; it performs
// no disk I/O and never touches the artifact path.
type Puller struct {
	Name  string
	Usage string
	Fetch func(ctx context.Context, cfg config.Config) (*dataset.Table, error)
}

// All returns the full roster in stable order.
func All() []Puller {
	return []Puller{
		{
			Name:  fedyieldcurve.Name,
			Usage: "GSW zero-coupon Treasury yield curve (federalreserve.gov)",
			Fetch: func(ctx context.Context, _ config.Config) (*dataset.Table, error) {
				return fedyieldcurve.Fetch(ctx, fedyieldcurve.Params{})
			},
		},
		{
			Name:  kenfrench.Name,
			Usage: "Fama-French 25 portfolios (5x5), monthly value-weighted returns",
			Fetch: func(ctx context.Context, _ config.Config) (*dataset.Table, error) {
				return kenfrench.Fetch(ctx, kenfrench.Params{})
			},
		},
		{
			Name:  treasuryauctions.Name,
			Usage: "Treasury auction results (treasurydirect.gov)",
			Fetch: func(ctx context.Context, _ config.Config) (*dataset.Table, error) {
				return treasuryauctions.Fetch(ctx, treasuryauctions.Params{})
			},
		},
		{
			Name:  wrdscrsp.Name,
			Usage: "CRSP monthly index file via the WRDS postgres gateway",
			Fetch: func(ctx context.Context, cfg config.Config) (*dataset.Table, error) {
				return wrdscrsp.Fetch(ctx, wrdscrsp.Params{User: cfg.WRDSUser})
			},
		},
	}
}

// ByName returns the named puller.
func ByName(name string) (Puller, bool) {
	for _, p := range All() {
		if p.Name == name {
			return p, true
		}
	}
	return Puller{}, false
}

// Names returns the roster names in stable order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}
