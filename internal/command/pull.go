// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/datasets"
	"github.com/staranto/dsctlgo/internal/config"
	"github.com/staranto/dsctlgo/internal/meta"
)

// pullCommandAction resolves the requested dataset names and runs one
// fetch-then-persist cycle per dataset. It writes nothing to stdout;
// success is silent and the artifacts are the only observable output.
func pullCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	names := cmd.Args().Slice()
	if cmd.Bool("all") {
		names = datasets.Names()
	}
	if len(names) == 0 {
		return fmt.Errorf("no datasets specified; name one of %v or use --all",
			datasets.Names())
	}

	pullers := make([]datasets.Puller, 0, len(names))
	for _, name := range names {
		p, ok := datasets.ByName(name)
		if !ok {
			return fmt.Errorf("unknown dataset %q; known: %v",
				name, datasets.Names())
		}
		pullers = append(pullers, p)
	}

	return runPull(ctx, m.Config, pullers)
}

// runPull is the orchestration: the only code path in the repository
// that invokes a fetcher and the persister together. For each dataset it
// fetches into memory, ensures the output directory exists, and persists
// at the canonical path. It never loads, and a failure terminates the
// run without retry.
func runPull(ctx context.Context, cfg config.Config, pullers []datasets.Puller) error {
	for _, p := range pullers {
		tbl, err := p.Fetch(ctx, cfg)
		if err != nil {
			return fmt.Errorf("pull %s: %w", p.Name, err)
		}

		// Scoped acquisition: created if missing, fine if present.
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("pull %s: %w: create output dir: %v",
				p.Name, dataset.ErrPersistFailed, err)
		}

		path := dataset.ArtifactPath(cfg.OutputDir, p.Name)
		if err := dataset.Persist(tbl, path); err != nil {
			return fmt.Errorf("pull %s: %w", p.Name, err)
		}
		log.Debugf("pulled %s -> %s (%d rows)", p.Name, path, tbl.NumRows())
	}
	return nil
}

// PullCommandBuilder constructs the cli.Command for "pull".
func PullCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "pull",
		Usage:     "fetch datasets and persist canonical artifacts",
		UsageText: "dsctl pull [--all | dataset...]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "pull every known dataset",
				HideDefault: true,
			},
		},
		Action: pullCommandAction,
	}
}
