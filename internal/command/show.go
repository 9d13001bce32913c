// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/datasets"
	"github.com/staranto/dsctlgo/internal/config"
	"github.com/staranto/dsctlgo/internal/filters"
	"github.com/staranto/dsctlgo/internal/meta"
	"github.com/staranto/dsctlgo/internal/output"
)

// showCommandAction loads one artifact through the consumer-facing
// loader and renders it. A dataset that has not been pulled surfaces
// dataset.ErrArtifactNotFound untouched; show never fetches on a miss.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("no dataset specified; known: %v", datasets.Names())
	}
	if _, ok := datasets.ByName(name); !ok {
		return fmt.Errorf("unknown dataset %q; known: %v", name, datasets.Names())
	}

	return runShow(m.Config, name, cmd.String("filter"), output.Options{
		Format: cmd.String("output"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
		Limit:  int(cmd.Int("limit")),
	}, os.Stdout)
}

func runShow(cfg config.Config, name, filterSpec string, opts output.Options, w io.Writer) error {
	tbl, err := dataset.Load(dataset.ArtifactPath(cfg.OutputDir, name))
	if err != nil {
		return err
	}
	tbl, err = filters.FilterTable(tbl, filterSpec)
	if err != nil {
		return err
	}
	return output.Spit(tbl, opts, w)
}

// ShowCommandBuilder constructs the cli.Command for "show".
func ShowCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "load an artifact and render it",
		UsageText: "dsctl show <dataset>",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "max rows to render (0 = all)",
				Value:   20, //nolint:mnd
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "row filter spec, e.g. security_type=Bill,high_yield>4",
			},
		}, NewGlobalFlags("show", m.Config.Source)...),
		Action: showCommandAction,
	}
}
