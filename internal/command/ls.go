// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/datasets"
	"github.com/staranto/dsctlgo/internal/config"
	"github.com/staranto/dsctlgo/internal/meta"
	"github.com/staranto/dsctlgo/internal/output"
)

// lsCommandAction prints the artifact inventory for the configured
// output directory. Read-only: it stats artifacts but loads nothing and
// certainly fetches nothing.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	tbl, err := inventoryTable(m.Config)
	if err != nil {
		return err
	}

	return output.Spit(tbl, output.Options{
		Format: cmd.String("output"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}, os.Stdout)
}

// inventoryTable builds one row per known dataset with artifact
// presence, size, and age.
func inventoryTable(cfg config.Config) (*dataset.Table, error) {
	var (
		names    []any
		paths    []any
		present  []any
		sizes    []any
		modified []any
	)

	for _, p := range datasets.All() {
		path := dataset.ArtifactPath(cfg.OutputDir, p.Name)
		names = append(names, p.Name)
		paths = append(paths, path)

		st, err := os.Stat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			present = append(present, false)
			sizes = append(sizes, nil)
			modified = append(modified, nil)
		case err != nil:
			return nil, err
		default:
			present = append(present, true)
			sizes = append(sizes, humanize.Bytes(uint64(st.Size())))
			modified = append(modified, humanize.Time(st.ModTime()))
		}
	}

	return dataset.New(
		dataset.Column{Name: "dataset", Kind: dataset.String, Values: names},
		dataset.Column{Name: "artifact", Kind: dataset.String, Values: paths},
		dataset.Column{Name: "present", Kind: dataset.Bool, Values: present},
		dataset.Column{Name: "size", Kind: dataset.String, Values: sizes},
		dataset.Column{Name: "modified", Kind: dataset.String, Values: modified},
	)
}

// LsCommandBuilder constructs the cli.Command for "ls".
func LsCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list datasets and their artifacts",
		UsageText: "dsctl ls",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  NewGlobalFlags("ls", m.Config.Source),
		Action: lsCommandAction,
	}
}
