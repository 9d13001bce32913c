// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/dsctlgo/internal/config"
	"github.com/staranto/dsctlgo/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// Configuration is resolved exactly once here and carried read-only
	// in the command metadata; nothing downstream re-reads the
	// environment.
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "dsctl",
		Usage: "Dataset control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "dsctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		LsCommandBuilder(m),
		MirrorCommandBuilder(m),
		PullCommandBuilder(m),
		ShowCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}
