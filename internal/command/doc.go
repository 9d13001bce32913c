// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for dsctl. It wires flags,
// validators, and actions for subcommands. The pull subcommand is the
// only code path allowed to invoke a fetcher and the persister together;
// ls and show are consumer-side and only ever read artifacts.
package command
