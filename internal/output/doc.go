// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders dataset tables for the consumer-side commands
// (show, ls) in text, csv, json, or yaml form.
package output
