// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws contains AWS-related helpers and adapters used by commands
// that interact with AWS resources, currently the artifact mirror.
package aws
