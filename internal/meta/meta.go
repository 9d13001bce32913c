// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"github.com/staranto/dsctlgo/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
// Config is resolved once in InitApp and carried here read-only.
type Meta struct {
	Args        []string
	Config      config.Config
	StartingDir string
}
