// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/dsctlgo/dataset"
	"github.com/staranto/dsctlgo/internal/config"
	"github.com/staranto/dsctlgo/internal/output"
)

func TestRunShowRendersArtifact(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}
	require.NoError(t, dataset.Persist(smallTable(t),
		dataset.ArtifactPath(cfg.OutputDir, "unit_fixture")))

	var buf bytes.Buffer
	err := runShow(cfg, "unit_fixture", "", output.Options{
		Format: "csv",
		Titles: true,
	}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "id,label")
	assert.Contains(t, buf.String(), "1,a")
}

func TestRunShowWithFilter(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}
	require.NoError(t, dataset.Persist(smallTable(t),
		dataset.ArtifactPath(cfg.OutputDir, "unit_fixture")))

	var buf bytes.Buffer
	err := runShow(cfg, "unit_fixture", "label=b", output.Options{
		Format: "csv",
	}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "2,b")
	assert.NotContains(t, buf.String(), "1,a")
}

func TestRunShowMissingArtifact(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}

	var buf bytes.Buffer
	err := runShow(cfg, "unit_fixture", "", output.Options{Format: "csv"}, &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrArtifactNotFound)
	assert.Zero(t, buf.Len(), "nothing should render on a miss")
}
