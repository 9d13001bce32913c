// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import "path/filepath"

// artifactExt is the extension of every canonical artifact.
const artifactExt = ".parquet"

// ArtifactPath derives the canonical on-disk location for a dataset. It
// is a pure function of the output directory and the dataset name, and it
// is the only path derivation in the repository: the pull orchestration
// and every consumer-facing loader go through it, so they always agree
// byte-for-byte on where an artifact lives.
func ArtifactPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+artifactExt)
}
