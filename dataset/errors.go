// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package dataset

import "errors"

// The error taxonomy of the pull/persist/load contract. Each role wraps
// exactly its own sentinels with %w so callers can test with errors.Is.
// No role catches another role's error and converts it into a fallback
// action; in particular a loader miss is never answered with a fetch.
var (
	// ErrSourceUnavailable means the external source could not be
	// reached. Fetcher-only. Recoverable only by the caller retrying or
	// the source coming back.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceFormatChanged means the source responded but its shape no
	// longer matches what the fetcher expects. Fetcher-only.
	ErrSourceFormatChanged = errors.New("source format changed")

	// ErrPersistFailed means the artifact could not be written. The
	// atomic-replace discipline guarantees no partial artifact is left
	// behind. Persist-only, fatal to a pull run.
	ErrPersistFailed = errors.New("persist failed")

	// ErrArtifactNotFound means no artifact exists at the canonical
	// path. This is the intended signal for "data not yet pulled" and is
	// deliberately indistinguishable from a forgotten pull step.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArtifactCorrupt means a file exists at the canonical path but
	// cannot be parsed as an artifact.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)
