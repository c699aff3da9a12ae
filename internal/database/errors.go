// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/srkverse/internal/logging"
)

// Sentinel errors for single-row lookups and constraint violations.
var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrTrackNotFound  = errors.New("track not found")
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrDuplicateTrack = errors.New("track already exists for this movie")
	ErrNoTimelineHit  = errors.New("no matching timeline event")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // cleanup on an error path
	}
}
