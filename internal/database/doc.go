// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

// Package database is the DuckDB-backed persistent store for the catalog.
//
// # Architecture
//
// The package is organized into several domain-specific files:
//
//   - database.go: lifecycle (open, configure, initialize, close)
//   - database_schema.go: table and index creation
//   - database_connection.go: pool tuning and DuckDB error classification
//   - database_utils.go: context helpers, checkpoint, record counts
//   - locks.go: per-key write locks and the conflict retry loop
//   - crud_movies.go: catalog records (keyed upserts, filters)
//   - crud_tracks.go: tracks, enrichment write-back, approval
//   - crud_votes.go: atomic vote increment and tallies
//   - crud_content.go: quotes, awards, timeline events
//   - crud_messages.go: fan messages
//
// # Keyed Writes
//
// Every write that targets a natural key (movie external id, track
// (title, movie), vote movie id) takes a per-key mutex and retries DuckDB
// optimistic-concurrency conflicts with 1ms/2ms/4ms backoff. Keyed writes
// use INSERT ... ON CONFLICT so concurrent writers converge on one row.
//
// # Referential Integrity
//
// Tracks, votes, quotes and awards reference movies by id. The references
// are enforced by the service layer rather than FOREIGN KEY constraints,
// because DuckDB rejects in-place updates of rows that are referenced by a
// foreign key and catalog rows are updated on every reconciliation.
//
// # Errors
//
// Lookups of a single row return a package sentinel (ErrMovieNotFound,
// ErrTrackNotFound, ...) when the row is absent. Unique violations on
// tracks return ErrDuplicateTrack. Filters never return an error for an
// empty result; they return an empty, non-nil slice.
package database
