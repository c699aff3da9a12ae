// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
database_schema.go - Table and Index Definitions

Tables:
  - movies: catalog records, unique external_id (NULLs allowed for local records)
  - tracks: songs, unique (title, movie_id)
  - quotes, awards, timeline_events: seeded content
  - votes: one counter row per movie, keyed by movie_id
  - fan_messages: fan wall submissions

List-valued columns (genre_labels, tags) are stored as JSON arrays in
VARCHAR columns; containment filters run on the lowercased text and are
confirmed on the decoded values.

Timestamps are stored as TIMESTAMP in UTC.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the catalog tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id VARCHAR PRIMARY KEY,
			external_id BIGINT UNIQUE,
			title VARCHAR NOT NULL,
			release_year INTEGER,
			synopsis VARCHAR NOT NULL DEFAULT '',
			character_role VARCHAR NOT NULL DEFAULT '',
			poster_reference VARCHAR NOT NULL DEFAULT '',
			rating DOUBLE,
			genre_labels VARCHAR NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tracks (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			movie_id VARCHAR NOT NULL,
			composer VARCHAR NOT NULL DEFAULT '',
			lyricist VARCHAR NOT NULL DEFAULT '',
			external_audio_reference VARCHAR,
			popularity INTEGER,
			duration_seconds INTEGER,
			approval_state VARCHAR NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (title, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id VARCHAR PRIMARY KEY,
			text VARCHAR NOT NULL,
			movie_title VARCHAR NOT NULL DEFAULT '',
			movie_year INTEGER,
			movie_id VARCHAR,
			context VARCHAR NOT NULL DEFAULT '',
			tags VARCHAR NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS awards (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			year INTEGER NOT NULL,
			category VARCHAR NOT NULL DEFAULT '',
			description VARCHAR NOT NULL DEFAULT '',
			movie_title VARCHAR NOT NULL DEFAULT '',
			movie_id VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS timeline_events (
			id VARCHAR PRIMARY KEY,
			year INTEGER NOT NULL,
			event VARCHAR NOT NULL,
			description VARCHAR NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS votes (
			movie_id VARCHAR PRIMARY KEY,
			vote_count BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS fan_messages (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			email VARCHAR NOT NULL DEFAULT '',
			message VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates secondary indexes for the filter queries. Columns
// assigned by ON CONFLICT DO UPDATE must stay unindexed; DuckDB rejects
// upserts that rewrite an indexed column.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

func getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_tracks_movie_id ON tracks(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_awards_year ON awards(year)`,
		`CREATE INDEX IF NOT EXISTS idx_timeline_year ON timeline_events(year)`,
	}
}
