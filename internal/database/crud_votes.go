// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/srkverse/internal/models"
)

// IncrementVote adds one vote for movieID and returns the new count.
// The read-modify-write is a single statement, so concurrent votes for the
// same movie never lose an update.
func (db *DB) IncrementVote(ctx context.Context, movieID string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.withKeyedRetry(ctx, "vote:"+movieID, func(ctx context.Context) error {
		start := time.Now()
		err := db.conn.QueryRowContext(ctx, `
			INSERT INTO votes (movie_id, vote_count, updated_at)
			VALUES (?, 1, ?)
			ON CONFLICT (movie_id) DO UPDATE SET
				vote_count = votes.vote_count + 1,
				updated_at = EXCLUDED.updated_at
			RETURNING vote_count`,
			movieID, db.now(),
		).Scan(&count)
		observe("UPSERT", "votes", start, err)
		if err != nil {
			return fmt.Errorf("increment vote: %w", err)
		}
		return nil
	})
	return count, err
}

// VoteTotals returns every tally with its movie title, highest first.
func (db *DB) VoteTotals(ctx context.Context) ([]models.VoteTally, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT v.movie_id, COALESCE(m.title, ''), v.vote_count, v.updated_at
		FROM votes v LEFT JOIN movies m ON m.id = v.movie_id
		ORDER BY v.vote_count DESC, m.title ASC`)
	observe("SELECT", "votes", start, err)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer closeWithLog(rows, "rows")

	tallies := []models.VoteTally{}
	for rows.Next() {
		var v models.VoteTally
		if err := rows.Scan(&v.MovieID, &v.MovieTitle, &v.VoteCount, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		tallies = append(tallies, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return tallies, nil
}

// VoteCount returns the tally for one movie, zero when never voted.
func (db *DB) VoteCount(ctx context.Context, movieID string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(vote_count), 0) FROM votes WHERE movie_id = ?`, movieID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("query vote count: %w", err)
	}
	return count, nil
}
