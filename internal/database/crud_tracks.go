// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/srkverse/internal/models"
)

const trackColumns = `t.id, t.title, t.movie_id, m.title, t.composer, t.lyricist,
	t.external_audio_reference, t.popularity, t.duration_seconds, t.approval_state,
	t.created_at, t.updated_at`

const trackFrom = `FROM tracks t LEFT JOIN movies m ON m.id = t.movie_id`

// InsertTrack stores a new track in the pending state. A second track with
// the same title for the same movie returns ErrDuplicateTrack.
func (db *DB) InsertTrack(ctx context.Context, t *models.Track) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.ApprovalState == "" {
		t.ApprovalState = models.ApprovalPending
	}
	now := db.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	return db.withKeyedRetry(ctx, trackLockKey(t.MovieID, t.Title), func(ctx context.Context) error {
		start := time.Now()
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO tracks (id, title, movie_id, composer, lyricist,
				external_audio_reference, popularity, duration_seconds,
				approval_state, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.MovieID, t.Composer, t.Lyricist,
			nullableString(t.ExternalAudioReference), nullableInt(t.Popularity),
			nullableInt(t.DurationSeconds), t.ApprovalState, t.CreatedAt, t.UpdatedAt,
		)
		observe("INSERT", "tracks", start, err)
		if err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateTrack
			}
			return fmt.Errorf("insert track %q: %w", t.Title, err)
		}
		return nil
	})
}

func trackLockKey(movieID, title string) string {
	return "track:" + movieID + ":" + strings.ToLower(title)
}

// GetTrack returns the track titled title (case-insensitive) owned by movieID.
func (db *DB) GetTrack(ctx context.Context, movieID, title string) (*models.Track, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		SELECT `+trackColumns+` `+trackFrom+`
		WHERE t.movie_id = ? AND lower(t.title) = lower(?)
		LIMIT 1`, movieID, title)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrackNotFound
	}
	return t, err
}

// ListTracks returns every track ordered by movie title then track title.
func (db *DB) ListTracks(ctx context.Context) ([]models.Track, error) {
	return db.queryTracks(ctx, `SELECT `+trackColumns+` `+trackFrom+` ORDER BY m.title ASC, t.title ASC`)
}

// TracksForMovie returns the tracks owned by movieID.
func (db *DB) TracksForMovie(ctx context.Context, movieID string) ([]models.Track, error) {
	return db.queryTracks(ctx, `SELECT `+trackColumns+` `+trackFrom+` WHERE t.movie_id = ? ORDER BY t.title ASC`, movieID)
}

// UpdateTrackMetadata writes provider metadata. Only the three enrichment
// columns (and updated_at) are touched; approval_state is left alone.
func (db *DB) UpdateTrackMetadata(ctx context.Context, trackID string, meta *models.TrackMetadata) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withKeyedRetry(ctx, "track-id:"+trackID, func(ctx context.Context) error {
		start := time.Now()
		res, err := db.conn.ExecContext(ctx, `
			UPDATE tracks SET
				external_audio_reference = ?,
				popularity = ?,
				duration_seconds = ?,
				updated_at = ?
			WHERE id = ?`,
			meta.ExternalAudioReference, nullableInt(meta.Popularity), nullableInt(meta.DurationSeconds), db.now(), trackID,
		)
		observe("UPDATE", "tracks", start, err)
		if err != nil {
			return fmt.Errorf("update track metadata: %w", err)
		}
		return requireOneRow(res, ErrTrackNotFound)
	})
}

// SetTrackApproval sets approval_state. Enrichment never calls this.
func (db *DB) SetTrackApproval(ctx context.Context, trackID, state string) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withKeyedRetry(ctx, "track-id:"+trackID, func(ctx context.Context) error {
		start := time.Now()
		res, err := db.conn.ExecContext(ctx,
			`UPDATE tracks SET approval_state = ?, updated_at = ? WHERE id = ?`,
			state, db.now(), trackID)
		observe("UPDATE", "tracks", start, err)
		if err != nil {
			return fmt.Errorf("update track approval: %w", err)
		}
		return requireOneRow(res, ErrTrackNotFound)
	})
}

// CountTracks returns the number of tracks.
func (db *DB) CountTracks(ctx context.Context) (int, error) {
	return db.countRows(ctx, "tracks")
}

func (db *DB) queryTracks(ctx context.Context, query string, args ...any) ([]models.Track, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "tracks", start, err)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer closeWithLog(rows, "rows")

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

func scanTrack(s rowScanner) (*models.Track, error) {
	var (
		t          models.Track
		movieTitle sql.NullString
		ref        sql.NullString
		popularity sql.NullInt64
		duration   sql.NullInt64
	)
	err := s.Scan(&t.ID, &t.Title, &t.MovieID, &movieTitle, &t.Composer, &t.Lyricist,
		&ref, &popularity, &duration, &t.ApprovalState, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.MovieTitle = movieTitle.String
	if ref.Valid {
		v := ref.String
		t.ExternalAudioReference = &v
	}
	if popularity.Valid {
		v := int(popularity.Int64)
		t.Popularity = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		t.DurationSeconds = &v
	}
	return &t, nil
}

func requireOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
