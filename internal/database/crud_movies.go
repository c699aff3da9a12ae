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
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/srkverse/internal/models"
)

const movieColumns = `id, external_id, title, release_year, synopsis, character_role,
	poster_reference, rating, genre_labels, created_at, updated_at`

const movieOrder = `ORDER BY release_year DESC NULLS LAST, title ASC`

type rowScanner interface {
	Scan(dest ...any) error
}

// UpsertMovie merges one catalog record. Records with an external id are
// keyed on it; records without one are keyed on (lower(title), release_year).
// Every mutable field is overwritten by the incoming values, including empty
// ones. It reports whether a row was inserted or changed; re-applying an
// identical record writes nothing. On return m carries the stored id and
// timestamps.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if m.GenreLabels == nil {
		m.GenreLabels = []string{}
	}

	var changed bool
	err := db.withKeyedRetry(ctx, movieLockKey(m), func(ctx context.Context) error {
		var err error
		if m.ExternalID != nil {
			changed, err = db.upsertByExternalID(ctx, m)
		} else {
			changed, err = db.upsertByTitleYear(ctx, m)
		}
		return err
	})
	return changed, err
}

func movieLockKey(m *models.Movie) string {
	if m.ExternalID != nil {
		return "movie:ext:" + strconv.FormatInt(*m.ExternalID, 10)
	}
	year := "null"
	if m.ReleaseYear != nil {
		year = strconv.Itoa(*m.ReleaseYear)
	}
	return "movie:local:" + strings.ToLower(m.Title) + ":" + year
}

func (db *DB) upsertByExternalID(ctx context.Context, m *models.Movie) (bool, error) {
	existing, err := db.GetMovieByExternalID(ctx, *m.ExternalID)
	switch {
	case err == nil:
		if sameMovieContent(existing, m) {
			copyIdentity(m, existing)
			return false, nil
		}
	case errors.Is(err, ErrMovieNotFound):
		placeholder, perr := db.findPlaceholder(ctx, m)
		if perr == nil {
			return db.adoptPlaceholder(ctx, placeholder, m)
		}
		if !errors.Is(perr, ErrMovieNotFound) {
			return false, perr
		}
	default:
		return false, err
	}

	genres, err := encodeStringList(m.GenreLabels)
	if err != nil {
		return false, err
	}
	now := db.now()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			release_year = EXCLUDED.release_year,
			synopsis = EXCLUDED.synopsis,
			character_role = EXCLUDED.character_role,
			poster_reference = EXCLUDED.poster_reference,
			rating = EXCLUDED.rating,
			genre_labels = EXCLUDED.genre_labels,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		uuid.New().String(), *m.ExternalID, m.Title, nullableInt(m.ReleaseYear),
		m.Synopsis, m.CharacterRole, m.PosterReference, nullableFloat(m.Rating),
		genres, now, now,
	)
	err = row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	observe("UPSERT", "movies", start, err)
	if err != nil {
		return false, fmt.Errorf("upsert movie %d: %w", *m.ExternalID, err)
	}
	return true, nil
}

// findPlaceholder returns a local record (no external id) that an incoming
// provider record should take over: same title, and a matching or unknown
// release year.
func (db *DB) findPlaceholder(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE external_id IS NULL
		  AND lower(title) = lower(?)
		  AND (release_year IS NULL OR release_year IS NOT DISTINCT FROM CAST(? AS INTEGER))
		ORDER BY created_at ASC
		LIMIT 1`, m.Title, nullableInt(m.ReleaseYear))
	return scanMovieRow(row)
}

// adoptPlaceholder gives a local record the incoming external id and
// content, keeping its id so owned tracks and votes stay attached.
func (db *DB) adoptPlaceholder(ctx context.Context, existing, m *models.Movie) (bool, error) {
	genres, err := encodeStringList(m.GenreLabels)
	if err != nil {
		return false, err
	}
	now := db.now()

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		UPDATE movies SET
			external_id = ?, title = ?, release_year = ?, synopsis = ?, character_role = ?,
			poster_reference = ?, rating = ?, genre_labels = ?, updated_at = ?
		WHERE id = ?`,
		*m.ExternalID, m.Title, nullableInt(m.ReleaseYear), m.Synopsis, m.CharacterRole,
		m.PosterReference, nullableFloat(m.Rating), genres, now, existing.ID,
	)
	observe("UPDATE", "movies", start, err)
	if err != nil {
		return false, fmt.Errorf("adopt local movie %q: %w", m.Title, err)
	}
	m.ID = existing.ID
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = now
	return true, nil
}

func (db *DB) upsertByTitleYear(ctx context.Context, m *models.Movie) (bool, error) {
	existing, err := db.findLocalMovie(ctx, m.Title, m.ReleaseYear)
	if err != nil && !errors.Is(err, ErrMovieNotFound) {
		return false, err
	}

	genres, err2 := encodeStringList(m.GenreLabels)
	if err2 != nil {
		return false, err2
	}
	now := db.now()

	if existing != nil {
		if sameMovieContent(existing, m) {
			copyIdentity(m, existing)
			return false, nil
		}
		start := time.Now()
		_, err = db.conn.ExecContext(ctx, `
			UPDATE movies SET
				title = ?, release_year = ?, synopsis = ?, character_role = ?,
				poster_reference = ?, rating = ?, genre_labels = ?, updated_at = ?
			WHERE id = ?`,
			m.Title, nullableInt(m.ReleaseYear), m.Synopsis, m.CharacterRole,
			m.PosterReference, nullableFloat(m.Rating), genres, now, existing.ID,
		)
		observe("UPDATE", "movies", start, err)
		if err != nil {
			return false, fmt.Errorf("update movie %q: %w", m.Title, err)
		}
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		m.UpdatedAt = now
		return true, nil
	}

	m.ID = uuid.New().String()
	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, NULL, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, nullableInt(m.ReleaseYear), m.Synopsis, m.CharacterRole,
		m.PosterReference, nullableFloat(m.Rating), genres, now, now,
	)
	observe("INSERT", "movies", start, err)
	if err != nil {
		return false, fmt.Errorf("insert movie %q: %w", m.Title, err)
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	return true, nil
}

// findLocalMovie matches a record without an external id.
func (db *DB) findLocalMovie(ctx context.Context, title string, year *int) (*models.Movie, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE lower(title) = lower(?) AND release_year IS NOT DISTINCT FROM CAST(? AS INTEGER)
		ORDER BY created_at ASC
		LIMIT 1`, title, nullableInt(year))
	return scanMovieRow(row)
}

// EnsureMovie returns the movie titled title, creating a local record
// (no external id) when none exists. year narrows the match when set.
func (db *DB) EnsureMovie(ctx context.Context, title string, year *int) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var m *models.Movie
	var err error
	if year != nil {
		m, err = db.findMovieByTitleYear(ctx, title, *year)
	} else {
		m, err = db.GetMovieByTitle(ctx, title)
	}
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrMovieNotFound) {
		return nil, err
	}

	created := &models.Movie{Title: title, ReleaseYear: year, GenreLabels: []string{}}
	if _, err := db.UpsertMovie(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (db *DB) findMovieByTitleYear(ctx context.Context, title string, year int) (*models.Movie, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE lower(title) = lower(?) AND release_year = ?
		ORDER BY external_id NULLS LAST
		LIMIT 1`, title, year)
	return scanMovieRow(row)
}

// GetMovieByID returns one movie by internal id.
func (db *DB) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	return scanMovieRow(row)
}

// GetMovieByExternalID returns one movie by provider id.
func (db *DB) GetMovieByExternalID(ctx context.Context, externalID int64) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE external_id = ?`, externalID)
	return scanMovieRow(row)
}

// GetMovieByTitle matches title case-insensitively and exactly. When
// several records share a title the most recent release wins.
func (db *DB) GetMovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE lower(title) = lower(?)
		`+movieOrder+`
		LIMIT 1`, title)
	m, err := scanMovieRow(row)
	if err != nil && !errors.Is(err, ErrMovieNotFound) {
		observe("SELECT", "movies", start, err)
		return nil, err
	}
	observe("SELECT", "movies", start, nil)
	return m, err
}

// ListMovies returns every movie ordered by release year (newest first),
// then title.
func (db *DB) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return db.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies `+movieOrder)
}

// MoviesByYear returns movies released in year.
func (db *DB) MoviesByYear(ctx context.Context, year int) ([]models.Movie, error) {
	return db.queryMovies(ctx, `SELECT `+movieColumns+` FROM movies WHERE release_year = ? ORDER BY title ASC`, year)
}

// MoviesByGenre returns movies with a genre label equal to genre,
// case-insensitively.
func (db *DB) MoviesByGenre(ctx context.Context, genre string) ([]models.Movie, error) {
	candidates, err := db.queryMovies(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE contains(lower(genre_labels), lower(?))
		`+movieOrder, genre)
	if err != nil {
		return nil, err
	}
	// The text prefilter also matches partial labels; confirm on labels.
	return slices.DeleteFunc(candidates, func(m models.Movie) bool {
		return !m.HasGenre(genre)
	}), nil
}

// TopRated returns up to limit movies ordered by rating, unrated excluded.
func (db *DB) TopRated(ctx context.Context, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		limit = 10
	}
	return db.queryMovies(ctx, `
		SELECT `+movieColumns+` FROM movies
		WHERE rating IS NOT NULL
		ORDER BY rating DESC, title ASC
		LIMIT ?`, limit)
}

// MovieTitles returns distinct catalog titles in alphabetical order.
func (db *DB) MovieTitles(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT DISTINCT title FROM movies ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list movie titles: %w", err)
	}
	defer closeWithLog(rows, "rows")

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan movie title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// CountMovies returns the number of catalog records.
func (db *DB) CountMovies(ctx context.Context) (int, error) {
	return db.countRows(ctx, "movies")
}

func (db *DB) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "movies", start, err)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func scanMovieRow(row *sql.Row) (*models.Movie, error) {
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

func scanMovie(s rowScanner) (*models.Movie, error) {
	var (
		m          models.Movie
		externalID sql.NullInt64
		year       sql.NullInt64
		rating     sql.NullFloat64
		genres     string
	)
	err := s.Scan(&m.ID, &externalID, &m.Title, &year, &m.Synopsis, &m.CharacterRole,
		&m.PosterReference, &rating, &genres, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	if externalID.Valid {
		v := externalID.Int64
		m.ExternalID = &v
	}
	if year.Valid {
		v := int(year.Int64)
		m.ReleaseYear = &v
	}
	if rating.Valid {
		v := rating.Float64
		m.Rating = &v
	}
	m.GenreLabels = decodeStringList(genres)
	return &m, nil
}

// sameMovieContent compares every field reconciliation may overwrite.
func sameMovieContent(a, b *models.Movie) bool {
	return a.Title == b.Title &&
		equalIntPtr(a.ReleaseYear, b.ReleaseYear) &&
		a.Synopsis == b.Synopsis &&
		a.CharacterRole == b.CharacterRole &&
		a.PosterReference == b.PosterReference &&
		equalFloatPtr(a.Rating, b.Rating) &&
		slices.Equal(a.GenreLabels, b.GenreLabels)
}

func copyIdentity(dst, src *models.Movie) {
	dst.ID = src.ID
	dst.CreatedAt = src.CreatedAt
	dst.UpdatedAt = src.UpdatedAt
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
