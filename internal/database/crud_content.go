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
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/srkverse/internal/models"
)

// Quotes

const quoteColumns = `id, text, movie_title, movie_year, movie_id, context, tags`

// InsertQuote stores a quote.
func (db *DB) InsertQuote(ctx context.Context, q *models.Quote) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	tags, err := encodeStringList(q.Tags)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO quotes (id, text, movie_title, movie_year, movie_id, context, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Text, q.MovieTitle, nullableInt(q.MovieYear), emptyAsNull(q.MovieID),
		q.Context, tags, db.now(),
	)
	observe("INSERT", "quotes", start, err)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// ListQuotes returns every quote in insertion order.
func (db *DB) ListQuotes(ctx context.Context) ([]models.Quote, error) {
	return db.queryQuotes(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at ASC, id ASC`)
}

// QuotesByTag returns quotes with a tag equal to tag, case-insensitively.
func (db *DB) QuotesByTag(ctx context.Context, tag string) ([]models.Quote, error) {
	candidates, err := db.queryQuotes(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE contains(lower(tags), lower(?))
		ORDER BY created_at ASC, id ASC`, tag)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(candidates, func(q models.Quote) bool {
		return !q.HasTag(tag)
	}), nil
}

// QuotesByMovie returns quotes whose movie title matches case-insensitively.
func (db *DB) QuotesByMovie(ctx context.Context, movieTitle string) ([]models.Quote, error) {
	return db.queryQuotes(ctx, `
		SELECT `+quoteColumns+` FROM quotes
		WHERE lower(movie_title) = lower(?)
		ORDER BY created_at ASC, id ASC`, movieTitle)
}

// GetQuote returns one quote by id.
func (db *DB) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	return q, err
}

// RandomQuote returns one quote chosen uniformly. withMovie restricts the
// draw to quotes attributed to a movie.
func (db *DB) RandomQuote(ctx context.Context, withMovie bool) (*models.Quote, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where := ""
	if withMovie {
		where = "WHERE movie_title <> ''"
	}
	row := db.conn.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes `+where+` ORDER BY random() LIMIT 1`)
	q, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	return q, err
}

// QuoteMovieTitles returns distinct non-empty movie titles used by quotes.
func (db *DB) QuoteMovieTitles(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT movie_title FROM quotes WHERE movie_title <> '' ORDER BY movie_title`)
	if err != nil {
		return nil, fmt.Errorf("list quote titles: %w", err)
	}
	defer closeWithLog(rows, "rows")

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan quote title: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// CountQuotes returns the number of quotes.
func (db *DB) CountQuotes(ctx context.Context) (int, error) {
	return db.countRows(ctx, "quotes")
}

func (db *DB) queryQuotes(ctx context.Context, query string, args ...any) ([]models.Quote, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "quotes", start, err)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer closeWithLog(rows, "rows")

	quotes := []models.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

func scanQuote(s rowScanner) (*models.Quote, error) {
	var (
		q       models.Quote
		year    sql.NullInt64
		movieID sql.NullString
		tags    string
	)
	if err := s.Scan(&q.ID, &q.Text, &q.MovieTitle, &year, &movieID, &q.Context, &tags); err != nil {
		return nil, err
	}
	if year.Valid {
		v := int(year.Int64)
		q.MovieYear = &v
	}
	q.MovieID = movieID.String
	q.Tags = decodeStringList(tags)
	return &q, nil
}

// Awards

const awardColumns = `id, title, year, category, description, movie_title, movie_id`

// InsertAward stores an award.
func (db *DB) InsertAward(ctx context.Context, a *models.Award) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO awards (id, title, year, category, description, movie_title, movie_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Year, a.Category, a.Description, a.MovieTitle, emptyAsNull(a.MovieID), db.now(),
	)
	observe("INSERT", "awards", start, err)
	if err != nil {
		return fmt.Errorf("insert award: %w", err)
	}
	return nil
}

// ListAwards returns every award, oldest first.
func (db *DB) ListAwards(ctx context.Context) ([]models.Award, error) {
	return db.queryAwards(ctx, `SELECT `+awardColumns+` FROM awards ORDER BY year ASC, title ASC`)
}

// AwardsByYear returns awards received in year.
func (db *DB) AwardsByYear(ctx context.Context, year int) ([]models.Award, error) {
	return db.queryAwards(ctx, `SELECT `+awardColumns+` FROM awards WHERE year = ? ORDER BY title ASC`, year)
}

// AwardsByCategory returns awards whose category contains category,
// case-insensitively.
func (db *DB) AwardsByCategory(ctx context.Context, category string) ([]models.Award, error) {
	return db.queryAwards(ctx, `
		SELECT `+awardColumns+` FROM awards
		WHERE contains(lower(category), lower(?))
		ORDER BY year ASC, title ASC`, category)
}

// CountAwards returns the number of awards.
func (db *DB) CountAwards(ctx context.Context) (int, error) {
	return db.countRows(ctx, "awards")
}

func (db *DB) queryAwards(ctx context.Context, query string, args ...any) ([]models.Award, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "awards", start, err)
	if err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}
	defer closeWithLog(rows, "rows")

	awards := []models.Award{}
	for rows.Next() {
		var (
			a       models.Award
			movieID sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Year, &a.Category, &a.Description, &a.MovieTitle, &movieID); err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		a.MovieID = movieID.String
		awards = append(awards, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate awards: %w", err)
	}
	return awards, nil
}

// Timeline

// InsertTimelineEvent stores a career milestone.
func (db *DB) InsertTimelineEvent(ctx context.Context, e *models.TimelineEvent) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO timeline_events (id, year, event, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Year, e.Event, e.Description, db.now(),
	)
	observe("INSERT", "timeline_events", start, err)
	if err != nil {
		return fmt.Errorf("insert timeline event: %w", err)
	}
	return nil
}

// ListTimeline returns every event in chronological order.
func (db *DB) ListTimeline(ctx context.Context) ([]models.TimelineEvent, error) {
	return db.queryTimeline(ctx, `SELECT id, year, event, description FROM timeline_events ORDER BY year ASC, created_at ASC`)
}

// TimelineByYear returns events in year.
func (db *DB) TimelineByYear(ctx context.Context, year int) ([]models.TimelineEvent, error) {
	return db.queryTimeline(ctx, `SELECT id, year, event, description FROM timeline_events WHERE year = ? ORDER BY created_at ASC`, year)
}

// FirstTimelineEventMatching returns the earliest event whose event or
// description text contains needle, case-insensitively.
func (db *DB) FirstTimelineEventMatching(ctx context.Context, needle string) (*models.TimelineEvent, error) {
	events, err := db.queryTimeline(ctx, `
		SELECT id, year, event, description FROM timeline_events
		WHERE contains(lower(event), lower(?)) OR contains(lower(description), lower(?))
		ORDER BY year ASC, created_at ASC
		LIMIT 1`, needle, needle)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoTimelineHit
	}
	return &events[0], nil
}

// CountTimelineEvents returns the number of timeline events.
func (db *DB) CountTimelineEvents(ctx context.Context) (int, error) {
	return db.countRows(ctx, "timeline_events")
}

func (db *DB) queryTimeline(ctx context.Context, query string, args ...any) ([]models.TimelineEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("SELECT", "timeline_events", start, err)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer closeWithLog(rows, "rows")

	events := []models.TimelineEvent{}
	for rows.Next() {
		var e models.TimelineEvent
		if err := rows.Scan(&e.ID, &e.Year, &e.Event, &e.Description); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return events, nil
}

// Linking

// linkTables are the content tables that carry a movie_title/movie_id pair.
var linkTables = []string{"quotes", "awards"}

// LinkContentToMovies sets movie_id on quotes and awards that were stored
// before their movie was in the catalog. Titles match case-insensitively and
// exactly; when several movies share a title the most recent release wins,
// as in GetMovieByTitle. Rows that already carry a movie_id are left alone.
// It returns the number of rows linked.
func (db *DB) LinkContentToMovies(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	linked := 0
	for _, table := range linkTables {
		var n int64
		err := db.withKeyedRetry(ctx, "link:"+table, func(ctx context.Context) error {
			start := time.Now()
			res, err := db.conn.ExecContext(ctx, `
				UPDATE `+table+` SET movie_id = (
					SELECT m.id FROM movies m
					WHERE lower(m.title) = lower(`+table+`.movie_title)
					ORDER BY m.release_year DESC NULLS LAST, m.title ASC
					LIMIT 1)
				WHERE (movie_id IS NULL OR movie_id = '')
				  AND movie_title <> ''
				  AND EXISTS (
					SELECT 1 FROM movies m
					WHERE lower(m.title) = lower(`+table+`.movie_title))`)
			observe("UPDATE", table, start, err)
			if err != nil {
				return fmt.Errorf("link %s to movies: %w", table, err)
			}
			n, err = res.RowsAffected()
			return err
		})
		if err != nil {
			return linked, err
		}
		linked += int(n)
	}
	return linked, nil
}

func emptyAsNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
