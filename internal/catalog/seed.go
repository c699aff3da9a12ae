// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/models"
)

// Seed file names, read from the seed directory.
const (
	SeedQuotesFile   = "quotes.json"
	SeedAwardsFile   = "awards.json"
	SeedTimelineFile = "timeline.json"
	SeedTracksFile   = "tracks.json"
)

//go:embed seeddata/*.json
var builtinSeed embed.FS

// Seed file formats.

type seedQuote struct {
	Quote   string   `json:"quote"`
	Movie   string   `json:"movie"`
	Year    *int     `json:"year"`
	Tags    []string `json:"tags"`
	Context string   `json:"context"`
}

type seedAward struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Type        string `json:"type"`
	Movie       string `json:"movie"`
	Description string `json:"description"`
}

type seedTimelineEvent struct {
	Year        int    `json:"year"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

type seedTrack struct {
	Title    string `json:"title"`
	Movie    string `json:"movie"`
	Year     *int   `json:"year"`
	Composer string `json:"composer"`
	Lyricist string `json:"lyricist"`
}

// SeedSummary reports what one Load inserted.
type SeedSummary struct {
	Quotes   int `json:"quotes"`
	Awards   int `json:"awards"`
	Timeline int `json:"timeline"`
	Tracks   int `json:"tracks"`

	// BuiltinFallbacks lists seed files that were missing or unreadable and
	// replaced by the built-in data.
	BuiltinFallbacks []string `json:"builtin_fallbacks,omitempty"`
}

// SeedLoader populates the static content tables. Each table is seeded only
// while it is empty, so Load is safe to run on every start.
type SeedLoader struct {
	svc *Service
	dir string
}

// NewSeedLoader creates a loader reading from dir. An empty dir uses the
// built-in data only.
func NewSeedLoader(svc *Service, dir string) *SeedLoader {
	return &SeedLoader{svc: svc, dir: dir}
}

// Load seeds every empty content table.
func (l *SeedLoader) Load(ctx context.Context) (*SeedSummary, error) {
	summary := &SeedSummary{}

	steps := []struct {
		name  string
		count func(context.Context) (int, error)
		load  func(context.Context, *SeedSummary) error
	}{
		{SeedQuotesFile, l.svc.db.CountQuotes, l.loadQuotes},
		{SeedAwardsFile, l.svc.db.CountAwards, l.loadAwards},
		{SeedTimelineFile, l.svc.db.CountTimelineEvents, l.loadTimeline},
		{SeedTracksFile, l.svc.db.CountTracks, l.loadTracks},
	}

	for _, step := range steps {
		n, err := step.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count before seeding %s: %w", step.name, err)
		}
		if n > 0 {
			logging.Debug().Str("file", step.name).Int("rows", n).Msg("Seed skipped, table not empty")
			continue
		}
		if err := step.load(ctx, summary); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	l.svc.fence.Clear()

	logging.Info().
		Int("quotes", summary.Quotes).
		Int("awards", summary.Awards).
		Int("timeline", summary.Timeline).
		Int("tracks", summary.Tracks).
		Strs("builtin_fallbacks", summary.BuiltinFallbacks).
		Msg("Seed data loaded")
	return summary, nil
}

func (l *SeedLoader) loadQuotes(ctx context.Context, summary *SeedSummary) error {
	records, err := readSeed[seedQuote](l, SeedQuotesFile, summary)
	if err != nil {
		return err
	}
	for _, r := range records {
		if strings.TrimSpace(r.Quote) == "" {
			continue
		}
		q := &models.Quote{
			Text:       r.Quote,
			MovieTitle: r.Movie,
			MovieYear:  r.Year,
			Context:    r.Context,
			Tags:       r.Tags,
			MovieID:    l.movieIDFor(ctx, r.Movie),
		}
		if err := l.svc.db.InsertQuote(ctx, q); err != nil {
			return err
		}
		summary.Quotes++
	}
	return nil
}

func (l *SeedLoader) loadAwards(ctx context.Context, summary *SeedSummary) error {
	records, err := readSeed[seedAward](l, SeedAwardsFile, summary)
	if err != nil {
		return err
	}
	for _, r := range records {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		a := &models.Award{
			Title:       r.Title,
			Year:        r.Year,
			Category:    r.Type,
			Description: r.Description,
			MovieTitle:  r.Movie,
			MovieID:     l.movieIDFor(ctx, r.Movie),
		}
		if err := l.svc.db.InsertAward(ctx, a); err != nil {
			return err
		}
		summary.Awards++
	}
	return nil
}

func (l *SeedLoader) loadTimeline(ctx context.Context, summary *SeedSummary) error {
	records, err := readSeed[seedTimelineEvent](l, SeedTimelineFile, summary)
	if err != nil {
		return err
	}
	for _, r := range records {
		if strings.TrimSpace(r.Event) == "" {
			continue
		}
		e := &models.TimelineEvent{Year: r.Year, Event: r.Event, Description: r.Description}
		if err := l.svc.db.InsertTimelineEvent(ctx, e); err != nil {
			return err
		}
		summary.Timeline++
	}
	return nil
}

// loadTracks creates a local catalog record for any owning movie the
// catalog does not know yet. A later provider sync adopts that record.
func (l *SeedLoader) loadTracks(ctx context.Context, summary *SeedSummary) error {
	records, err := readSeed[seedTrack](l, SeedTracksFile, summary)
	if err != nil {
		return err
	}
	for _, r := range records {
		if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Movie) == "" {
			continue
		}
		m, err := l.svc.db.EnsureMovie(ctx, r.Movie, r.Year)
		if err != nil {
			return err
		}
		t := &models.Track{
			Title:    r.Title,
			MovieID:  m.ID,
			Composer: r.Composer,
			Lyricist: r.Lyricist,
		}
		if err := l.svc.db.InsertTrack(ctx, t); err != nil {
			if errors.Is(err, database.ErrDuplicateTrack) {
				continue
			}
			return err
		}
		summary.Tracks++
	}
	return nil
}

// movieIDFor links content to a catalog record when one exists.
func (l *SeedLoader) movieIDFor(ctx context.Context, title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	m, err := l.svc.db.GetMovieByTitle(ctx, title)
	if err != nil {
		return ""
	}
	return m.ID
}

// readSeed decodes name from the seed directory, falling back to the
// built-in copy when the file is missing or malformed.
func readSeed[T any](l *SeedLoader, name string, summary *SeedSummary) ([]T, error) {
	if l.dir != "" {
		records, err := decodeSeedFile[T](filepath.Join(l.dir, name))
		if err == nil {
			return records, nil
		}
		logging.Warn().Err(err).Str("file", name).Str("dir", l.dir).Msg("Seed file unavailable, using built-in data")
		summary.BuiltinFallbacks = append(summary.BuiltinFallbacks, name)
	}

	data, err := builtinSeed.ReadFile("seeddata/" + name)
	if err != nil {
		return nil, fmt.Errorf("read built-in seed %s: %w", name, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode built-in seed %s: %w", name, err)
	}
	return records, nil
}

func decodeSeedFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return nil, err
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return records, nil
}
