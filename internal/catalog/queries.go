// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"strings"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/models"
)

// TopRatedLimit is the number of movies returned by TopRated.
const TopRatedLimit = 10

// Movies

// ListMovies returns the full catalog, newest release first.
func (s *Service) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return cached(s, cache.KeyCatalogAll, s.ttl.Catalog, func() ([]models.Movie, error) {
		return s.db.ListMovies(ctx)
	})
}

// MoviesByYear returns the movies released in year.
func (s *Service) MoviesByYear(ctx context.Context, year int) ([]models.Movie, error) {
	key := cache.QueryKey("movies:year", year)
	return cached(s, key, s.ttl.Query, func() ([]models.Movie, error) {
		return s.db.MoviesByYear(ctx, year)
	})
}

// MovieByTitle returns the movie titled title (case-insensitive).
func (s *Service) MovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.KindValidation, "title must not be empty")
	}
	key := cache.QueryKey("movies:title", strings.ToLower(title))
	m, err := cached(s, key, s.ttl.Query, func() (*models.Movie, error) {
		m, err := s.db.GetMovieByTitle(ctx, title)
		return m, translate(err)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MoviesByGenre returns movies labelled with genre, ignoring case.
func (s *Service) MoviesByGenre(ctx context.Context, genre string) ([]models.Movie, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, apperr.New(apperr.KindValidation, "genre must not be empty")
	}
	key := cache.QueryKey("movies:genre", strings.ToLower(genre))
	return cached(s, key, s.ttl.Query, func() ([]models.Movie, error) {
		return s.db.MoviesByGenre(ctx, genre)
	})
}

// TopRated returns the highest rated movies. Unrated movies are excluded.
func (s *Service) TopRated(ctx context.Context) ([]models.Movie, error) {
	key := cache.QueryKey("movies:top", TopRatedLimit)
	return cached(s, key, s.ttl.Query, func() ([]models.Movie, error) {
		return s.db.TopRated(ctx, TopRatedLimit)
	})
}

// Quotes

// Quotes returns every quote.
func (s *Service) Quotes(ctx context.Context) ([]models.Quote, error) {
	return cached(s, cache.QueryKey("quotes:all", nil), s.ttl.Query, func() ([]models.Quote, error) {
		return s.db.ListQuotes(ctx)
	})
}

// QuotesByTag returns quotes tagged with tag, ignoring case.
func (s *Service) QuotesByTag(ctx context.Context, tag string) ([]models.Quote, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, apperr.New(apperr.KindValidation, "tag must not be empty")
	}
	key := cache.QueryKey("quotes:tag", strings.ToLower(tag))
	return cached(s, key, s.ttl.Query, func() ([]models.Quote, error) {
		return s.db.QuotesByTag(ctx, tag)
	})
}

// QuotesByMovie returns quotes attributed to movieTitle.
func (s *Service) QuotesByMovie(ctx context.Context, movieTitle string) ([]models.Quote, error) {
	key := cache.QueryKey("quotes:movie", strings.ToLower(strings.TrimSpace(movieTitle)))
	return cached(s, key, s.ttl.Query, func() ([]models.Quote, error) {
		return s.db.QuotesByMovie(ctx, strings.TrimSpace(movieTitle))
	})
}

// RandomQuote returns a random quote. The draw is cached, so callers see
// the same quote until the entry expires.
func (s *Service) RandomQuote(ctx context.Context) (*models.Quote, error) {
	return cached(s, cache.KeyRandomQuote, s.ttl.Quote, func() (*models.Quote, error) {
		q, err := s.db.RandomQuote(ctx, false)
		return q, translate(err)
	})
}

// Awards

// Awards returns every award, newest first.
func (s *Service) Awards(ctx context.Context) ([]models.Award, error) {
	return cached(s, cache.QueryKey("awards:all", nil), s.ttl.Query, func() ([]models.Award, error) {
		return s.db.ListAwards(ctx)
	})
}

// AwardsByYear returns the awards of year.
func (s *Service) AwardsByYear(ctx context.Context, year int) ([]models.Award, error) {
	return cached(s, cache.QueryKey("awards:year", year), s.ttl.Query, func() ([]models.Award, error) {
		return s.db.AwardsByYear(ctx, year)
	})
}

// AwardsByCategory returns awards whose category contains category.
func (s *Service) AwardsByCategory(ctx context.Context, category string) ([]models.Award, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperr.New(apperr.KindValidation, "award type must not be empty")
	}
	key := cache.QueryKey("awards:category", strings.ToLower(category))
	return cached(s, key, s.ttl.Query, func() ([]models.Award, error) {
		return s.db.AwardsByCategory(ctx, category)
	})
}

// Timeline

// Timeline returns every career milestone in year order.
func (s *Service) Timeline(ctx context.Context) ([]models.TimelineEvent, error) {
	return cached(s, cache.QueryKey("timeline:all", nil), s.ttl.Query, func() ([]models.TimelineEvent, error) {
		return s.db.ListTimeline(ctx)
	})
}

// TimelineByYear returns the milestones of year.
func (s *Service) TimelineByYear(ctx context.Context, year int) ([]models.TimelineEvent, error) {
	return cached(s, cache.QueryKey("timeline:year", year), s.ttl.Query, func() ([]models.TimelineEvent, error) {
		return s.db.TimelineByYear(ctx, year)
	})
}

// Debut returns the first milestone mentioning a debut.
func (s *Service) Debut(ctx context.Context) (*models.TimelineEvent, error) {
	return cached(s, cache.QueryKey("timeline:debut", nil), s.ttl.Query, func() (*models.TimelineEvent, error) {
		e, err := s.db.FirstTimelineEventMatching(ctx, "debut")
		return e, translate(err)
	})
}

// Tracks

// Tracks returns every track with its movie title.
func (s *Service) Tracks(ctx context.Context) ([]models.Track, error) {
	return cached(s, cache.QueryKey("tracks:all", nil), s.ttl.Query, func() ([]models.Track, error) {
		return s.db.ListTracks(ctx)
	})
}

// TracksForMovie returns the tracks of the movie titled movieTitle. An
// unknown movie is NotFound; a known movie without tracks is an empty list.
func (s *Service) TracksForMovie(ctx context.Context, movieTitle string) ([]models.Track, error) {
	m, err := s.MovieByTitle(ctx, movieTitle)
	if err != nil {
		return nil, err
	}
	key := cache.QueryKey("tracks:movie", m.ID)
	return cached(s, key, s.ttl.Query, func() ([]models.Track, error) {
		return s.db.TracksForMovie(ctx, m.ID)
	})
}

// Stats returns row counts per table and cache statistics.
func (s *Service) Stats(ctx context.Context) (map[string]int, cache.Stats, error) {
	counts, err := s.db.RecordCounts(ctx)
	if err != nil {
		return nil, cache.Stats{}, err
	}
	return counts, s.cache.GetStats(), nil
}

// ClearCache drops every cached entry.
func (s *Service) ClearCache() {
	s.fence.Clear()
}
