// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
)

func TestListMovies_CachedUntilExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t, movie(19404, "Dilwale Dulhania Le Jayenge", 1995))

	movies, err := env.svc.ListMovies(testCtx())
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected 1 movie, got %d", len(movies))
	}

	// Written behind the service's back, so nothing invalidates the entry.
	extra := movie(11854, "Kuch Kuch Hota Hai", 1998)
	if _, err := env.db.UpsertMovie(testCtx(), &extra); err != nil {
		t.Fatalf("UpsertMovie: %v", err)
	}

	env.clock.Advance(time.Hour - time.Nanosecond)
	movies, _ = env.svc.ListMovies(testCtx())
	if len(movies) != 1 {
		t.Errorf("expected cached listing before expiry, got %d movies", len(movies))
	}

	env.clock.Advance(time.Nanosecond)
	movies, _ = env.svc.ListMovies(testCtx())
	if len(movies) != 2 {
		t.Errorf("expected a fresh listing at expiry, got %d movies", len(movies))
	}
}

func TestMoviesByYear_ExactYear(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t,
		movie(19404, "Dilwale Dulhania Le Jayenge", 1995),
		movie(20000, "Karan Arjun", 1995),
		movie(20001, "Kabhi Haan Kabhi Naa", 1994),
	)

	got, err := env.svc.MoviesByYear(testCtx(), 1995)
	if err != nil {
		t.Fatalf("MoviesByYear: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 movies from 1995, got %d", len(got))
	}
	for _, m := range got {
		if *m.ReleaseYear != 1995 {
			t.Errorf("unexpected year %d for %q", *m.ReleaseYear, m.Title)
		}
	}

	none, err := env.svc.MoviesByYear(testCtx(), 1980)
	if err != nil {
		t.Fatalf("MoviesByYear(1980): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected an empty non-nil list, got %#v", none)
	}
}

func TestMovieByTitle(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t, movie(19404, "Dilwale Dulhania Le Jayenge", 1995))

	m, err := env.svc.MovieByTitle(testCtx(), "  dilwale dulhania le jayenge ")
	if err != nil {
		t.Fatalf("MovieByTitle: %v", err)
	}
	if m.ExternalID == nil || *m.ExternalID != 19404 {
		t.Errorf("unexpected movie %+v", m)
	}

	_, err = env.svc.MovieByTitle(testCtx(), "Dilwale")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected NotFound for a partial title, got %v", err)
	}

	_, err = env.svc.MovieByTitle(testCtx(), "   ")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for a blank title, got %v", err)
	}
}

func TestMoviesByGenre_And_TopRated(t *testing.T) {
	env := newTestEnv(t)

	romance := movie(1, "Veer-Zaara", 2004)
	romance.GenreLabels = []string{"Romance", "Drama"}
	romance.Rating = floatPtr(7.8)
	action := movie(2, "Pathaan", 2023)
	action.GenreLabels = []string{"Action", "Thriller"}
	action.Rating = floatPtr(6.5)
	unrated := movie(3, "Untitled", 2027)
	env.reconcile(t, romance, action, unrated)

	got, err := env.svc.MoviesByGenre(testCtx(), "ROMANCE")
	if err != nil {
		t.Fatalf("MoviesByGenre: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Veer-Zaara" {
		t.Errorf("unexpected genre result %+v", got)
	}

	for _, partial := range []string{"act", "rom", "Thrill"} {
		got, err := env.svc.MoviesByGenre(testCtx(), partial)
		if err != nil || len(got) != 0 {
			t.Errorf("MoviesByGenre(%q) matched a partial label: %+v, err=%v", partial, got, err)
		}
	}

	empty, err := env.svc.MoviesByGenre(testCtx(), "Western")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil list and no error, got %v, %v", empty, err)
	}

	top, err := env.svc.TopRated(testCtx())
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected unrated movies to be excluded, got %d", len(top))
	}
	if top[0].Title != "Veer-Zaara" {
		t.Errorf("expected highest rated first, got %q", top[0].Title)
	}
}

func TestContentQueries_AfterSeeding(t *testing.T) {
	env := newTestEnv(t)
	if _, err := NewSeedLoader(env.svc, "").Load(testCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	quotes, err := env.svc.QuotesByTag(testCtx(), "MOTIVATIONAL")
	if err != nil {
		t.Fatalf("QuotesByTag: %v", err)
	}
	if len(quotes) != 1 || quotes[0].MovieTitle != "Om Shanti Om" {
		t.Errorf("unexpected tag result %+v", quotes)
	}

	awards, err := env.svc.AwardsByCategory(testCtx(), "filmfare")
	if err != nil {
		t.Fatalf("AwardsByCategory: %v", err)
	}
	if len(awards) != 2 {
		t.Errorf("expected 2 Filmfare awards, got %d", len(awards))
	}

	byYear, err := env.svc.AwardsByYear(testCtx(), 2003)
	if err != nil {
		t.Fatalf("AwardsByYear: %v", err)
	}
	if len(byYear) != 1 || byYear[0].MovieTitle != "Devdas" {
		t.Errorf("unexpected 2003 awards %+v", byYear)
	}

	debut, err := env.svc.Debut(testCtx())
	if err != nil {
		t.Fatalf("Debut: %v", err)
	}
	if debut.Year != 1992 {
		t.Errorf("expected 1992 debut, got %d", debut.Year)
	}

	events, err := env.svc.TimelineByYear(testCtx(), 1970)
	if err != nil || events == nil || len(events) != 0 {
		t.Errorf("expected empty non-nil timeline, got %v, %v", events, err)
	}
}

func TestDebut_NotFoundWithoutTimeline(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Debut(testCtx())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRandomQuote(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.svc.RandomQuote(testCtx()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound on an empty table, got %v", err)
	}

	if _, err := NewSeedLoader(env.svc, "").Load(testCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	first, err := env.svc.RandomQuote(testCtx())
	if err != nil {
		t.Fatalf("RandomQuote: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := env.svc.RandomQuote(testCtx())
		if err != nil {
			t.Fatalf("RandomQuote: %v", err)
		}
		if again.ID != first.ID {
			t.Fatalf("expected the cached quote within its lifetime, got %q then %q", first.ID, again.ID)
		}
	}
}

func TestTracksForMovie(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t, movie(1, "Kal Ho Naa Ho", 2003), movie(2, "Swades", 2004))

	if _, err := env.svc.CreateTrack(testCtx(), CreateTrackInput{Title: "Kal Ho Naa Ho", MovieTitle: "Kal Ho Naa Ho"}); err != nil {
		t.Fatalf("CreateTrack: %v", err)
	}

	tracks, err := env.svc.TracksForMovie(testCtx(), "kal ho naa ho")
	if err != nil {
		t.Fatalf("TracksForMovie: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(tracks))
	}

	none, err := env.svc.TracksForMovie(testCtx(), "Swades")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty list for a movie without tracks, got %v, %v", none, err)
	}

	_, err = env.svc.TracksForMovie(testCtx(), "Unknown")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected NotFound for an unknown movie, got %v", err)
	}
}

func TestStatsAndClearCache(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t, movie(1, "Swades", 2004))

	if _, err := env.svc.ListMovies(testCtx()); err != nil {
		t.Fatalf("ListMovies: %v", err)
	}

	counts, stats, err := env.svc.Stats(testCtx())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if counts["movies"] != 1 {
		t.Errorf("expected 1 movie, got %d", counts["movies"])
	}
	if stats.TotalKeys == 0 {
		t.Error("expected the listing to be cached")
	}

	env.svc.ClearCache()
	if _, ok := env.cache.Get("catalog:movies"); ok {
		t.Error("expected cache to be empty after ClearCache")
	}
}
