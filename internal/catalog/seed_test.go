// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestSeedLoader_BuiltinDefaults(t *testing.T) {
	env := newTestEnv(t)

	summary, err := NewSeedLoader(env.svc, "").Load(testCtx())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if summary.Quotes != 3 || summary.Awards != 2 || summary.Timeline != 2 || summary.Tracks != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.BuiltinFallbacks) != 0 {
		t.Errorf("no directory means no fallbacks, got %v", summary.BuiltinFallbacks)
	}

	// Owning movies of seeded tracks exist as local records.
	m, err := env.svc.MovieByTitle(testCtx(), "Dil Se")
	if err != nil {
		t.Fatalf("MovieByTitle: %v", err)
	}
	if m.ExternalID != nil {
		t.Errorf("expected a local record, got external id %d", *m.ExternalID)
	}
	tracks, err := env.svc.TracksForMovie(testCtx(), "Dil Se")
	if err != nil || len(tracks) != 1 || tracks[0].Title != "Chaiyya Chaiyya" {
		t.Errorf("unexpected tracks %v, %v", tracks, err)
	}
}

func TestSeedLoader_OnlySeedsEmptyTables(t *testing.T) {
	env := newTestEnv(t)
	loader := NewSeedLoader(env.svc, "")

	if _, err := loader.Load(testCtx()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	summary, err := loader.Load(testCtx())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if summary.Quotes+summary.Awards+summary.Timeline+summary.Tracks != 0 {
		t.Errorf("expected nothing on the second run, got %+v", summary)
	}

	quotes, err := env.svc.Quotes(testCtx())
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	if len(quotes) != 3 {
		t.Errorf("expected 3 quotes, got %d", len(quotes))
	}
}

func TestSeedLoader_FileOverridesAndFallbacks(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	quotes := `[{"quote": "Bade bade deshon mein aisi chhoti chhoti baatein hoti rehti hai.",
		"movie": "Dilwale Dulhania Le Jayenge", "year": 1995, "tags": ["classic"]}]`
	if err := os.WriteFile(filepath.Join(dir, SeedQuotesFile), []byte(quotes), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, SeedAwardsFile), []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}

	summary, err := NewSeedLoader(env.svc, dir).Load(testCtx())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if summary.Quotes != 1 {
		t.Errorf("expected the file's single quote, got %d", summary.Quotes)
	}
	if summary.Awards != 2 {
		t.Errorf("expected built-in awards for a malformed file, got %d", summary.Awards)
	}

	want := []string{SeedAwardsFile, SeedTimelineFile, SeedTracksFile}
	if !slices.Equal(summary.BuiltinFallbacks, want) {
		t.Errorf("fallbacks = %v, want %v", summary.BuiltinFallbacks, want)
	}

	tagged, err := env.svc.QuotesByTag(testCtx(), "classic")
	if err != nil || len(tagged) != 1 {
		t.Errorf("expected the file quote to be queryable, got %v, %v", tagged, err)
	}
}

func TestSeedLoader_LinksContentToKnownMovies(t *testing.T) {
	env := newTestEnv(t)
	env.reconcile(t, movie(4254, "Devdas", 2002))

	if _, err := NewSeedLoader(env.svc, "").Load(testCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	awards, err := env.svc.AwardsByYear(testCtx(), 2003)
	if err != nil || len(awards) != 1 {
		t.Fatalf("AwardsByYear: %v, %v", awards, err)
	}
	if awards[0].MovieID == "" {
		t.Error("expected the Devdas award to reference the catalog record")
	}
}

func TestReconcile_LinksContentSeededBeforeIngest(t *testing.T) {
	env := newTestEnv(t)

	if _, err := NewSeedLoader(env.svc, "").Load(testCtx()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	before, err := env.svc.AwardsByYear(testCtx(), 2003)
	if err != nil || len(before) != 1 {
		t.Fatalf("AwardsByYear: %v, %v", before, err)
	}
	if before[0].MovieID != "" {
		t.Fatalf("award linked before the movie exists: %q", before[0].MovieID)
	}

	env.reconcile(t, movie(4254, "Devdas", 2002))

	after, err := env.svc.AwardsByYear(testCtx(), 2003)
	if err != nil || len(after) != 1 {
		t.Fatalf("AwardsByYear: %v, %v", after, err)
	}
	devdas, err := env.svc.MovieByTitle(testCtx(), "Devdas")
	if err != nil {
		t.Fatalf("MovieByTitle: %v", err)
	}
	if after[0].MovieID != devdas.ID {
		t.Errorf("award movie_id = %q, want %q", after[0].MovieID, devdas.ID)
	}
}
