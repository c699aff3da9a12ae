// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/srkverse/internal/models"
)

func ddlj() models.Movie {
	return models.Movie{
		ExternalID:      int64Ptr(19404),
		Title:           "Dilwale Dulhania Le Jayenge",
		ReleaseYear:     intPtr(1995),
		Synopsis:        "Raj and Simran meet on a trip across Europe.",
		CharacterRole:   "Raj Malhotra",
		PosterReference: "/ddlj.jpg",
		Rating:          floatPtr(8.6),
		GenreLabels:     []string{"Comedy", "Drama", "Romance"},
	}
}

func TestUpsertMovie_InsertThenIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	m := ddlj()
	changed, err := db.UpsertMovie(ctx, &m)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !changed || m.ID == "" {
		t.Fatalf("expected insert with id, changed=%v id=%q", changed, m.ID)
	}

	before, err := db.ListMovies(ctx)
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}

	again := ddlj()
	changed, err = db.UpsertMovie(ctx, &again)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if changed {
		t.Error("re-applying an identical record should not write")
	}
	if again.ID != m.ID {
		t.Errorf("identity changed: %q -> %q", m.ID, again.ID)
	}

	after, err := db.ListMovies(ctx)
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("rows changed after idempotent upsert:\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestUpsertMovie_LastWriteWinsWithEmptierValues(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	original := mustUpsert(t, db, ddlj())

	emptier := models.Movie{
		ExternalID:  int64Ptr(19404),
		Title:       "Dilwale Dulhania Le Jayenge",
		ReleaseYear: nil,
		Rating:      nil,
		GenreLabels: []string{},
	}
	changed, err := db.UpsertMovie(ctx, &emptier)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !changed {
		t.Fatal("expected update")
	}

	got, err := db.GetMovieByExternalID(ctx, 19404)
	if err != nil {
		t.Fatalf("GetMovieByExternalID: %v", err)
	}
	if got.ID != original.ID {
		t.Errorf("id changed on update")
	}
	if got.ReleaseYear != nil || got.Rating != nil || got.Synopsis != "" || len(got.GenreLabels) != 0 {
		t.Errorf("expected emptier values to win, got %+v", got)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", original.CreatedAt, got.CreatedAt)
	}
	if n, _ := db.CountMovies(ctx); n != 1 {
		t.Errorf("CountMovies = %d, want 1", n)
	}
}

func TestUpsertMovie_LocalRecordKeyedOnTitleAndYear(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	a := mustUpsert(t, db, models.Movie{Title: "Baazigar", ReleaseYear: intPtr(1993)})
	b := mustUpsert(t, db, models.Movie{Title: "BAAZIGAR", ReleaseYear: intPtr(1993), Synopsis: "updated"})
	c := mustUpsert(t, db, models.Movie{Title: "Baazigar", ReleaseYear: nil})

	if a.ID != b.ID {
		t.Error("same lower(title) and year should address the same record")
	}
	if a.ID == c.ID {
		t.Error("null year is a different identity")
	}

	got, err := db.GetMovieByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetMovieByID: %v", err)
	}
	if got.Synopsis != "updated" || got.ExternalID != nil {
		t.Errorf("unexpected record %+v", got)
	}
}

func TestMoviesByYear_DistinguishesAdjacentYears(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	mustUpsert(t, db, ddlj())
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(1), Title: "Anjaam", ReleaseYear: intPtr(1994)})

	movies, err := db.MoviesByYear(ctx, 1995)
	if err != nil {
		t.Fatalf("MoviesByYear: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Dilwale Dulhania Le Jayenge" {
		t.Errorf("1995 = %+v", movies)
	}

	none, err := db.MoviesByYear(ctx, 1970)
	if err != nil {
		t.Fatalf("MoviesByYear: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestListMovies_Order(t *testing.T) {
	db := setupTestDB(t)

	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(1), Title: "Swades", ReleaseYear: intPtr(2004)})
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(2), Title: "Main Hoon Na", ReleaseYear: intPtr(2004)})
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(3), Title: "Pathaan", ReleaseYear: intPtr(2023)})
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(4), Title: "Untitled", ReleaseYear: nil})

	movies, err := db.ListMovies(testCtx())
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	var titles []string
	for _, m := range movies {
		titles = append(titles, m.Title)
	}
	want := []string{"Pathaan", "Main Hoon Na", "Swades", "Untitled"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("order = %v, want %v", titles, want)
	}
}

func TestGetMovieByTitle(t *testing.T) {
	db := setupTestDB(t)
	mustUpsert(t, db, ddlj())

	got, err := db.GetMovieByTitle(testCtx(), "dilwale dulhania le jayenge")
	if err != nil {
		t.Fatalf("GetMovieByTitle: %v", err)
	}
	if *got.ExternalID != 19404 {
		t.Errorf("external id = %d", *got.ExternalID)
	}

	if _, err := db.GetMovieByTitle(testCtx(), "Dilwale"); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("partial title should not match, err=%v", err)
	}
}

func TestMoviesByGenreAndTopRated(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	mustUpsert(t, db, ddlj())
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(2), Title: "Don", ReleaseYear: intPtr(2006), Rating: floatPtr(7.1), GenreLabels: []string{"Action", "Thriller"}})
	mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(3), Title: "Unrated", ReleaseYear: intPtr(2010), GenreLabels: []string{"Drama"}})

	drama, err := db.MoviesByGenre(ctx, "DRAMA")
	if err != nil {
		t.Fatalf("MoviesByGenre: %v", err)
	}
	if len(drama) != 2 {
		t.Errorf("drama = %d movies, want 2", len(drama))
	}

	partial, err := db.MoviesByGenre(ctx, "dram")
	if err != nil {
		t.Fatalf("MoviesByGenre: %v", err)
	}
	if len(partial) != 0 {
		t.Errorf("partial genre matched %d movies", len(partial))
	}

	// JSON punctuation must not match.
	quoted, err := db.MoviesByGenre(ctx, `","`)
	if err != nil {
		t.Fatalf("MoviesByGenre: %v", err)
	}
	if len(quoted) != 0 {
		t.Errorf("punctuation matched %d movies", len(quoted))
	}

	top, err := db.TopRated(ctx, 10)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(top) != 2 || top[0].Title != "Dilwale Dulhania Le Jayenge" || top[1].Title != "Don" {
		t.Errorf("top rated = %+v", top)
	}
}

func TestEnsureMovie(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	existing := mustUpsert(t, db, ddlj())

	got, err := db.EnsureMovie(ctx, "Dilwale Dulhania Le Jayenge", nil)
	if err != nil {
		t.Fatalf("EnsureMovie: %v", err)
	}
	if got.ID != existing.ID {
		t.Error("expected existing record")
	}

	created, err := db.EnsureMovie(ctx, "Baadshah", intPtr(1999))
	if err != nil {
		t.Fatalf("EnsureMovie: %v", err)
	}
	if created.ID == "" || created.ExternalID != nil {
		t.Errorf("expected local record, got %+v", created)
	}
	if n, _ := db.CountMovies(ctx); n != 2 {
		t.Errorf("CountMovies = %d, want 2", n)
	}
}

func TestUpsertMovie_ProviderRecordAdoptsLocalPlaceholder(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()

	local, err := db.EnsureMovie(ctx, "Dil Se", nil)
	if err != nil {
		t.Fatalf("EnsureMovie: %v", err)
	}
	if err := db.InsertTrack(ctx, &models.Track{Title: "Chaiyya Chaiyya", MovieID: local.ID}); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	remote := mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(8491), Title: "Dil Se..", ReleaseYear: intPtr(1998)})
	if remote.ID == local.ID {
		t.Fatal("different title should not adopt the placeholder")
	}

	adopted := mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(8492), Title: "DIL SE", ReleaseYear: intPtr(1998)})
	if adopted.ID != local.ID {
		t.Fatalf("expected placeholder %s to be adopted, got %s", local.ID, adopted.ID)
	}

	tracks, err := db.TracksForMovie(ctx, adopted.ID)
	if err != nil || len(tracks) != 1 {
		t.Errorf("tracks should stay attached, got %+v err=%v", tracks, err)
	}
	if n, _ := db.CountMovies(ctx); n != 2 {
		t.Errorf("CountMovies = %d, want 2", n)
	}

	again := mustUpsert(t, db, models.Movie{ExternalID: int64Ptr(8492), Title: "DIL SE", ReleaseYear: intPtr(1998)})
	if again.ID != local.ID {
		t.Error("adopted record should now be keyed on its external id")
	}
}
