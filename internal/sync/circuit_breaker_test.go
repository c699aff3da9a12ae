// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/models"
)

// fakeCatalog is a CatalogSource returning a fixed error.
type fakeCatalog struct {
	err   error
	calls atomic.Int32
}

func (f *fakeCatalog) FetchGenreTaxonomy(ctx context.Context) (map[int]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return map[int]string{18: "Drama"}, nil
}

func (f *fakeCatalog) FetchFilmography(ctx context.Context, personID int, taxonomy map[int]string) ([]models.Movie, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.Movie{{Title: "Swades"}}, nil
}

func (f *fakeCatalog) FetchMovieDetails(ctx context.Context, externalID int64) (*models.Movie, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Movie{Title: "Swades"}, nil
}

func TestCircuitBreaker_PassesResultsThrough(t *testing.T) {
	cbc := NewCircuitBreakerCatalogClient(&fakeCatalog{})

	movies, err := cbc.FetchFilmography(context.Background(), DefaultPersonID, nil)
	if err != nil {
		t.Fatalf("FetchFilmography: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Swades" {
		t.Errorf("movies = %+v", movies)
	}

	taxonomy, err := cbc.FetchGenreTaxonomy(context.Background())
	if err != nil || taxonomy[18] != "Drama" {
		t.Errorf("taxonomy = %v err=%v", taxonomy, err)
	}
}

func TestCircuitBreaker_OpensOnSourceUnavailable(t *testing.T) {
	source := &fakeCatalog{err: apperr.Wrap(apperr.KindSourceUnavailable, errors.New("503"), "down")}
	cbc := NewCircuitBreakerCatalogClient(source)

	for i := 0; i < 5; i++ {
		_, _ = cbc.FetchGenreTaxonomy(context.Background())
	}
	if cbc.cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cbc.State())
	}

	before := source.calls.Load()
	_, err := cbc.FetchGenreTaxonomy(context.Background())
	if !errors.Is(err, apperr.ErrSourceUnavailable) {
		t.Errorf("expected source unavailable, got %v", err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open-state cause, got %v", err)
	}
	if source.calls.Load() != before {
		t.Error("open breaker should not call the source")
	}
}

func TestCircuitBreaker_IgnoresNonTransientErrors(t *testing.T) {
	source := &fakeCatalog{err: apperr.New(apperr.KindConfiguration, "no key")}
	cbc := NewCircuitBreakerCatalogClient(source)

	for i := 0; i < 10; i++ {
		_, err := cbc.FetchMovieDetails(context.Background(), 1)
		if !errors.Is(err, apperr.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	}
	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("configuration errors should not open the breaker, got %s", cbc.State())
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()

	tests := map[gobreaker.State]string{
		gobreaker.StateClosed:   "closed",
		gobreaker.StateHalfOpen: "half-open",
		gobreaker.StateOpen:     "open",
	}
	for state, want := range tests {
		if got := stateToString(state); got != want {
			t.Errorf("stateToString(%v) = %q, want %q", state, got, want)
		}
	}
	if stateToFloat(gobreaker.StateOpen) != 2 {
		t.Error("open state should map to 2")
	}
}
