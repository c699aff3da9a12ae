// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/config"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/models"
)

// testDBSemaphore serializes DuckDB instances across tests.
var testDBSemaphore = make(chan struct{}, 1)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type testEnv struct {
	db    *database.DB
	cache *cache.Cache
	clock *fakeClock
	svc   *Service
	pub   *recordingPublisher
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close test database: %v", err)
		}
	})

	clock := newFakeClock()
	c := cache.New(time.Hour, cache.WithClock(clock.Now), cache.WithName("catalog-test"))
	t.Cleanup(func() { _ = c.Close() })

	pub := &recordingPublisher{}
	opts = append([]Option{WithEvents(pub)}, opts...)

	return &testEnv{
		db:    db,
		cache: c,
		clock: clock,
		svc:   NewService(db, c, opts...),
		pub:   pub,
	}
}

func testCtx() context.Context { return context.Background() }

func intPtr(v int) *int           { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func movie(externalID int64, title string, year int) models.Movie {
	return models.Movie{
		ExternalID:  int64Ptr(externalID),
		Title:       title,
		ReleaseYear: intPtr(year),
		GenreLabels: []string{"Drama"},
	}
}

func (e *testEnv) reconcile(t *testing.T, movies ...models.Movie) {
	t.Helper()
	if _, err := NewReconciler(e.svc).Upsert(testCtx(), movies); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, payload)
	return nil
}

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type fakeEnricher struct {
	meta  *models.TrackMetadata
	err   error
	calls atomic.Int32
}

func (f *fakeEnricher) Enrich(_ context.Context, _, _ string) (*models.TrackMetadata, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	m := *f.meta
	return &m, nil
}

type fakeSource struct {
	taxonomy map[int]string
	movies   []models.Movie
	details  map[int64]*models.Movie
	err      error
}

func (f *fakeSource) FetchGenreTaxonomy(context.Context) (map[int]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.taxonomy, nil
}

func (f *fakeSource) FetchFilmography(_ context.Context, _ int, _ map[int]string) ([]models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func (f *fakeSource) FetchMovieDetails(_ context.Context, externalID int64) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.details[externalID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "catalog resource not found")
	}
	cp := *m
	return &cp, nil
}
