// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	syncpkg "github.com/tomtom215/srkverse/internal/sync"
)

// Service is the read/write facade over the catalog store. Reads go through
// the cache; every write invalidates the entries it can affect before
// returning.
type Service struct {
	db       *database.DB
	cache    cache.Cacher
	fence    *cache.Fence
	flight   singleflight.Group
	ttl      cache.TTLPolicy
	events   eventbus.Publisher
	enricher syncpkg.Enricher

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithEvents publishes domain events to p.
func WithEvents(p eventbus.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithEnricher sets the music metadata provider used by EnrichTrack.
func WithEnricher(e syncpkg.Enricher) Option {
	return func(s *Service) {
		s.enricher = e
	}
}

// WithTTLPolicy overrides the per-class cache lifetimes.
func WithTTLPolicy(p cache.TTLPolicy) Option {
	return func(s *Service) {
		s.ttl = p.WithDefaults()
	}
}

// WithRand fixes the source used for quiz option shuffling.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

// NewService creates a catalog service.
func NewService(db *database.DB, c cache.Cacher, opts ...Option) *Service {
	s := &Service{
		db:     db,
		cache:  c,
		fence:  cache.NewFence(c),
		ttl:    cache.DefaultTTLPolicy(),
		events: eventbus.NopPublisher{},
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5352_4b)), //nolint:gosec // quiz shuffling
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the cache the service reads through.
func (s *Service) Cache() cache.Cacher {
	return s.cache
}

// publish emits an event. Failures are logged; they never fail the caller.
func (s *Service) publish(ctx context.Context, topic string, payload interface{}) {
	if err := s.events.Publish(ctx, topic, payload); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}

// invalidateCatalog drops every movie-derived entry.
func (s *Service) invalidateCatalog() {
	removed := s.fence.DeletePrefix(cache.PrefixCatalog)
	removed += s.fence.DeletePrefix(cache.PrefixQuery)
	logging.Debug().Int("entries", removed).Msg("Catalog cache invalidated")
}

// shuffle permutes values in place.
func (s *Service) shuffle(values []string) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// cached returns the value under key, loading and storing it with ttl on a
// miss. Concurrent misses taken at the same invalidation ticket share one
// load. A result is not stored when the key was invalidated while it was
// loading. Load errors are never cached.
func cached[T any](s *Service, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if v, ok := cache.Fetch[T](s.cache, key); ok {
		return v, nil
	}

	ticket := s.fence.Ticket()
	v, err, _ := s.flight.Do(key+"@"+strconv.FormatUint(ticket, 10), func() (interface{}, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		if !s.fence.Fill(key, ticket, v, ttl) {
			logging.Debug().Str("key", key).Msg("Cache fill skipped, key invalidated during load")
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
