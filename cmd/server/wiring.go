// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/catalog"
	"github.com/tomtom215/srkverse/internal/config"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	syncpkg "github.com/tomtom215/srkverse/internal/sync"
)

// seedTimeout bounds the startup seed pass.
const seedTimeout = 30 * time.Second

// cacheConfigFrom maps the application config onto the cache factory config.
// The catalog TTL doubles as the backend default.
func cacheConfigFrom(cfg *config.CacheConfig) cache.CacheConfig {
	return cache.CacheConfig{
		Type:            cache.CacheType(cfg.Type),
		TTL:             cfg.CatalogTTL,
		BadgerPath:      cfg.BadgerPath,
		JanitorInterval: cfg.JanitorTick,
	}
}

func ttlPolicyFrom(cfg *config.CacheConfig) cache.TTLPolicy {
	return cache.TTLPolicy{
		Catalog: cfg.CatalogTTL,
		Query:   cfg.QueryTTL,
		Quote:   cfg.QuoteTTL,
		Vote:    cfg.VoteTTL,
	}.WithDefaults()
}

// serviceOptions builds the catalog service options. The enricher is only
// attached when client credentials are present, so EnrichTrack reports a
// configuration error instead of failing at the token endpoint.
func serviceOptions(cfg *config.Config, bus eventbus.Publisher, enricher *syncpkg.EnrichmentClient) []catalog.Option {
	opts := []catalog.Option{
		catalog.WithEvents(bus),
		catalog.WithTTLPolicy(ttlPolicyFrom(&cfg.Cache)),
	}
	if enricher != nil && enricher.Configured() {
		opts = append(opts, catalog.WithEnricher(enricher))
	} else {
		logging.Info().Msg("Music enrichment disabled (SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET not set)")
	}
	return opts
}

// seedContent runs the seed loader once. Failures are logged; the API still
// serves whatever the store already holds.
func seedContent(ctx context.Context, svc *catalog.Service, cfg *config.SeedConfig) (*catalog.SeedSummary, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Seed loading disabled (SEED_ENABLED=false)")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	summary, err := catalog.NewSeedLoader(svc, cfg.Dir).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed content from %q: %w", cfg.Dir, err)
	}

	event := logging.Info().
		Str("dir", cfg.Dir).
		Int("quotes", summary.Quotes).
		Int("awards", summary.Awards).
		Int("timeline", summary.Timeline).
		Int("tracks", summary.Tracks)
	if len(summary.BuiltinFallbacks) > 0 {
		event = event.Strs("builtin_fallbacks", summary.BuiltinFallbacks)
	}
	event.Msg("Seed content loaded")
	return summary, nil
}
