// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package sync contains the HTTP clients for the two external metadata
providers the catalog pulls from.

Key Components:

  - CatalogClient: TMDb-compatible movie catalog (genre taxonomy, person
    filmography, movie details)
  - CircuitBreakerCatalogClient: gobreaker wrapper around any CatalogSource
  - EnrichmentClient: Spotify-compatible track search behind OAuth2
    client credentials

Retry Policy:

The catalog client retries network errors and HTTP 500/502/503/504 with
exponential backoff, at most MaxAttempts (default 3) attempts per call. When
the budget is exhausted the returned error matches apperr.ErrSourceUnavailable.
Other statuses fail immediately: 401/403 as apperr.ErrConfiguration, 404 as
apperr.ErrNotFound.

The enrichment client retries only HTTP 429, honouring Retry-After, for at
most MaxAttempts attempts; then it returns apperr.ErrRateLimitExceeded.
Missing credentials and token endpoint rejections are
apperr.ErrConfiguration and are never retried. Network failures, the client
timeout and 5xx responses fail immediately as apperr.ErrSourceUnavailable. A golang.org/x/time/rate
limiter paces every outbound attempt.

Usage Example:

	catalog := sync.NewCircuitBreakerCatalogClient(sync.NewCatalogClient(&cfg.Catalog))
	taxonomy, err := catalog.FetchGenreTaxonomy(ctx)
	if err != nil {
	    return err
	}
	movies, err := catalog.FetchFilmography(ctx, cfg.Catalog.PersonID, taxonomy)

	enricher := sync.NewEnrichmentClient(&cfg.Enrichment)
	meta, err := enricher.Enrich(ctx, "Tujhe Dekha To", "Dilwale Dulhania Le Jayenge")
	if errors.Is(err, apperr.ErrRateLimitExceeded) {
	    // surface as a warning
	}

Thread Safety:

All clients are safe for concurrent use. The OAuth2 token is cached and
refreshed by the token source.
*/
package sync
