// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package cache provides the read-through cache that sits in front of the
catalog store.

# Overview

Two implementations satisfy Cacher:
  - Cache: thread-safe in-memory map with per-entry expiry (default)
  - BadgerCache: BadgerDB-backed store that survives restarts

An entry written at time S with ttl D has expiry T = S + D. Any Get at or
after T is a miss, regardless of whether the janitor has removed the entry
yet. Both implementations take their notion of "now" from an injectable
clock so expiry can be tested without sleeping.

# Time-To-Live Classes

	catalog:*   1h   movie lists, filmography lookups
	query:*     1h   year/genre/title/top-rated/tag results
	quote:random 10m random quote
	votes:*     10m  vote totals; deleted on every vote

Every reconciliation that changes the catalog clears the catalog and query
prefixes. Vote invalidation is synchronous so that a read after a write
always sees the new count.

# Typed Access

Fetch decodes into the caller's type regardless of backend:

	movies, ok := cache.Fetch[[]models.Movie](c, cache.KeyCatalogAll)

# Metrics

Hits, misses, evictions and entry counts are exported through the metrics
package, labelled with the cache name.
*/
package cache
