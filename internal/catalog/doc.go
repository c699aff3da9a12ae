// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package catalog is the application layer between the HTTP API and the store.

Components:

  - Service: cached queries over movies, tracks, quotes, awards and the
    timeline, plus the write actions (votes, track creation, enrichment,
    approval, fan messages, quiz answers)
  - Reconciler: merges provider candidates by external id, last write wins
  - Ingestor: runs a catalog sync and falls back to the local catalog when
    the provider is unavailable
  - SeedLoader: fills empty content tables from JSON files or the built-in
    data

Cache invalidation:

Every write deletes the cache entries it can affect before it returns:

	reconcile        catalog:* and query:*
	vote             votes:totals
	track writes     query:tracks*
	seed             everything

Events are published after the write and after invalidation. Publishing
never fails the write.

Errors:

Store sentinels are translated to apperr kinds here. Validation failures
wrap a *validation.RequestValidationError so the API can report each field.
*/
package catalog
