// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package middleware provides HTTP middleware components for the catalog API.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds logging context
  - Compression: gzip for clients that accept it
  - PrometheusMetrics: request counters, latency histogram, in-flight gauge

All three use the plain http.HandlerFunc shape and are adapted onto the chi
router by the api package.

Metrics are labelled with the chi route pattern (for example
/api/v1/movies/title/{title}) rather than the raw path, so that path
parameters do not explode label cardinality.
*/
package middleware
