// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at /metrics in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Catalog sync and providers:
  - catalog_sync_duration_seconds
  - catalog_sync_records_merged_total
  - catalog_sync_errors_total{error_kind}
  - catalog_sync_last_success_timestamp
  - provider_requests_total{provider,outcome}
  - track_enrichment_results_total{result}

Cache, storage and votes:
  - cache_hits_total, cache_misses_total, cache_evictions_total{cache_type}
  - cache_entries{cache_type}
  - duckdb_query_duration_seconds{operation,table}
  - fan_votes_cast_total

Circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Thread Safety

All helpers are safe for concurrent use; the underlying collectors are.
*/
package metrics
