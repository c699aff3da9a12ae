// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package api provides the HTTP REST API layer for SRKVerse.

Every handler is a thin adapter over catalog.Service: it parses path, query
or body input, calls one facade operation and writes the result in the
standard envelope.

Key Components:

  - Router: chi route table and middleware stack
  - Handler: request handlers grouped by area (movies, content, admin, health)
  - ResponseWriter: success/error envelope with request ID and timing metadata
  - ChiMiddleware: go-chi/cors and go-chi/httprate factories

Response Format:

	{
	  "success": true,
	  "data": [...],
	  "meta": {"request_id": "...", "timestamp": "...", "count": 3}
	}

Errors carry a machine-readable code and a message, never a stack trace:

	NotFound           404 NOT_FOUND
	Validation         400 VALIDATION_FAILED (details: field -> message)
	RateLimitExceeded  429 TOO_MANY_REQUESTS
	SourceUnavailable  503 SERVICE_UNAVAILABLE
	Configuration      500 CONFIGURATION_ERROR
	anything else      500 INTERNAL_ERROR

List endpoints answer 200 with an empty array when nothing matches; 404 is
reserved for single-record lookups such as /movies/{title}.

Route Groups:

  - /api/v1/health: liveness and readiness, permissive rate limit
  - /api/v1/movies, /songs, /quotes, /awards, /timeline: catalog reads
  - /api/v1/polls, /fan-messages, /quiz: fan interaction, write rate limit on POSTs
  - /api/v1/admin: manual sync, cache control, event and stats inspection
  - /metrics: Prometheus exposition
*/
package api
