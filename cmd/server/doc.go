// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package main is the entry point for the SRKVerse server application.

SRKVerse is a fan-content catalog for Shah Rukh Khan: filmography pulled from
TMDb, soundtrack metadata from Spotify, and curated quotes, awards and career
timeline served over a JSON REST API.

# Application Architecture

The server runs its long-lived components under Suture v4 supervision:

	RootSupervisor ("srkverse")
	├── EventsSupervisor ("events-layer")
	│   └── Event bus router (Watermill GoChannel)
	├── IngestSupervisor ("ingest-layer")
	│   └── Catalog ingest (startup and interval syncs)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB
 4. Cache: in-memory or BadgerDB, with per-class TTLs
 5. Event bus and activity log
 6. Catalog and enrichment clients
 7. Seed content (idempotent, empty tables only)
 8. Supervisor tree and HTTP server

# Configuration

Priority: Environment variables > Config file > Defaults

	# Server
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/srkverse.duckdb
	CACHE_TYPE=memory            # memory or badger

	# Catalog provider (scheduled sync runs only with a key)
	TMDB_API_KEY=<key>
	TMDB_PERSON_ID=33488
	SYNC_INTERVAL=24h
	SYNC_ON_STARTUP=false

	# Music enrichment (optional)
	SPOTIFY_CLIENT_ID=<id>
	SPOTIFY_CLIENT_SECRET=<secret>

	# Seed content
	SEED_ENABLED=true
	SEED_DIR=data/seed

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for SHUTDOWN_TIMEOUT, the event bus stops, and the cache and
database are closed last.
*/
package main
