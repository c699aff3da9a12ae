// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package supervisor provides process supervision for SRKVerse using suture v4.

Long-running components run under a hierarchical supervisor tree with
automatic restart, failure isolation and graceful shutdown.

# Overview

	RootSupervisor ("srkverse")
	├── EventsSupervisor ("events-layer")
	│   └── EventBusService
	├── IngestSupervisor ("ingest-layer")
	│   └── IngestService (catalog sync on startup and on an interval)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A flapping catalog sync cannot take the API down with it, and an API restart
does not interrupt event delivery.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEventService(services.NewEventBusService(bus))
	tree.AddIngestService(services.NewIngestService(ingestor, cfg.Sync.Interval, cfg.Sync.OnStartup))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

# Failure Handling

Each layer counts failures independently. The counter decays over
FailureDecay seconds; above FailureThreshold the layer waits FailureBackoff
before the next restart. Supervisor events are logged through sutureslog.

# What Is NOT Supervised

DuckDB and the cache are libraries owned by main; they are opened before the
tree starts and closed after it stops.
*/
package supervisor
