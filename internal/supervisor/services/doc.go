// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package services provides suture.Service wrappers for SRKVerse components.

Each wrapper translates a component's own lifecycle into suture's
context-aware Serve(ctx) error:

  - HTTPServerService: ListenAndServe/Shutdown of the API server
  - IngestService: catalog sync on startup and on a fixed interval
  - EventBusService: the watermill router behind the event bus

Serve returns ctx.Err() on a requested shutdown and a real error on failure,
which suture answers with a restart under its backoff policy.
EventBusService opts out of restarts with suture.ErrDoNotRestart because a
stopped watermill router cannot be run again.
*/
package services
