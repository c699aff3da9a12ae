// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"time"

	"github.com/tomtom215/srkverse/internal/catalog"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/eventbus"
)

// BreakerStater reports the state of the catalog circuit breaker.
type BreakerStater interface {
	State() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health/monitoring endpoints
//   - handlers_movies.go: Movie and song endpoints
//   - handlers_content.go: Quotes, awards, timeline, polls, messages and quiz
//   - handlers_admin.go: Sync, cache and inspection endpoints
type Handler struct {
	db        *database.DB
	svc       *catalog.Service
	ingestor  *catalog.Ingestor     // optional; admin sync answers 500 without it
	activity  *eventbus.ActivityLog // optional
	breaker   BreakerStater         // optional
	startTime time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithIngestor enables the admin sync endpoints.
func WithIngestor(i *catalog.Ingestor) HandlerOption {
	return func(h *Handler) { h.ingestor = i }
}

// WithActivityLog enables the admin events endpoint.
func WithActivityLog(l *eventbus.ActivityLog) HandlerOption {
	return func(h *Handler) { h.activity = l }
}

// WithBreaker reports the catalog circuit breaker state in health output.
func WithBreaker(b BreakerStater) HandlerOption {
	return func(h *Handler) { h.breaker = b }
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - db: Database connection, used for readiness checks
//   - svc: Catalog facade serving every read and write endpoint
func NewHandler(db *database.DB, svc *catalog.Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		db:        db,
		svc:       svc,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
