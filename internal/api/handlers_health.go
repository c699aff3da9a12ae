// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/srkverse/internal/models"
)

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status            string             `json:"status"`
	DatabaseConnected bool               `json:"database_connected"`
	CatalogBreaker    string             `json:"catalog_breaker,omitempty"`
	LastSync          *models.SyncResult `json:"last_sync,omitempty"`
	Uptime            float64            `json:"uptime_seconds"`
}

// Health reports database connectivity, the catalog breaker and the last sync.
// An open breaker or a fallback sync degrades the status but the service
// keeps serving local data.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		health.CatalogBreaker = h.breaker.State()
	}
	if h.ingestor != nil {
		health.LastSync = h.ingestor.LastResult()
	}

	switch {
	case !dbConnected:
		health.Status = "unhealthy"
	case health.CatalogBreaker == "open":
		health.Status = "degraded"
	case health.LastSync != nil && health.LastSync.Fallback:
		health.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(health)
}

// HealthLive returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 OK only when the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		rw.ServiceUnavailable("Database is not reachable")
		return
	}
	rw.Success(map[string]interface{}{
		"ready_to_serve": true,
		"uptime":         time.Since(h.startTime).Seconds(),
	})
}
