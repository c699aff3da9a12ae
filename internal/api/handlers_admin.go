// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/logging"
)

// Default page sizes for admin listings.
const (
	defaultEventsLimit   = 50
	defaultMessagesLimit = 50
)

var errSyncNotConfigured = apperr.New(apperr.KindConfiguration, "catalog sync is not configured")

// StatsResponse is the payload of the admin stats endpoint.
type StatsResponse struct {
	Records map[string]int `json:"records"`
	Cache   CacheStats     `json:"cache"`
}

// CacheStats is a plain snapshot of cache.Stats.
type CacheStats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// TriggerSync runs a full catalog sync. An unreachable catalog is not an
// error: the result reports the fallback and the local catalog keeps serving.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		WriteAppError(w, r, errSyncNotConfigured)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Manual catalog sync requested")

	result, err := h.ingestor.Sync(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// SyncMovie refreshes one movie by its catalog provider id.
func (h *Handler) SyncMovie(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		WriteAppError(w, r, errSyncNotConfigured)
		return
	}
	id, err := externalIDParam(r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	movie, err := h.ingestor.SyncMovie(r.Context(), id)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(movie)
}

// ClearCache drops every cached entry.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCache()
	logging.Ctx(r.Context()).Info().Msg("Cache cleared by admin request")
	NewResponseWriter(w, r).Success(map[string]bool{"cleared": true})
}

// RecentEvents lists recently consumed domain events, newest first.
func (h *Handler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := limitQuery(r, defaultEventsLimit)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	if h.activity == nil {
		NewResponseWriter(w, r).List([]struct{}{}, 0)
		return
	}
	events := h.activity.Recent(limit)
	NewResponseWriter(w, r).List(events, len(events))
}

// FanMessages lists the most recent fan messages.
func (h *Handler) FanMessages(w http.ResponseWriter, r *http.Request) {
	limit, err := limitQuery(r, defaultMessagesLimit)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	messages, err := h.svc.RecentMessages(r.Context(), limit)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(messages, len(messages))
}

// Stats reports record counts and cache statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	records, stats, err := h.svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(StatsResponse{
		Records: records,
		Cache: CacheStats{
			Hits:        stats.Hits,
			Misses:      stats.Misses,
			Evictions:   stats.Evictions,
			TotalKeys:   stats.TotalKeys,
			HitRate:     h.svc.Cache().HitRate(),
			LastCleanup: stats.LastCleanup,
		},
	})
}
