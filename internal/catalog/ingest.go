// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
	"github.com/tomtom215/srkverse/internal/models"
	syncpkg "github.com/tomtom215/srkverse/internal/sync"
)

// Ingestor pulls a filmography from the external catalog and reconciles it
// into the local store. Runs are serialized.
type Ingestor struct {
	source     syncpkg.CatalogSource
	reconciler *Reconciler
	svc        *Service
	personID   int

	mu   sync.Mutex
	last *models.SyncResult
}

// NewIngestor creates an ingestor for personID's filmography.
func NewIngestor(source syncpkg.CatalogSource, svc *Service, personID int) *Ingestor {
	if personID <= 0 {
		personID = syncpkg.DefaultPersonID
	}
	return &Ingestor{
		source:     source,
		reconciler: NewReconciler(svc),
		svc:        svc,
		personID:   personID,
	}
}

// Sync runs one ingestion: taxonomy, filmography, reconcile.
//
// When the external catalog is unavailable the local store is left as is
// and the result is marked Fallback with the current local count; that case
// is not an error. Any other failure is returned.
func (i *Ingestor) Sync(ctx context.Context) (*models.SyncResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	log := logging.Ctx(ctx)
	result := &models.SyncResult{StartedAt: time.Now().UTC()}

	merged, fetched, err := i.fetchAndMerge(ctx)
	result.Fetched = fetched
	result.Merged = merged
	result.DurationMs = time.Since(result.StartedAt).Milliseconds()
	duration := time.Since(result.StartedAt)

	if err != nil {
		kind := apperr.KindOf(err)
		metrics.RecordSyncRun(duration, merged, string(kind))
		if !errors.Is(err, apperr.ErrSourceUnavailable) {
			log.Error().Err(err).Msg("Catalog sync failed")
			return nil, err
		}

		log.Warn().Err(err).Msg("External catalog unavailable, serving local catalog")
		result.Fallback = true
		result.Reason = apperr.MessageOf(err)
	} else {
		metrics.RecordSyncRun(duration, merged, "")
	}

	total, err := i.svc.db.CountMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}
	result.Total = total

	log.Info().
		Int("fetched", result.Fetched).
		Int("merged", result.Merged).
		Int("total", result.Total).
		Bool("fallback", result.Fallback).
		Int64("duration_ms", result.DurationMs).
		Msg("Catalog sync finished")

	i.last = result
	return result, nil
}

func (i *Ingestor) fetchAndMerge(ctx context.Context) (merged, fetched int, err error) {
	taxonomy, err := i.source.FetchGenreTaxonomy(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch genre taxonomy: %w", err)
	}

	candidates, err := i.source.FetchFilmography(ctx, i.personID, taxonomy)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch filmography: %w", err)
	}

	merged, err = i.reconciler.Upsert(ctx, candidates)
	return merged, len(candidates), err
}

// SyncMovie fetches one movie by provider id and reconciles it.
//
// The details payload carries no character role, so an existing role is
// kept rather than cleared.
func (i *Ingestor) SyncMovie(ctx context.Context, externalID int64) (*models.Movie, error) {
	if externalID <= 0 {
		return nil, apperr.New(apperr.KindValidation, "external id must be a positive integer")
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	candidate, err := i.source.FetchMovieDetails(ctx, externalID)
	if err != nil {
		return nil, err
	}

	existing, err := i.svc.db.GetMovieByExternalID(ctx, externalID)
	switch {
	case err == nil:
		if candidate.CharacterRole == "" {
			candidate.CharacterRole = existing.CharacterRole
		}
	case errors.Is(err, database.ErrMovieNotFound):
	default:
		return nil, err
	}

	if _, err := i.reconciler.Upsert(ctx, []models.Movie{*candidate}); err != nil {
		return nil, err
	}

	m, err := i.svc.db.GetMovieByExternalID(ctx, externalID)
	return m, translate(err)
}

// LastResult returns the most recent Sync result, or nil before the first run.
func (i *Ingestor) LastResult() *models.SyncResult {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}
