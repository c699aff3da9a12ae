// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package services

import (
	"context"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/models"
)

// CatalogSyncer runs one catalog ingestion pass. Satisfied by *catalog.Ingestor.
type CatalogSyncer interface {
	Sync(ctx context.Context) (*models.SyncResult, error)
}

// IngestService runs catalog syncs on startup and on a fixed interval.
//
// A failed run is logged and the schedule continues; the local catalog keeps
// serving whatever it already holds. With a zero interval and onStartup off
// the service idles until shutdown, leaving syncs to the admin endpoint.
type IngestService struct {
	syncer    CatalogSyncer
	interval  time.Duration
	onStartup bool
	name      string
}

// NewIngestService creates a scheduled sync service.
func NewIngestService(syncer CatalogSyncer, interval time.Duration, onStartup bool) *IngestService {
	return &IngestService{
		syncer:    syncer,
		interval:  interval,
		onStartup: onStartup,
		name:      "catalog-ingest",
	}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	if s.onStartup {
		s.runOnce(ctx)
	}

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *IngestService) runOnce(ctx context.Context) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx)

	result, err := s.syncer.Sync(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error().
			Str("kind", string(apperr.KindOf(err))).
			Str("reason", apperr.MessageOf(err)).
			Msg("Scheduled catalog sync failed")
		return
	}

	logger.Info().
		Int("fetched", result.Fetched).
		Int("merged", result.Merged).
		Int("total", result.Total).
		Bool("fallback", result.Fallback).
		Msg("Scheduled catalog sync finished")
}

// String implements fmt.Stringer.
func (s *IngestService) String() string {
	return s.name
}
