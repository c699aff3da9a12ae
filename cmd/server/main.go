// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/srkverse/internal/api"
	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/catalog"
	"github.com/tomtom215/srkverse/internal/config"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/supervisor"
	"github.com/tomtom215/srkverse/internal/supervisor/services"
	syncpkg "github.com/tomtom215/srkverse/internal/sync"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting SRKVerse with supervisor tree")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache_type", cfg.Cache.Type).
		Int("person_id", cfg.Catalog.PersonID).
		Bool("catalog_configured", cfg.Catalog.APIKey != "").
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	store, err := cache.NewCacher(cacheConfigFrom(&cfg.Cache))
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Str("type", cfg.Cache.Type).Msg("Failed to initialize cache")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	bus, err := eventbus.New(eventbus.DefaultConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	activity := eventbus.NewActivityLog(eventbus.DefaultActivityCapacity)
	activity.Register(bus)

	// Catalog provider behind a circuit breaker; enrichment is optional.
	breaker := syncpkg.NewCircuitBreakerCatalogClient(syncpkg.NewCatalogClient(&cfg.Catalog))
	enricher := syncpkg.NewEnrichmentClient(&cfg.Enrichment)

	svc := catalog.NewService(db, store, serviceOptions(cfg, bus, enricher)...)
	ingestor := catalog.NewIngestor(breaker, svc, cfg.Catalog.PersonID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := seedContent(ctx, svc, &cfg.Seed); err != nil {
		logging.Error().Err(err).Msg("Seed loading failed, continuing with existing content")
	}

	// Create structured logger for supervisor using our slog adapter
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(db, svc,
		api.WithIngestor(ingestor),
		api.WithActivityLog(activity),
		api.WithBreaker(breaker),
	)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === REGISTER SERVICES ===

	tree.AddEventService(services.NewEventBusService(bus))
	logging.Info().Int("handlers", bus.HandlerCount()).Msg("Event bus service added")

	if cfg.Catalog.APIKey != "" {
		tree.AddIngestService(services.NewIngestService(ingestor, cfg.Sync.Interval, cfg.Sync.OnStartup))
		logging.Info().
			Dur("interval", cfg.Sync.Interval).
			Bool("on_startup", cfg.Sync.OnStartup).
			Msg("Catalog ingest service added")
	} else {
		logging.Info().Msg("Scheduled catalog sync disabled (TMDB_API_KEY not set)")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers exactly one value when the tree exits.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
