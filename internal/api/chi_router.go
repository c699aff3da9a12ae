// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/srkverse/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil ChiMiddleware uses the defaults.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID plus logging context
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).MethodNotAllowed()
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// ========================
	// Catalog API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", h.Movies)
			r.Get("/year/{year}", h.MoviesByYear)
			r.Get("/top-rated", h.TopRatedMovies)
			r.Get("/genre/{genre}", h.MoviesByGenre)
			r.Get("/{title}", h.MovieByTitle)
			r.Get("/{title}/songs", h.MovieSongs)
			r.Get("/{title}/quotes", h.MovieQuotes)
		})

		r.Route("/songs", func(r chi.Router) {
			r.Get("/", h.Songs)
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitWrite())
				r.Post("/", h.CreateSong)
				r.Post("/enrich", h.EnrichSong)
				r.Post("/approve", h.ApproveSong)
			})
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", h.Quotes)
			r.Get("/random", h.RandomQuote)
			r.Get("/tag/{tag}", h.QuotesByTag)
		})

		r.Route("/awards", func(r chi.Router) {
			r.Get("/", h.Awards)
			r.Get("/year/{year}", h.AwardsByYear)
			r.Get("/type/{type}", h.AwardsByType)
		})

		r.Route("/timeline", func(r chi.Router) {
			r.Get("/", h.Timeline)
			r.Get("/year/{year}", h.TimelineByYear)
			r.Get("/debut", h.Debut)
		})

		r.Get("/polls/favorite-movie", h.FavoriteMovieResults)
		r.Get("/quiz", h.Quiz)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/polls/favorite-movie/vote", h.VoteFavoriteMovie)
			r.Post("/fan-messages", h.SubmitFanMessage)
			r.Post("/quiz/validate", h.ValidateQuiz)
		})

		// ========================
		// Admin Endpoints
		// ========================
		r.Route("/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitSync())
				r.Post("/sync", h.TriggerSync)
				r.Post("/sync/{externalID}", h.SyncMovie)
			})
			r.Post("/cache/clear", h.ClearCache)
			r.Get("/events", h.RecentEvents)
			r.Get("/fan-messages", h.FanMessages)
			r.Get("/stats", h.Stats)
		})
	})

	// ========================
	// Prometheus Metrics
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
