// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
	"github.com/tomtom215/srkverse/internal/models"
)

const catalogBreakerName = "catalog-api"

// CircuitBreakerCatalogClient wraps a CatalogSource with a circuit breaker.
// Only source-unavailable failures count against the breaker; configuration
// and not-found errors pass through without tripping it. An open breaker is
// reported as apperr.ErrSourceUnavailable.
//
// The breaker uses real time for its interval and timeout; tests drive
// execute directly rather than waiting on the clock.
type CircuitBreakerCatalogClient struct {
	source CatalogSource
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerCatalogClient wraps source.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
func NewCircuitBreakerCatalogClient(source CatalogSource) *CircuitBreakerCatalogClient {
	name := catalogBreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, apperr.ErrSourceUnavailable)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerCatalogClient{
		source: source,
		cb:     cb,
		name:   name,
	}
}

// execute runs fn under the breaker and records metrics.
func (cbc *CircuitBreakerCatalogClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, apperr.Wrap(apperr.KindSourceUnavailable, err, "external catalog unavailable (circuit open)")
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// State returns the breaker state name.
func (cbc *CircuitBreakerCatalogClient) State() string {
	return stateToString(cbc.cb.State())
}

// FetchGenreTaxonomy fetches the genre taxonomy with circuit breaker protection
func (cbc *CircuitBreakerCatalogClient) FetchGenreTaxonomy(ctx context.Context) (map[int]string, error) {
	return castResult[map[int]string](cbc.execute(func() (interface{}, error) {
		return cbc.source.FetchGenreTaxonomy(ctx)
	}))
}

// FetchFilmography fetches a filmography with circuit breaker protection
func (cbc *CircuitBreakerCatalogClient) FetchFilmography(ctx context.Context, personID int, taxonomy map[int]string) ([]models.Movie, error) {
	return castResult[[]models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.source.FetchFilmography(ctx, personID, taxonomy)
	}))
}

// FetchMovieDetails fetches one movie with circuit breaker protection
func (cbc *CircuitBreakerCatalogClient) FetchMovieDetails(ctx context.Context, externalID int64) (*models.Movie, error) {
	return castResult[*models.Movie](cbc.execute(func() (interface{}, error) {
		return cbc.source.FetchMovieDetails(ctx, externalID)
	}))
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var _ CatalogSource = (*CircuitBreakerCatalogClient)(nil)
