// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/config"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
	"github.com/tomtom215/srkverse/internal/models"
)

const (
	// DefaultCatalogBaseURL is the public TMDb v3 API root.
	DefaultCatalogBaseURL = "https://api.themoviedb.org/3"

	// DefaultPersonID is the catalog person whose filmography is ingested.
	DefaultPersonID = 33488

	providerCatalog = "tmdb"

	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultHTTPTimeout    = 10 * time.Second

	// maxErrorBodySize limits how much of a failed response is read for diagnostics
	maxErrorBodySize = 64 * 1024

	// maxResponseBodySize bounds successful payloads
	maxResponseBodySize = 16 * 1024 * 1024
)

// CatalogSource is the read side of the external movie catalog.
type CatalogSource interface {
	FetchGenreTaxonomy(ctx context.Context) (map[int]string, error)
	FetchFilmography(ctx context.Context, personID int, taxonomy map[int]string) ([]models.Movie, error)
	FetchMovieDetails(ctx context.Context, externalID int64) (*models.Movie, error)
}

// CatalogClient talks to a TMDb-compatible HTTP API.
//
// Every call makes at most maxAttempts HTTP attempts. Network errors and
// 500/502/503/504 responses are retried with exponential backoff; when the
// budget is spent the error matches apperr.ErrSourceUnavailable.
type CatalogClient struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewCatalogClient creates a catalog client from configuration.
func NewCatalogClient(cfg *config.CatalogConfig) *CatalogClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultCatalogBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := cfg.RetryBaseDelay
	if delay <= 0 {
		delay = defaultRetryBaseDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &CatalogClient{
		baseURL:        baseURL,
		apiKey:         cfg.APIKey,
		language:       language,
		client:         &http.Client{Timeout: timeout},
		maxAttempts:    attempts,
		retryBaseDelay: delay,
	}
}

// Wire formats

type genreListResponse struct {
	Genres []tmdbGenre `json:"genres"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type movieCreditsResponse struct {
	Cast []castCredit `json:"cast"`
}

type castCredit struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	Overview    string   `json:"overview"`
	Character   string   `json:"character"`
	PosterPath  *string  `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	GenreIDs    []int    `json:"genre_ids"`
}

type movieDetailsResponse struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	ReleaseDate string      `json:"release_date"`
	Overview    string      `json:"overview"`
	PosterPath  *string     `json:"poster_path"`
	VoteAverage *float64    `json:"vote_average"`
	Genres      []tmdbGenre `json:"genres"`
}

// FetchGenreTaxonomy returns the provider's genre id to name mapping.
func (c *CatalogClient) FetchGenreTaxonomy(ctx context.Context) (map[int]string, error) {
	var resp genreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}

	taxonomy := make(map[int]string, len(resp.Genres))
	for _, g := range resp.Genres {
		taxonomy[g.ID] = g.Name
	}
	return taxonomy, nil
}

// FetchFilmography returns the cast credits of personID as catalog
// candidates, in provider order. Genre ids are resolved through taxonomy;
// unknown ids keep their decimal form.
func (c *CatalogClient) FetchFilmography(ctx context.Context, personID int, taxonomy map[int]string) ([]models.Movie, error) {
	var resp movieCreditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(resp.Cast))
	for i := range resp.Cast {
		movies = append(movies, mapCredit(&resp.Cast[i], taxonomy))
	}
	return movies, nil
}

// FetchMovieDetails returns one movie by provider id. The character role is
// not part of the details payload and is left empty.
func (c *CatalogClient) FetchMovieDetails(ctx context.Context, externalID int64) (*models.Movie, error) {
	var resp movieDetailsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", externalID), nil, &resp); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		labels = append(labels, g.Name)
	}
	id := resp.ID
	return &models.Movie{
		ExternalID:      &id,
		Title:           resp.Title,
		ReleaseYear:     parseReleaseYear(resp.ReleaseDate),
		Synopsis:        resp.Overview,
		PosterReference: derefString(resp.PosterPath),
		Rating:          resp.VoteAverage,
		GenreLabels:     labels,
	}, nil
}

func mapCredit(credit *castCredit, taxonomy map[int]string) models.Movie {
	labels := make([]string, 0, len(credit.GenreIDs))
	for _, id := range credit.GenreIDs {
		if name, ok := taxonomy[id]; ok {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, strconv.Itoa(id))
	}

	id := credit.ID
	return models.Movie{
		ExternalID:      &id,
		Title:           credit.Title,
		ReleaseYear:     parseReleaseYear(credit.ReleaseDate),
		Synopsis:        credit.Overview,
		CharacterRole:   credit.Character,
		PosterReference: derefString(credit.PosterPath),
		Rating:          credit.VoteAverage,
		GenreLabels:     labels,
	}
}

// parseReleaseYear takes the leading four digits of a release date.
// Missing, short or non-numeric input yields nil.
func parseReleaseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	for i := 0; i < 4; i++ {
		if date[i] < '0' || date[i] > '9' {
			return nil
		}
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

// getJSON performs a GET against path and decodes the body into out.
func (c *CatalogClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return apperr.New(apperr.KindConfiguration, "catalog API key is not configured")
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := c.baseURL + path + "?" + params.Encode()

	body, err := c.doRequestWithRetry(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode catalog response from %s: %w", path, err)
	}
	return nil
}

// doRequestWithRetry performs a GET with bounded retries on transient
// failures. Backoff doubles from retryBaseDelay and is cancellable.
func (c *CatalogClient) doRequestWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		body, retryable, err := c.attempt(ctx, reqURL)
		if err == nil {
			metrics.RecordProviderAttempt(providerCatalog, "success")
			return body, nil
		}
		if !retryable {
			metrics.RecordProviderAttempt(providerCatalog, "error")
			return nil, err
		}

		lastErr = err
		metrics.RecordProviderAttempt(providerCatalog, "retry")

		if attempt == c.maxAttempts-1 {
			break
		}

		delay := backoffDelay(c.retryBaseDelay, attempt)
		logging.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", c.maxAttempts).
			Dur("delay", delay).
			Msg("Catalog request failed, retrying")

		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, apperr.Wrap(apperr.KindSourceUnavailable, lastErr,
		fmt.Sprintf("external catalog unavailable after %d attempts", c.maxAttempts))
}

// attempt performs one HTTP round trip. retryable reports whether a failure
// is transient.
func (c *CatalogClient) attempt(ctx context.Context, reqURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		if err != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, false, nil
	case isRetryableStatus(resp.StatusCode):
		return nil, true, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, false, apperr.Wrap(apperr.KindConfiguration,
			fmt.Errorf("status %d: %s", resp.StatusCode, readBodyForError(resp.Body)),
			"catalog API key was rejected")
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, apperr.Wrap(apperr.KindNotFound,
			fmt.Errorf("status %d: %s", resp.StatusCode, readBodyForError(resp.Body)),
			"catalog resource not found")
	default:
		return nil, false, fmt.Errorf("catalog request failed with status %d: %s",
			resp.StatusCode, readBodyForError(resp.Body))
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Compile-time interface check
var _ CatalogSource = (*CatalogClient)(nil)
