// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/config"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
	"github.com/tomtom215/srkverse/internal/models"
)

const (
	// DefaultEnrichmentBaseURL is the public Spotify Web API root.
	DefaultEnrichmentBaseURL = "https://api.spotify.com/v1"

	// DefaultTokenURL is the Spotify accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	providerEnrichment = "spotify"

	// disambiguationToken is appended to every search query.
	disambiguationToken = "soundtrack"

	defaultRequestsPerSecond = 5
	defaultBurst             = 5
)

// Enricher looks up provider metadata for a track.
type Enricher interface {
	Enrich(ctx context.Context, trackTitle, catalogTitle string) (*models.TrackMetadata, error)
}

// EnrichmentClient searches a Spotify-compatible API using the OAuth2
// client-credentials flow.
//
// HTTP 429 responses are retried with exponential backoff (honouring
// Retry-After) up to maxAttempts total attempts, after which the error
// matches apperr.ErrRateLimitExceeded. Outbound calls are paced by a
// token-bucket limiter.
type EnrichmentClient struct {
	baseURL        string
	client         *http.Client
	tokens         oauth2.TokenSource
	limiter        *rate.Limiter
	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewEnrichmentClient creates an enrichment client. Missing credentials are
// not an error here; every Enrich call reports them instead.
func NewEnrichmentClient(cfg *config.EnrichmentConfig) *EnrichmentClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultEnrichmentBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
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
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	httpClient := &http.Client{Timeout: timeout}

	c := &EnrichmentClient{
		baseURL:        baseURL,
		client:         httpClient,
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts:    attempts,
		retryBaseDelay: delay,
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		// The token source outlives any single request.
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		c.tokens = cc.TokenSource(tokenCtx)
	}

	return c
}

// Configured reports whether credentials are present.
func (c *EnrichmentClient) Configured() bool {
	return c.tokens != nil
}

type searchResponse struct {
	Tracks struct {
		Items []providerTrack `json:"items"`
	} `json:"tracks"`
}

type providerTrack struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Popularity *int   `json:"popularity"`
	DurationMs *int64 `json:"duration_ms"`
}

// SearchQuery builds the provider query for a track of a catalog title.
func SearchQuery(trackTitle, catalogTitle string) string {
	return fmt.Sprintf("track:%q %s %s", trackTitle, catalogTitle, disambiguationToken)
}

// Enrich searches for trackTitle within catalogTitle and returns the first
// hit's metadata. Zero hits is apperr.ErrNotFound.
func (c *EnrichmentClient) Enrich(ctx context.Context, trackTitle, catalogTitle string) (*models.TrackMetadata, error) {
	if c.tokens == nil {
		metrics.RecordEnrichment("config_error")
		return nil, apperr.New(apperr.KindConfiguration, "enrichment provider credentials are not configured")
	}

	params := url.Values{}
	params.Set("q", SearchQuery(trackTitle, catalogTitle))
	params.Set("type", "track")
	params.Set("limit", "1")
	reqURL := c.baseURL + "/search?" + params.Encode()

	body, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordEnrichment(enrichmentOutcome(err))
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.RecordEnrichment("error")
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if len(resp.Tracks.Items) == 0 {
		metrics.RecordEnrichment("not_found")
		return nil, apperr.Newf(apperr.KindNotFound, "no provider match for track %q", trackTitle)
	}

	item := resp.Tracks.Items[0]
	metrics.RecordEnrichment("enriched")
	return &models.TrackMetadata{
		ExternalAudioReference: item.ID,
		Popularity:             item.Popularity,
		DurationSeconds:        durationSeconds(item.DurationMs),
	}, nil
}

// durationSeconds converts milliseconds to whole seconds, rounding down.
// An absent duration stays absent.
func durationSeconds(ms *int64) *int {
	if ms == nil {
		return nil
	}
	secs := 0
	if *ms > 0 {
		secs = int(*ms / 1000)
	}
	return &secs
}

func enrichmentOutcome(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindRateLimitExceeded:
		return "rate_limited"
	case apperr.KindConfiguration:
		return "config_error"
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindSourceUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

// bearerToken returns the current access token, fetching one if needed.
func (c *EnrichmentClient) bearerToken() (*oauth2.Token, error) {
	tok, err := c.tokens.Token()
	if err == nil {
		return tok, nil
	}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil &&
		re.Response.StatusCode >= 400 && re.Response.StatusCode < 500 {
		return nil, apperr.Wrap(apperr.KindConfiguration, err, "enrichment provider rejected client credentials")
	}
	return nil, apperr.Wrap(apperr.KindSourceUnavailable, err, "enrichment provider token endpoint unreachable")
}

// doRequestWithRateLimit performs an authorized GET, retrying HTTP 429 with
// exponential backoff. The context is used for cancellation during waits.
func (c *EnrichmentClient) doRequestWithRateLimit(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tok, err := c.bearerToken()
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		tok.SetAuthHeader(req)

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordProviderAttempt(providerEnrichment, "error")
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Includes the client timeout.
			return nil, apperr.Wrap(apperr.KindSourceUnavailable, err, "enrichment provider unreachable")
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}
			metrics.RecordProviderAttempt(providerEnrichment, "success")
			return data, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			metrics.RecordProviderAttempt(providerEnrichment, "retry")
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rate limited by provider (HTTP 429) on attempt %d", attempt+1)

			if attempt == c.maxAttempts-1 {
				continue
			}
			delay := retryAfterDelay(resp, backoffDelay(c.retryBaseDelay, attempt))
			logging.Warn().
				Int("attempt", attempt+1).
				Int("max_attempts", c.maxAttempts).
				Dur("delay", delay).
				Msg("Enrichment provider rate limited, backing off")
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			metrics.RecordProviderAttempt(providerEnrichment, "error")
			return nil, apperr.Wrap(apperr.KindConfiguration,
				fmt.Errorf("status %d: %s", resp.StatusCode, body),
				"enrichment provider rejected the access token")

		case resp.StatusCode >= 500:
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			metrics.RecordProviderAttempt(providerEnrichment, "error")
			return nil, apperr.Wrap(apperr.KindSourceUnavailable,
				fmt.Errorf("status %d: %s", resp.StatusCode, body),
				"enrichment provider unavailable")

		default:
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			metrics.RecordProviderAttempt(providerEnrichment, "error")
			return nil, fmt.Errorf("search request failed with status %d: %s", resp.StatusCode, body)
		}
	}

	return nil, apperr.Wrap(apperr.KindRateLimitExceeded, lastErr,
		fmt.Sprintf("enrichment provider rate limit exceeded after %d attempts", c.maxAttempts))
}

var _ Enricher = (*EnrichmentClient)(nil)
