// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/config"
)

// fakeProvider serves a token endpoint and a search endpoint.
type fakeProvider struct {
	server         *httptest.Server
	tokenStatus    int
	searchStatuses []int // consumed in order; the last one repeats
	searchBody     string
	tokenCalls     atomic.Int32
	searchCalls    atomic.Int32
	lastQuery      atomic.Value
	lastAuth       atomic.Value
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{tokenStatus: http.StatusOK, searchStatuses: []int{http.StatusOK}}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			p.tokenCalls.Add(1)
			if p.tokenStatus != http.StatusOK {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(p.tokenStatus)
				_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
		case "/search":
			n := int(p.searchCalls.Add(1))
			p.lastQuery.Store(r.URL.Query())
			p.lastAuth.Store(r.Header.Get("Authorization"))
			status := p.searchStatuses[len(p.searchStatuses)-1]
			if n <= len(p.searchStatuses) {
				status = p.searchStatuses[n-1]
			}
			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			_, _ = w.Write([]byte(p.searchBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) client(id, secret string) *EnrichmentClient {
	return NewEnrichmentClient(&config.EnrichmentConfig{
		BaseURL:        p.server.URL,
		TokenURL:       p.server.URL + "/token",
		ClientID:       id,
		ClientSecret:   secret,
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
		Timeout:        5 * time.Second,
		RequestsPerSec: 1000,
		Burst:          10,
	})
}

const tujheDekhaToFixture = `{"tracks":{"items":[{"id":"4x7tDk","uri":"spotify:track:4x7tDk","name":"Tujhe Dekha To","popularity":85,"duration_ms":300000}]}}`

func TestEnrich_ReturnsFirstItemMetadata(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = tujheDekhaToFixture

	meta, err := p.client("id", "secret").Enrich(context.Background(), "Tujhe Dekha To", "Dilwale Dulhania Le Jayenge")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if meta.ExternalAudioReference != "4x7tDk" {
		t.Errorf("reference = %q", meta.ExternalAudioReference)
	}
	if meta.Popularity == nil || *meta.Popularity != 85 {
		t.Errorf("popularity = %v", meta.Popularity)
	}
	if meta.DurationSeconds == nil || *meta.DurationSeconds != 300 {
		t.Errorf("duration = %v", meta.DurationSeconds)
	}

	q, ok := p.lastQuery.Load().(url.Values)
	if !ok {
		t.Fatal("no search query recorded")
	}
	if got := q.Get("q"); got != `track:"Tujhe Dekha To" Dilwale Dulhania Le Jayenge soundtrack` {
		t.Errorf("q = %q", got)
	}
	if q.Get("type") != "track" || q.Get("limit") != "1" {
		t.Errorf("type=%q limit=%q", q.Get("type"), q.Get("limit"))
	}
	if auth, _ := p.lastAuth.Load().(string); auth != "Bearer test-token" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestEnrich_TokenIsReused(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = tujheDekhaToFixture
	client := p.client("id", "secret")

	for i := 0; i < 3; i++ {
		if _, err := client.Enrich(context.Background(), "Tujhe Dekha To", "DDLJ"); err != nil {
			t.Fatalf("Enrich: %v", err)
		}
	}
	if got := p.tokenCalls.Load(); got != 1 {
		t.Errorf("expected one token request, got %d", got)
	}
}

func TestEnrich_RateLimitRetryBound(t *testing.T) {
	p := newFakeProvider(t)
	p.searchStatuses = []int{http.StatusTooManyRequests}

	_, err := p.client("id", "secret").Enrich(context.Background(), "Chaiyya Chaiyya", "Dil Se")
	if !errors.Is(err, apperr.ErrRateLimitExceeded) {
		t.Fatalf("expected rate limit exceeded, got %v", err)
	}
	if got := p.searchCalls.Load(); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestEnrich_RecoversAfter429(t *testing.T) {
	p := newFakeProvider(t)
	p.searchStatuses = []int{http.StatusTooManyRequests, http.StatusOK}
	p.searchBody = tujheDekhaToFixture

	meta, err := p.client("id", "secret").Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if meta.Popularity == nil || *meta.Popularity != 85 {
		t.Errorf("popularity = %v", meta.Popularity)
	}
	if got := p.searchCalls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestEnrich_MissingCredentials(t *testing.T) {
	p := newFakeProvider(t)

	for _, creds := range [][2]string{{"", ""}, {"id", ""}, {"", "secret"}} {
		client := p.client(creds[0], creds[1])
		if client.Configured() {
			t.Errorf("%v: expected unconfigured client", creds)
		}
		_, err := client.Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
		if !errors.Is(err, apperr.ErrConfiguration) {
			t.Errorf("%v: expected configuration error, got %v", creds, err)
		}
	}
	if p.tokenCalls.Load() != 0 || p.searchCalls.Load() != 0 {
		t.Error("no request should be made without credentials")
	}
}

func TestEnrich_RejectedCredentials(t *testing.T) {
	p := newFakeProvider(t)
	p.tokenStatus = http.StatusUnauthorized

	_, err := p.client("id", "wrong").Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if p.searchCalls.Load() != 0 {
		t.Error("search should not run after token rejection")
	}
	if strings.Contains(apperr.MessageOf(err), "invalid_client") {
		t.Error("provider response body should not leak into the message")
	}
}

func TestEnrich_NoMatch(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = `{"tracks":{"items":[]}}`

	_, err := p.client("id", "secret").Enrich(context.Background(), "Unknown Song", "DDLJ")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEnrich_AbsentFieldsStayNil(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = `{"tracks":{"items":[{"id":"4x7tDk","name":"Tujhe Dekha To"}]}}`

	meta, err := p.client("id", "secret").Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if meta.Popularity != nil {
		t.Errorf("popularity = %d, want nil", *meta.Popularity)
	}
	if meta.DurationSeconds != nil {
		t.Errorf("duration = %d, want nil", *meta.DurationSeconds)
	}
}

func TestEnrich_ZeroPopularityIsKept(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = `{"tracks":{"items":[{"id":"4x7tDk","popularity":0,"duration_ms":0}]}}`

	meta, err := p.client("id", "secret").Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if meta.Popularity == nil || *meta.Popularity != 0 {
		t.Errorf("popularity = %v, want 0", meta.Popularity)
	}
	if meta.DurationSeconds == nil || *meta.DurationSeconds != 0 {
		t.Errorf("duration = %v, want 0", meta.DurationSeconds)
	}
}

func TestEnrich_ServerErrorIsSourceUnavailable(t *testing.T) {
	for _, status := range []int{500, 502, 503, 504} {
		p := newFakeProvider(t)
		p.searchStatuses = []int{status}

		_, err := p.client("id", "secret").Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
		if !errors.Is(err, apperr.ErrSourceUnavailable) {
			t.Errorf("status %d: expected source unavailable, got %v", status, err)
		}
		if got := p.searchCalls.Load(); got != 1 {
			t.Errorf("status %d: expected a single attempt, got %d", status, got)
		}
	}
}

func TestEnrich_TimeoutIsSourceUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
			return
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := NewEnrichmentClient(&config.EnrichmentConfig{
		BaseURL:        server.URL,
		TokenURL:       server.URL + "/token",
		ClientID:       "id",
		ClientSecret:   "secret",
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
		Timeout:        50 * time.Millisecond,
		RequestsPerSec: 1000,
		Burst:          10,
	})

	_, err := client.Enrich(context.Background(), "Tujhe Dekha To", "DDLJ")
	if !errors.Is(err, apperr.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestEnrich_CanceledContextIsNotSourceUnavailable(t *testing.T) {
	p := newFakeProvider(t)
	p.searchBody = tujheDekhaToFixture

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.client("id", "secret").Enrich(ctx, "Tujhe Dekha To", "DDLJ")
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
	if errors.Is(err, apperr.ErrSourceUnavailable) {
		t.Errorf("cancellation should not read as an outage: %v", err)
	}
}

func TestDurationSeconds_Floor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ms   int64
		want int
	}{
		{300000, 300},
		{300499, 300},
		{300999, 300},
		{999, 0},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		got := durationSeconds(&tt.ms)
		if got == nil || *got != tt.want {
			t.Errorf("durationSeconds(%d) = %v, want %d", tt.ms, got, tt.want)
		}
	}
	if durationSeconds(nil) != nil {
		t.Error("absent duration should stay nil")
	}
}
