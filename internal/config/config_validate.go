// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
	validCacheTypes = []string{"memory", "badger"}
)

// Validate checks that required configuration is present and valid.
//
// Provider credentials are deliberately not required here: the service runs
// without them and the clients report a configuration error on first use.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !contains(validCacheTypes, c.Cache.Type) {
		return fmt.Errorf("CACHE_TYPE must be one of %v, got %q", validCacheTypes, c.Cache.Type)
	}
	if c.Cache.Type == "badger" && c.Cache.BadgerPath == "" {
		return fmt.Errorf("CACHE_BADGER_PATH is required when CACHE_TYPE=badger")
	}
	ttls := map[string]int64{
		"CACHE_CATALOG_TTL": int64(c.Cache.CatalogTTL),
		"CACHE_QUERY_TTL":   int64(c.Cache.QueryTTL),
		"CACHE_QUOTE_TTL":   int64(c.Cache.QuoteTTL),
		"CACHE_VOTE_TTL":    int64(c.Cache.VoteTTL),
	}
	for name, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if err := validateServiceURL(c.Catalog.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if c.Catalog.PersonID <= 0 {
		return fmt.Errorf("TMDB_PERSON_ID must be positive, got %d", c.Catalog.PersonID)
	}
	if c.Catalog.MaxAttempts < 1 {
		return fmt.Errorf("TMDB_MAX_ATTEMPTS must be at least 1, got %d", c.Catalog.MaxAttempts)
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if err := validateServiceURL(c.Enrichment.BaseURL, "SPOTIFY_BASE_URL"); err != nil {
		return err
	}
	if err := validateServiceURL(c.Enrichment.TokenURL, "SPOTIFY_TOKEN_URL"); err != nil {
		return err
	}
	if c.Enrichment.MaxAttempts < 1 {
		return fmt.Errorf("SPOTIFY_MAX_ATTEMPTS must be at least 1, got %d", c.Enrichment.MaxAttempts)
	}
	if c.Enrichment.RequestsPerSec <= 0 {
		return fmt.Errorf("SPOTIFY_REQUESTS_PER_SEC must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	return nil
}

// validateServiceURL validates an http(s) API base URL. Unlike a bare host,
// provider base URLs carry a version path (/3, /v1) so paths are allowed.
func validateServiceURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
