// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

// Package config loads SRKVerse configuration from defaults, an optional YAML
// file and environment variables (highest priority) using koanf v2.
package config

import "time"

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Cache      CacheConfig      `koanf:"cache"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Seed       SeedConfig       `koanf:"seed"`
	Sync       SyncConfig       `koanf:"sync"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// CacheConfig holds cache backend and TTL settings.
//
// Type selects the backend: "memory" (in-process map) or "badger"
// (persistent, survives restarts).
type CacheConfig struct {
	Type        string        `koanf:"type"`
	BadgerPath  string        `koanf:"badger_path"`
	CatalogTTL  time.Duration `koanf:"catalog_ttl"`
	QueryTTL    time.Duration `koanf:"query_ttl"`
	QuoteTTL    time.Duration `koanf:"quote_ttl"`
	VoteTTL     time.Duration `koanf:"vote_ttl"`
	JanitorTick time.Duration `koanf:"janitor_interval"`
}

// CatalogConfig holds external movie catalog (TMDb) settings
type CatalogConfig struct {
	BaseURL        string        `koanf:"base_url"`
	APIKey         string        `koanf:"api_key"`
	PersonID       int           `koanf:"person_id"`
	Language       string        `koanf:"language"`
	MaxAttempts    int           `koanf:"max_attempts"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	Timeout        time.Duration `koanf:"timeout"`
}

// EnrichmentConfig holds music metadata provider (Spotify) settings
type EnrichmentConfig struct {
	BaseURL        string        `koanf:"base_url"`
	TokenURL       string        `koanf:"token_url"`
	ClientID       string        `koanf:"client_id"`
	ClientSecret   string        `koanf:"client_secret"`
	MaxAttempts    int           `koanf:"max_attempts"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	Timeout        time.Duration `koanf:"timeout"`
	RequestsPerSec float64       `koanf:"requests_per_second"`
	Burst          int           `koanf:"burst"`
}

// SeedConfig holds static seed data settings
type SeedConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// SyncConfig holds catalog ingestion scheduling
type SyncConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"`
}

// SecurityConfig holds HTTP hardening settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
