// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/srkverse/config.yaml",
	"/etc/srkverse/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all defaults applied.
// These are loaded first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/srkverse.duckdb",
			MaxMemory: "512MB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Cache: CacheConfig{
			Type:        "memory",
			BadgerPath:  "/data/cache",
			CatalogTTL:  time.Hour,
			QueryTTL:    time.Hour,
			QuoteTTL:    10 * time.Minute,
			VoteTTL:     10 * time.Minute,
			JanitorTick: 5 * time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			PersonID:       33488,
			Language:       "en-US",
			MaxAttempts:    3,
			RetryBaseDelay: 500 * time.Millisecond,
			Timeout:        10 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			BaseURL:        "https://api.spotify.com/v1",
			TokenURL:       "https://accounts.spotify.com/api/token",
			MaxAttempts:    3,
			RetryBaseDelay: time.Second,
			Timeout:        10 * time.Second,
			RequestsPerSec: 5,
			Burst:          5,
		},
		Seed: SeedConfig{
			Enabled: true,
			Dir:     "data/seed",
		},
		Sync: SyncConfig{
			OnStartup: false,
			Interval:  24 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration in three layers: struct defaults, the
// optional YAML file, then mapped environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// TMDB_API_KEY -> catalog.api_key, SPOTIFY_CLIENT_ID -> enrichment.client_id
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated strings (from env) into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Cache
	"cache_type":             "cache.type",
	"cache_badger_path":      "cache.badger_path",
	"cache_catalog_ttl":      "cache.catalog_ttl",
	"cache_query_ttl":        "cache.query_ttl",
	"cache_quote_ttl":        "cache.quote_ttl",
	"cache_vote_ttl":         "cache.vote_ttl",
	"cache_janitor_interval": "cache.janitor_interval",

	// Catalog provider
	"tmdb_base_url":         "catalog.base_url",
	"tmdb_api_key":          "catalog.api_key",
	"tmdb_person_id":        "catalog.person_id",
	"tmdb_language":         "catalog.language",
	"tmdb_max_attempts":     "catalog.max_attempts",
	"tmdb_retry_base_delay": "catalog.retry_base_delay",
	"tmdb_timeout":          "catalog.timeout",

	// Enrichment provider
	"spotify_base_url":         "enrichment.base_url",
	"spotify_token_url":        "enrichment.token_url",
	"spotify_client_id":        "enrichment.client_id",
	"spotify_client_secret":    "enrichment.client_secret",
	"spotify_max_attempts":     "enrichment.max_attempts",
	"spotify_retry_base_delay": "enrichment.retry_base_delay",
	"spotify_timeout":          "enrichment.timeout",
	"spotify_requests_per_sec": "enrichment.requests_per_second",
	"spotify_burst":            "enrichment.burst",

	// Seed data
	"seed_enabled": "seed.enabled",
	"seed_dir":     "seed.dir",

	// Sync scheduling
	"sync_on_startup": "sync.on_startup",
	"sync_interval":   "sync.interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf paths.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
