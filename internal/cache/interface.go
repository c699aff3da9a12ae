// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package cache

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Cacher defines the interface for cache implementations.
// Both Cache (in-memory) and BadgerCache implement it.
type Cacher interface {
	// Get returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// DeletePrefix removes every key with the given prefix.
	DeletePrefix(prefix string) int

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64

	// Close releases background resources.
	Close() error
}

// CacheType represents the type of cache to create.
type CacheType string

const (
	// CacheTypeMemory is the in-memory TTL map (default).
	CacheTypeMemory CacheType = "memory"

	// CacheTypeBadger persists entries in BadgerDB so a restart does not
	// cold-start every query.
	CacheTypeBadger CacheType = "badger"
)

// CacheConfig holds configuration for creating a cache.
type CacheConfig struct {
	Type CacheType

	// TTL is the default time-to-live used by Set.
	TTL time.Duration

	// BadgerPath is the data directory for CacheTypeBadger. Empty means in-memory Badger.
	BadgerPath string

	// JanitorInterval controls expired-entry sweeps.
	JanitorInterval time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// NewCacher creates a cache based on the configuration.
//
// Example:
//
//	c, err := cache.NewCacher(cache.CacheConfig{Type: cache.CacheTypeMemory, TTL: time.Hour})
func NewCacher(cfg CacheConfig) (Cacher, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}

	switch cfg.Type {
	case CacheTypeBadger:
		return NewBadgerCache(cfg)
	case CacheTypeMemory, "":
		return New(cfg.TTL,
			WithName(string(CacheTypeMemory)),
			WithClock(cfg.Now),
			WithJanitorInterval(cfg.JanitorInterval),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// Fetch returns the value under key decoded as T. In-memory entries are
// returned as stored; persisted entries come back as JSON and are decoded.
// A value that cannot be converted is treated as a miss.
func Fetch[T any](c Cacher, key string) (T, bool) {
	var zero T
	raw, ok := c.Get(key)
	if !ok {
		return zero, false
	}

	switch v := raw.(type) {
	case T:
		return v, true
	case json.RawMessage:
		return decodeInto[T](v)
	case []byte:
		return decodeInto[T](v)
	default:
		return zero, false
	}
}

func decodeInto[T any](data []byte) (T, bool) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*BadgerCache)(nil)
)
