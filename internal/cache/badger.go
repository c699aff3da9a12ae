// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
)

const badgerCacheName = "badger"

// badgerEnvelope is the stored form of a value. ExpiresAt is checked against
// the cache clock on read; the Badger TTL only drives garbage collection.
type badgerEnvelope struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Data      json.RawMessage `json:"data"`
}

// BadgerCache implements Cacher on top of BadgerDB. Values are stored as
// JSON, so Get returns json.RawMessage; use Fetch for typed access.
type BadgerCache struct {
	db    *badger.DB
	ttl   time.Duration
	now   func() time.Time
	stats Stats

	closeOnce sync.Once
}

// NewBadgerCache opens (or creates) a Badger store at cfg.BadgerPath.
// An empty path opens an in-memory store.
func NewBadgerCache(cfg CacheConfig) (*BadgerCache, error) {
	opts := badger.DefaultOptions(cfg.BadgerPath)
	if cfg.BadgerPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &BadgerCache{db: db, ttl: ttl, now: now}, nil
}

// Get returns the stored JSON for key if it has not expired.
func (b *BadgerCache) Get(key string) (interface{}, bool) {
	var env badgerEnvelope
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &env)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Badger cache read failed")
		}
		b.recordMiss()
		return nil, false
	}

	if !b.now().Before(env.ExpiresAt) {
		b.Delete(key)
		b.recordMiss()
		return nil, false
	}

	b.recordHit()
	return env.Data, true
}

// Set stores a value with the default TTL.
func (b *BadgerCache) Set(key string, value interface{}) {
	b.SetWithTTL(key, value, b.ttl)
}

// SetWithTTL stores value as JSON. Values that cannot be encoded are
// skipped; a cache write never fails the caller.
func (b *BadgerCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache encode failed")
		return
	}
	env, err := json.Marshal(badgerEnvelope{ExpiresAt: b.now().Add(ttl), Data: data})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache encode failed")
		return
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), env)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache write failed")
	}
}

// Delete removes a value from the cache.
func (b *BadgerCache) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Badger cache delete failed")
		return
	}
	b.recordEviction(1)
}

// DeletePrefix removes every key starting with prefix.
func (b *BadgerCache) DeletePrefix(prefix string) int {
	var removed int
	err := b.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var keys [][]byte
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Str("prefix", prefix).Msg("Badger cache prefix delete failed")
		return 0
	}
	b.recordEviction(int64(removed))
	return removed
}

// Clear drops every key.
func (b *BadgerCache) Clear() {
	if err := b.db.DropAll(); err != nil {
		logging.Warn().Err(err).Msg("Badger cache clear failed")
	}
}

// GetStats returns cache statistics.
func (b *BadgerCache) GetStats() Stats {
	b.stats.mu.RLock()
	defer b.stats.mu.RUnlock()

	return Stats{
		Hits:      b.stats.Hits,
		Misses:    b.stats.Misses,
		Evictions: b.stats.Evictions,
		TotalKeys: b.stats.TotalKeys,
	}
}

// HitRate returns the cache hit rate as a percentage.
func (b *BadgerCache) HitRate() float64 {
	return hitRate(b.GetStats())
}

// Close closes the underlying database.
func (b *BadgerCache) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = b.db.Close()
	})
	return err
}

func (b *BadgerCache) recordHit() {
	b.stats.mu.Lock()
	b.stats.Hits++
	b.stats.mu.Unlock()
	metrics.CacheHits.WithLabelValues(badgerCacheName).Inc()
}

func (b *BadgerCache) recordMiss() {
	b.stats.mu.Lock()
	b.stats.Misses++
	b.stats.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(badgerCacheName).Inc()
}

func (b *BadgerCache) recordEviction(n int64) {
	if n <= 0 {
		return
	}
	b.stats.mu.Lock()
	b.stats.Evictions += n
	b.stats.mu.Unlock()
	metrics.CacheEvictions.WithLabelValues(badgerCacheName).Add(float64(n))
}
