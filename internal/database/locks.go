// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const maxWriteRetries = 3

// acquireKeyLock acquires a per-key mutex lock
func (db *DB) acquireKeyLock(key string) *sync.Mutex {
	muInterface, _ := db.keyLocks.LoadOrStore(key, &sync.Mutex{})
	mu, ok := muInterface.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		db.keyLocks.Store(key, mu)
	}
	mu.Lock()
	return mu
}

// releaseKeyLock releases the per-key mutex lock
func (db *DB) releaseKeyLock(mu *sync.Mutex) {
	mu.Unlock()
}

// withKeyedRetry runs fn under the lock for key and retries DuckDB
// transaction conflicts with exponential backoff (1ms, 2ms, 4ms).
// INTERNAL errors and every other error fail immediately.
func (db *DB) withKeyedRetry(ctx context.Context, key string, fn func(context.Context) error) error {
	mu := db.acquireKeyLock(key)
	defer db.releaseKeyLock(mu)

	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if isInternalError(err) {
			return fmt.Errorf("duckdb internal error: %w", err)
		}
		if !isTransactionConflict(err) {
			return err
		}
		if attempt < maxWriteRetries-1 {
			backoff := time.Millisecond * time.Duration(1<<uint(attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
