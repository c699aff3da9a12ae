// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package cache

import (
	"strings"
	"sync"
	"time"
)

// Fence orders cache fills against invalidations.
//
// A loader takes a Ticket before it reads the source and stores its result
// with Fill. Fill drops the value when an invalidation covering the key was
// recorded after the ticket, so a slow reader can never write a result that
// predates a concurrent write back into the cache.
//
// Invalidations are recorded before the backend entries are removed, and
// Fill re-checks after storing, so no lock is held across backend calls.
type Fence struct {
	c Cacher

	mu   sync.Mutex
	seq  uint64
	last map[string]uint64 // invalidated prefix -> seq at invalidation
}

// NewFence wraps c.
func NewFence(c Cacher) *Fence {
	return &Fence{c: c, last: make(map[string]uint64)}
}

// Ticket returns the current invalidation sequence.
func (f *Fence) Ticket() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// Fill stores value under key unless key was invalidated after ticket.
// It reports whether the value was kept.
func (f *Fence) Fill(key string, ticket uint64, value interface{}, ttl time.Duration) bool {
	if f.stale(key, ticket) {
		return false
	}
	f.c.SetWithTTL(key, value, ttl)
	if f.stale(key, ticket) {
		f.c.Delete(key)
		return false
	}
	return true
}

// Delete invalidates a single key.
func (f *Fence) Delete(key string) {
	f.record(key)
	f.c.Delete(key)
}

// DeletePrefix invalidates every key starting with prefix.
func (f *Fence) DeletePrefix(prefix string) int {
	f.record(prefix)
	return f.c.DeletePrefix(prefix)
}

// Clear invalidates every key.
func (f *Fence) Clear() {
	f.record("")
	f.c.Clear()
}

func (f *Fence) record(prefix string) {
	f.mu.Lock()
	f.seq++
	f.last[prefix] = f.seq
	f.mu.Unlock()
}

func (f *Fence) stale(key string, ticket uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for prefix, seq := range f.last {
		if seq > ticket && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
