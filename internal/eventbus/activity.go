// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/srkverse/internal/logging"
)

// DefaultActivityCapacity is the number of events ActivityLog retains.
const DefaultActivityCapacity = 200

// Activity is one consumed event.
type Activity struct {
	Topic      string          `json:"topic"`
	ReceivedAt time.Time       `json:"received_at"`
	RequestID  string          `json:"request_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// ActivityLog keeps the most recent events in a fixed-size ring.
type ActivityLog struct {
	mu    sync.RWMutex
	items []Activity
	next  int
	full  bool
	now   func() time.Time
}

// NewActivityLog creates a log holding at most capacity events.
func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityLog{
		items: make([]Activity, capacity),
		now:   time.Now,
	}
}

// Register subscribes the log to every topic on bus.
func (l *ActivityLog) Register(bus *Bus) {
	for _, topic := range AllTopics {
		bus.AddHandler("activity-log:"+topic, topic, l.Handle)
	}
}

// Handle records one event. It never fails.
func (l *ActivityLog) Handle(ctx context.Context, topic string, payload []byte) error {
	raw := make(json.RawMessage, len(payload))
	copy(raw, payload)

	entry := Activity{
		Topic:      topic,
		ReceivedAt: l.now().UTC(),
		RequestID:  logging.RequestIDFromContext(ctx),
		Payload:    raw,
	}

	l.mu.Lock()
	l.items[l.next] = entry
	l.next = (l.next + 1) % len(l.items)
	if l.next == 0 {
		l.full = true
	}
	l.mu.Unlock()

	logging.Ctx(ctx).Debug().Str("topic", topic).RawJSON("payload", raw).Msg("Catalog event")
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (l *ActivityLog) Recent(limit int) []Activity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	size := l.next
	if l.full {
		size = len(l.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Activity, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (l.next - 1 - i + len(l.items)) % len(l.items)
		out = append(out, l.items[idx])
	}
	return out
}
