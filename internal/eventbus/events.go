// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package eventbus

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Topics published by the catalog service.
const (
	TopicCatalogReconciled = "catalog.reconciled"
	TopicVoteCast          = "vote.cast"
	TopicTrackCreated      = "track.created"
	TopicTrackEnriched     = "track.enriched"
	TopicTrackApproved     = "track.approved"
	TopicFanMessage        = "fan_message.received"
)

// AllTopics lists every topic, in a stable order.
var AllTopics = []string{
	TopicCatalogReconciled,
	TopicVoteCast,
	TopicTrackCreated,
	TopicTrackEnriched,
	TopicTrackApproved,
	TopicFanMessage,
}

// CatalogReconciled is published after a reconciliation merged at least one
// record.
type CatalogReconciled struct {
	Merged     int `json:"merged"`
	Candidates int `json:"candidates"`
}

// VoteCast is published after a vote was recorded.
type VoteCast struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	VoteCount  int64  `json:"vote_count"`
}

// TrackEvent is published for track lifecycle changes.
type TrackEvent struct {
	TrackID         string `json:"track_id"`
	MovieID         string `json:"movie_id"`
	Title           string `json:"title"`
	Popularity      *int   `json:"popularity,omitempty"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

// FanMessageReceived is published when a fan message is stored.
type FanMessageReceived struct {
	MessageID string `json:"message_id"`
	Name      string `json:"name"`
}

// Marshal encodes an event payload.
func Marshal(payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an event payload into T.
func Unmarshal[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &v, nil
}
