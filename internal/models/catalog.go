// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package models

import (
	"strings"
	"time"
)

// Movie is a catalog record. ExternalID is the movie catalog provider's id
// and is the identity key when present; locally created records (seeded
// tracks whose movie was never fetched) fall back to (title, release year).
type Movie struct {
	ID              string    `json:"id"`
	ExternalID      *int64    `json:"external_id,omitempty"`
	Title           string    `json:"title"`
	ReleaseYear     *int      `json:"release_year"`
	Synopsis        string    `json:"synopsis"`
	CharacterRole   string    `json:"character_role"`
	PosterReference string    `json:"poster_reference"`
	Rating          *float64  `json:"rating"`
	GenreLabels     []string  `json:"genre_labels"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasGenre reports whether genre is one of the genre labels, compared
// case-insensitively. Partial labels do not match.
func (m *Movie) HasGenre(genre string) bool {
	for _, label := range m.GenreLabels {
		if strings.EqualFold(label, genre) {
			return true
		}
	}
	return false
}

// Track approval states
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
)

// Track is a song owned by a Movie. (Title, MovieID) is unique.
//
// The three nullable metadata fields are only ever written by enrichment;
// ApprovalState is only ever written by the approval action.
type Track struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	MovieID                string    `json:"movie_id"`
	MovieTitle             string    `json:"movie_title,omitempty"`
	Composer               string    `json:"composer"`
	Lyricist               string    `json:"lyricist"`
	ExternalAudioReference *string   `json:"external_audio_reference"`
	Popularity             *int      `json:"popularity"`
	DurationSeconds        *int      `json:"duration_seconds"`
	ApprovalState          string    `json:"approval_state"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TrackMetadata is what the music provider contributes to a Track.
// Popularity and DurationSeconds are nil when the provider omits them.
type TrackMetadata struct {
	ExternalAudioReference string `json:"external_audio_reference"`
	Popularity             *int   `json:"popularity"`
	DurationSeconds        *int   `json:"duration_seconds"`
}

// SyncResult summarises one catalog ingestion run.
type SyncResult struct {
	Fetched    int       `json:"fetched"`
	Merged     int       `json:"merged"`
	Total      int       `json:"total"`
	Fallback   bool      `json:"fallback"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}
