// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package models

import (
	"strings"
	"time"
)

// Quote is a line of dialogue attributed to a movie.
type Quote struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	MovieTitle string   `json:"movie_title"`
	MovieYear  *int     `json:"movie_year,omitempty"`
	MovieID    string   `json:"movie_id,omitempty"`
	Context    string   `json:"context,omitempty"`
	Tags       []string `json:"tags"`
}

// HasTag reports whether tag is one of the quote's tags, compared
// case-insensitively. Partial tags do not match.
func (q *Quote) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Award is a recognition, optionally tied to a movie.
type Award struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	MovieTitle  string `json:"movie_title,omitempty"`
	MovieID     string `json:"movie_id,omitempty"`
}

// TimelineEvent is a dated career milestone.
type TimelineEvent struct {
	ID          string `json:"id"`
	Year        int    `json:"year"`
	Event       string `json:"event"`
	Description string `json:"description,omitempty"`
}

// VoteTally is the favourite-movie poll counter for one movie.
type VoteTally struct {
	MovieID    string    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	VoteCount  int64     `json:"vote_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FanMessage is a message submitted through the fan wall.
type FanMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// QuizQuestion asks which movie a quote is from. The answer is never sent.
type QuizQuestion struct {
	QuoteID  string   `json:"quote_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResult is the outcome of a quiz answer.
type QuizResult struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}
