// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"net/http"

	"github.com/tomtom215/srkverse/internal/catalog"
)

// Quotes lists every quote.
func (h *Handler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.Quotes(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(quotes, len(quotes))
}

// RandomQuote returns one quote; 404 when there are none.
func (h *Handler) RandomQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.RandomQuote(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(quote)
}

// QuotesByTag lists quotes carrying {tag}.
func (h *Handler) QuotesByTag(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.QuotesByTag(r.Context(), pathParam(r, "tag"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(quotes, len(quotes))
}

// Awards lists every award.
func (h *Handler) Awards(w http.ResponseWriter, r *http.Request) {
	awards, err := h.svc.Awards(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(awards, len(awards))
}

// AwardsByYear lists awards won in {year}.
func (h *Handler) AwardsByYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	awards, err := h.svc.AwardsByYear(r.Context(), year)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(awards, len(awards))
}

// AwardsByType lists awards of the {type} category.
func (h *Handler) AwardsByType(w http.ResponseWriter, r *http.Request) {
	awards, err := h.svc.AwardsByCategory(r.Context(), pathParam(r, "type"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(awards, len(awards))
}

// Timeline lists every career event in chronological order.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Timeline(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(events, len(events))
}

// TimelineByYear lists career events in {year}.
func (h *Handler) TimelineByYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	events, err := h.svc.TimelineByYear(r.Context(), year)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(events, len(events))
}

// Debut returns the debut event.
func (h *Handler) Debut(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Debut(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(event)
}

// FavoriteMovieResults returns vote totals, highest first.
func (h *Handler) FavoriteMovieResults(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.VoteTotals(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(totals, len(totals))
}

// VoteFavoriteMovie records one vote and returns the updated tally.
func (h *Handler) VoteFavoriteMovie(w http.ResponseWriter, r *http.Request) {
	var in catalog.VoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteAppError(w, r, err)
		return
	}
	tally, err := h.svc.CastVote(r.Context(), in)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(tally)
}

// SubmitFanMessage stores a fan message.
func (h *Handler) SubmitFanMessage(w http.ResponseWriter, r *http.Request) {
	var in catalog.FanMessageInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteAppError(w, r, err)
		return
	}
	receipt, err := h.svc.SubmitMessage(r.Context(), in)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(receipt)
}

// Quiz returns a multiple-choice question built from a random quote.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	question, err := h.svc.Quiz(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(question)
}

// ValidateQuiz checks an answer to a quiz question.
func (h *Handler) ValidateQuiz(w http.ResponseWriter, r *http.Request) {
	var in catalog.QuizAnswerInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteAppError(w, r, err)
		return
	}
	result, err := h.svc.ValidateQuiz(r.Context(), in)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}
