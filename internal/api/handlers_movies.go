// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"net/http"

	"github.com/tomtom215/srkverse/internal/catalog"
)

// Movies lists the whole catalog, ordered by release year.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.ListMovies(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(movies, len(movies))
}

// MoviesByYear lists movies released in {year}.
func (h *Handler) MoviesByYear(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	movies, err := h.svc.MoviesByYear(r.Context(), year)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(movies, len(movies))
}

// TopRatedMovies lists the highest rated movies.
func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.TopRated(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(movies, len(movies))
}

// MoviesByGenre lists movies carrying the {genre} label.
func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.MoviesByGenre(r.Context(), pathParam(r, "genre"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(movies, len(movies))
}

// MovieByTitle returns a single movie; 404 when the title is unknown.
func (h *Handler) MovieByTitle(w http.ResponseWriter, r *http.Request) {
	movie, err := h.svc.MovieByTitle(r.Context(), pathParam(r, "title"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(movie)
}

// MovieSongs lists the songs of {title}.
func (h *Handler) MovieSongs(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.svc.TracksForMovie(r.Context(), pathParam(r, "title"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(tracks, len(tracks))
}

// MovieQuotes lists quotes attributed to {title}.
func (h *Handler) MovieQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.svc.QuotesByMovie(r.Context(), pathParam(r, "title"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(quotes, len(quotes))
}

// Songs lists every song.
func (h *Handler) Songs(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.svc.Tracks(r.Context())
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(tracks, len(tracks))
}

// CreateSong stores a new song. Enrichment failures are reported as
// warnings in the response metadata; the song is still created.
func (h *Handler) CreateSong(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateTrackInput
	if err := decodeJSON(w, r, &in); err != nil {
		WriteAppError(w, r, err)
		return
	}
	res, err := h.svc.CreateTrack(r.Context(), in)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(res.Track, res.Warnings...)
}

// EnrichSong fetches provider metadata for an existing song.
func (h *Handler) EnrichSong(w http.ResponseWriter, r *http.Request) {
	var ref catalog.TrackRef
	if err := decodeJSON(w, r, &ref); err != nil {
		WriteAppError(w, r, err)
		return
	}
	track, err := h.svc.EnrichTrack(r.Context(), ref)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(track)
}

// ApproveSong marks a song as approved.
func (h *Handler) ApproveSong(w http.ResponseWriter, r *http.Request) {
	var ref catalog.TrackRef
	if err := decodeJSON(w, r, &ref); err != nil {
		WriteAppError(w, r, err)
		return
	}
	track, err := h.svc.ApproveTrack(r.Context(), ref)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(track)
}
