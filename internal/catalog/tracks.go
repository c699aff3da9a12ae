// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"strings"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/models"
)

// tracksQueryPrefix covers every cached track listing.
const tracksQueryPrefix = cache.PrefixQuery + "tracks"

// CreateTrackInput is a new song submission.
type CreateTrackInput struct {
	Title                  string `json:"title" validate:"required,notblank,max=300"`
	MovieTitle             string `json:"movie" validate:"required,notblank,max=300"`
	Composer               string `json:"composer" validate:"max=300"`
	Lyricist               string `json:"lyricist" validate:"max=300"`
	ExternalAudioReference string `json:"external_audio_reference" validate:"max=500"`
	Enrich                 bool   `json:"enrich"`
}

// TrackRef names a track by its movie and title.
type TrackRef struct {
	MovieTitle string `json:"movie" validate:"required,notblank,max=300"`
	Title      string `json:"title" validate:"required,notblank,max=300"`
}

// CreateTrackResult is a created track plus non-fatal enrichment problems.
type CreateTrackResult struct {
	Track    *models.Track `json:"track"`
	Warnings []string      `json:"warnings,omitempty"`
}

// CreateTrack stores a pending track for an existing movie. With Enrich set,
// provider metadata is fetched after the insert; a provider failure becomes
// a warning because the track itself was created.
func (s *Service) CreateTrack(ctx context.Context, in CreateTrackInput) (*CreateTrackResult, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	m, err := s.db.GetMovieByTitle(ctx, strings.TrimSpace(in.MovieTitle))
	if err != nil {
		return nil, translate(err)
	}

	t := &models.Track{
		Title:         strings.TrimSpace(in.Title),
		MovieID:       m.ID,
		MovieTitle:    m.Title,
		Composer:      strings.TrimSpace(in.Composer),
		Lyricist:      strings.TrimSpace(in.Lyricist),
		ApprovalState: models.ApprovalPending,
	}
	if ref := strings.TrimSpace(in.ExternalAudioReference); ref != "" {
		t.ExternalAudioReference = &ref
	}

	if err := s.db.InsertTrack(ctx, t); err != nil {
		return nil, translate(err)
	}
	s.fence.DeletePrefix(tracksQueryPrefix)
	s.publish(ctx, eventbus.TopicTrackCreated, trackEvent(t))

	result := &CreateTrackResult{Track: t}
	if !in.Enrich {
		return result, nil
	}

	enriched, err := s.enrich(ctx, t, m.Title)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("track", t.Title).Msg("Track created without enrichment")
		result.Warnings = append(result.Warnings, "enrichment skipped: "+apperr.MessageOf(err))
		return result, nil
	}
	result.Track = enriched
	return result, nil
}

// EnrichTrack fetches provider metadata for one track and writes it back.
// Provider failures are returned with their kind.
func (s *Service) EnrichTrack(ctx context.Context, ref TrackRef) (*models.Track, error) {
	if err := validate(&ref); err != nil {
		return nil, err
	}
	m, t, err := s.resolveTrack(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, t, m.Title)
}

// ApproveTrack marks a track approved.
func (s *Service) ApproveTrack(ctx context.Context, ref TrackRef) (*models.Track, error) {
	if err := validate(&ref); err != nil {
		return nil, err
	}
	m, t, err := s.resolveTrack(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := s.db.SetTrackApproval(ctx, t.ID, models.ApprovalApproved); err != nil {
		return nil, translate(err)
	}
	s.fence.DeletePrefix(tracksQueryPrefix)

	updated, err := s.db.GetTrack(ctx, m.ID, t.Title)
	if err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, eventbus.TopicTrackApproved, trackEvent(updated))
	return updated, nil
}

func (s *Service) resolveTrack(ctx context.Context, ref TrackRef) (*models.Movie, *models.Track, error) {
	m, err := s.db.GetMovieByTitle(ctx, strings.TrimSpace(ref.MovieTitle))
	if err != nil {
		return nil, nil, translate(err)
	}
	t, err := s.db.GetTrack(ctx, m.ID, strings.TrimSpace(ref.Title))
	if err != nil {
		return nil, nil, translate(err)
	}
	return m, t, nil
}

// enrich writes provider metadata onto t. Only the metadata columns change;
// the approval state is left alone.
func (s *Service) enrich(ctx context.Context, t *models.Track, movieTitle string) (*models.Track, error) {
	if s.enricher == nil {
		return nil, apperr.New(apperr.KindConfiguration, "no enrichment provider is configured")
	}

	meta, err := s.enricher.Enrich(ctx, t.Title, movieTitle)
	if err != nil {
		return nil, err
	}

	if err := s.db.UpdateTrackMetadata(ctx, t.ID, meta); err != nil {
		return nil, translate(err)
	}
	s.fence.DeletePrefix(tracksQueryPrefix)

	updated, err := s.db.GetTrack(ctx, t.MovieID, t.Title)
	if err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, eventbus.TopicTrackEnriched, trackEvent(updated))
	return updated, nil
}

func trackEvent(t *models.Track) eventbus.TrackEvent {
	return eventbus.TrackEvent{
		TrackID:         t.ID,
		MovieID:         t.MovieID,
		Title:           t.Title,
		Popularity:      t.Popularity,
		DurationSeconds: t.DurationSeconds,
	}
}
