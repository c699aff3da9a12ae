// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"strings"

	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
	"github.com/tomtom215/srkverse/internal/models"
)

// VoteInput is a favourite-movie poll ballot.
type VoteInput struct {
	MovieTitle string `json:"movie" validate:"required,notblank,max=300"`
}

// CastVote records one vote for the movie titled in.MovieTitle and returns
// the new tally. The vote totals cache entry is gone before this returns, so
// the next VoteTotals read reflects the vote.
func (s *Service) CastVote(ctx context.Context, in VoteInput) (*models.VoteTally, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	m, err := s.db.GetMovieByTitle(ctx, strings.TrimSpace(in.MovieTitle))
	if err != nil {
		return nil, translate(err)
	}

	count, err := s.db.IncrementVote(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	s.fence.Delete(cache.KeyVoteTotals)
	metrics.VotesCast.Inc()

	logging.Ctx(ctx).Debug().Str("movie_id", m.ID).Int64("vote_count", count).Msg("Vote cast")

	s.publish(ctx, eventbus.TopicVoteCast, eventbus.VoteCast{
		MovieID:    m.ID,
		MovieTitle: m.Title,
		VoteCount:  count,
	})

	return &models.VoteTally{
		MovieID:    m.ID,
		MovieTitle: m.Title,
		VoteCount:  count,
	}, nil
}

// VoteTotals returns every tally, highest first.
func (s *Service) VoteTotals(ctx context.Context) ([]models.VoteTally, error) {
	return cached(s, cache.KeyVoteTotals, s.ttl.Vote, func() ([]models.VoteTally, error) {
		return s.db.VoteTotals(ctx)
	})
}
