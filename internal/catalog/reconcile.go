// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/srkverse/internal/cache"
	"github.com/tomtom215/srkverse/internal/eventbus"
	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/models"
)

// Reconciler merges provider candidates into the local catalog.
//
// Candidates are applied in order with last-write-wins semantics: every
// field of a matched record is overwritten, including with empty values.
// Re-applying the same candidates changes nothing. Reconciliation never
// triggers track enrichment.
type Reconciler struct {
	svc *Service
}

// NewReconciler creates a reconciler writing through svc's store and cache.
func NewReconciler(svc *Service) *Reconciler {
	return &Reconciler{svc: svc}
}

// Upsert applies candidates and returns how many were inserted or changed.
// On error the candidates before the failing one stay applied.
func (r *Reconciler) Upsert(ctx context.Context, candidates []models.Movie) (int, error) {
	log := logging.Ctx(ctx)
	merged := 0

	defer func() {
		if merged == 0 {
			return
		}
		r.linkContent(ctx)
		r.svc.invalidateCatalog()
		r.svc.publish(ctx, eventbus.TopicCatalogReconciled, eventbus.CatalogReconciled{
			Merged:     merged,
			Candidates: len(candidates),
		})
	}()

	for i := range candidates {
		m := candidates[i]
		if strings.TrimSpace(m.Title) == "" {
			log.Warn().Int("index", i).Msg("Skipping catalog candidate without a title")
			continue
		}
		if m.GenreLabels == nil {
			m.GenreLabels = []string{}
		}

		changed, err := r.svc.db.UpsertMovie(ctx, &m)
		if err != nil {
			return merged, fmt.Errorf("reconcile %q: %w", m.Title, err)
		}
		if changed {
			merged++
		}
	}

	log.Debug().Int("candidates", len(candidates)).Int("merged", merged).Msg("Catalog reconciled")
	return merged, nil
}

// linkContent attaches quotes and awards seeded before their movie was
// ingested. Failures are logged; the merge itself already succeeded.
func (r *Reconciler) linkContent(ctx context.Context) {
	linked, err := r.svc.db.LinkContentToMovies(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to link content to catalog movies")
		return
	}
	if linked > 0 {
		r.svc.fence.DeletePrefix(cache.PrefixQuote)
		logging.Ctx(ctx).Debug().Int("linked", linked).Msg("Linked content to catalog movies")
	}
}
