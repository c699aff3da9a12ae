// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	t.Parallel()

	err := Wrap(KindSourceUnavailable, io.ErrUnexpectedEOF, "catalog fetch failed after 3 attempts")
	wrapped := fmt.Errorf("sync: %w", err)

	if !errors.Is(wrapped, ErrSourceUnavailable) {
		t.Error("expected wrapped error to match ErrSourceUnavailable")
	}
	if errors.Is(wrapped, ErrRateLimitExceeded) {
		t.Error("did not expect match with ErrRateLimitExceeded")
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("expected cause to stay reachable")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", New(KindNotFound, "Movie not found"), KindNotFound},
		{"wrapped validation", fmt.Errorf("create: %w", Newf(KindValidation, "track %q exists", "x")), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMessageOf_HidesUnclassifiedErrors(t *testing.T) {
	t.Parallel()

	if got := MessageOf(errors.New("pq: relation does not exist")); got != "internal server error" {
		t.Errorf("expected generic message, got %q", got)
	}

	err := Wrap(KindConfiguration, errors.New("secret=abc"), "enrichment credentials missing")
	if got := MessageOf(err); got != "enrichment credentials missing" {
		t.Errorf("expected user-safe message, got %q", got)
	}
}
