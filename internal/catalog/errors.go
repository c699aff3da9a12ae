// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package catalog

import (
	"errors"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/database"
	"github.com/tomtom215/srkverse/internal/validation"
)

// translate maps store sentinels onto the shared error kinds. Anything else
// is returned unchanged and surfaces as an internal error.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrMovieNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "movie not found")
	case errors.Is(err, database.ErrTrackNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "track not found")
	case errors.Is(err, database.ErrQuoteNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, "quote not found")
	case errors.Is(err, database.ErrNoTimelineHit):
		return apperr.Wrap(apperr.KindNotFound, err, "no matching timeline event")
	case errors.Is(err, database.ErrDuplicateTrack):
		return apperr.Wrap(apperr.KindValidation, err,
			"a track with this title already exists for the movie (unique constraint on movie and title)")
	default:
		return err
	}
}

// validate runs struct validation and classifies the failure.
func validate(in interface{}) error {
	if verr := validation.ValidateStruct(in); verr != nil {
		return verr.AppError()
	}
	return nil
}
