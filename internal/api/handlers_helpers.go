// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.New(apperr.KindValidation, "request body is too large")
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.KindValidation, "request body is required")
		default:
			return apperr.Wrap(apperr.KindValidation, err, "request body is not valid JSON")
		}
	}
	if dec.More() {
		return apperr.New(apperr.KindValidation, "request body must contain a single JSON object")
	}
	return nil
}

// validateRequest runs struct validation and returns a classified error.
func validateRequest(req interface{}) error {
	if verr := validation.ValidateStruct(req); verr != nil {
		return verr.AppError()
	}
	return nil
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// yearParam parses and validates the {year} path parameter.
func yearParam(r *http.Request) (int, error) {
	raw := pathParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Newf(apperr.KindValidation, "year must be a number, got %q", raw)
	}
	req := YearRequest{Year: year}
	if err := validateRequest(&req); err != nil {
		return 0, err
	}
	return req.Year, nil
}

// externalIDParam parses and validates the {externalID} path parameter.
func externalIDParam(r *http.Request) (int64, error) {
	raw := pathParam(r, "externalID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.KindValidation, "external id must be a number, got %q", raw)
	}
	req := ExternalIDRequest{ExternalID: id}
	if err := validateRequest(&req); err != nil {
		return 0, err
	}
	return req.ExternalID, nil
}

// limitQuery reads ?limit=, falling back to def when absent.
func limitQuery(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Newf(apperr.KindValidation, "limit must be a number, got %q", raw)
	}
	req := LimitRequest{Limit: limit}
	if err := validateRequest(&req); err != nil {
		return 0, err
	}
	return req.Limit, nil
}
