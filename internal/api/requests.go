// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

// Request parameter structs validated with go-playground/validator tags.
//
// Body payloads (votes, songs, fan messages, quiz answers) are the catalog
// package's input types and are validated there. The structs here cover
// path and query parameters, which are parsed in the handlers:
//
//	req := YearRequest{Year: year}
//	if err := validateRequest(&req); err != nil {
//	    WriteAppError(w, r, err)
//	    return
//	}
package api

// YearRequest is a release or event year taken from the path.
type YearRequest struct {
	Year int `json:"year" validate:"year"`
}

// LimitRequest bounds list endpoints that accept ?limit=.
type LimitRequest struct {
	Limit int `json:"limit" validate:"min=1,max=500"`
}

// ExternalIDRequest is a catalog provider id taken from the path.
type ExternalIDRequest struct {
	ExternalID int64 `json:"external_id" validate:"min=1"`
}
