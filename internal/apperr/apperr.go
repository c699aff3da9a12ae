// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

// Package apperr defines the error kinds shared by the catalog service, the
// provider clients and the HTTP layer.
//
// Every error that can reach a caller carries exactly one Kind and a message
// that is safe to show to a user. The HTTP layer maps kinds to status codes
// and never renders the wrapped cause.
//
//	if errors.Is(err, apperr.ErrRateLimitExceeded) {
//	    // enrichment skipped, primary operation still succeeds
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for recovery and for transport mapping.
type Kind string

const (
	// KindSourceUnavailable means the external catalog could not be reached
	// within the retry budget.
	KindSourceUnavailable Kind = "source_unavailable"

	// KindRateLimitExceeded means the enrichment provider kept throttling
	// after the retry budget was spent.
	KindRateLimitExceeded Kind = "rate_limit_exceeded"

	// KindConfiguration means credentials or settings are missing or rejected.
	KindConfiguration Kind = "configuration_error"

	// KindNotFound means a single requested entity does not exist.
	KindNotFound Kind = "not_found"

	// KindValidation means a write was rejected because of its input.
	KindValidation Kind = "validation_error"

	// KindInternal is used for anything unclassified.
	KindInternal Kind = "internal_error"
)

// Sentinels for errors.Is checks. They match any *Error of the same kind.
var (
	ErrSourceUnavailable = &Error{Kind: KindSourceUnavailable, Message: "external catalog unavailable"}
	ErrRateLimitExceeded = &Error{Kind: KindRateLimitExceeded, Message: "enrichment provider rate limit exceeded"}
	ErrConfiguration     = &Error{Kind: KindConfiguration, Message: "configuration error"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
)

// Error is a classified error with a user-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The cause stays reachable through errors.Unwrap but
// is never part of Message.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-safe message of the first *Error in err's chain.
// Unclassified errors get a generic message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
