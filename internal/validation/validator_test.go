// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/srkverse/internal/apperr"
)

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type messageRequest struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"notblank,max=2000"`
}

type yearRequest struct {
	Year int `json:"year" validate:"year"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      interface{}
		wantErr    bool
		wantField  string
		wantSubstr string
	}{
		{
			name:  "valid message",
			input: &messageRequest{Name: "Raj", Message: "Kuch kuch hota hai"},
		},
		{
			name:       "blank name",
			input:      &messageRequest{Name: "   ", Message: "hi"},
			wantErr:    true,
			wantField:  "name",
			wantSubstr: "must not be empty",
		},
		{
			name:       "bad email",
			input:      &messageRequest{Name: "Raj", Email: "nope", Message: "hi"},
			wantErr:    true,
			wantField:  "email",
			wantSubstr: "valid email",
		},
		{
			name:       "message too long",
			input:      &messageRequest{Name: "Raj", Message: strings.Repeat("x", 2001)},
			wantErr:    true,
			wantField:  "message",
			wantSubstr: "at most 2000 characters",
		},
		{
			name:  "year in range",
			input: &yearRequest{Year: 1995},
		},
		{
			name:       "year out of range",
			input:      &yearRequest{Year: 1492},
			wantErr:    true,
			wantField:  "year",
			wantSubstr: "between 1900 and 2100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if !tt.wantErr {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			msg, ok := verr.Fields()[tt.wantField]
			if !ok {
				t.Fatalf("expected failure on %q, got %v", tt.wantField, verr.Fields())
			}
			if !strings.Contains(msg, tt.wantSubstr) {
				t.Errorf("message %q does not contain %q", msg, tt.wantSubstr)
			}
		})
	}
}

func TestRequestValidationError_AppError(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&messageRequest{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Errors()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(verr.Errors()))
	}

	appErr := verr.AppError()
	if !errors.Is(appErr, apperr.ErrValidation) {
		t.Error("expected validation kind")
	}
	if !strings.Contains(appErr.Error(), "name must not be empty") {
		t.Errorf("unexpected message %q", appErr.Error())
	}
}
