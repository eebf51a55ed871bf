// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package validation

import (
	"strings"
	"testing"
)

type usersRequest struct {
	Limit  int    `validate:"min=1,max=1000"`
	Offset int    `validate:"min=0"`
	Sort   string `validate:"omitempty,oneof=user_id requests spend"`
}

type pageRef struct {
	Slug  string `validate:"required,slug"`
	Title string `validate:"required,max=80"`
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
	if New() == v1 {
		t.Error("New() should return a fresh instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input usersRequest
	}{
		{"defaults", usersRequest{Limit: 100}},
		{"bounds", usersRequest{Limit: 1000, Offset: 5000}},
		{"sort", usersRequest{Limit: 1, Sort: "spend"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"limit zero", &usersRequest{Limit: 0}, "Limit", "min", "Limit must be at least 1"},
		{"limit high", &usersRequest{Limit: 5000}, "Limit", "max", "Limit must be at most 1000"},
		{"negative offset", &usersRequest{Limit: 10, Offset: -1}, "Offset", "min", "Offset must be at least 0"},
		{"bad sort", &usersRequest{Limit: 10, Sort: "age"}, "Sort", "oneof", "Sort must be one of: user_id requests spend"},
		{"missing slug", &pageRef{Title: "Overview"}, "Slug", "required", "Slug is required"},
		{"bad slug", &pageRef{Slug: "Over View", Title: "Overview"}, "Slug", "slug", "Slug must be lower-case words joined by '_' or '-'"},
		{"long title", &pageRef{Slug: "overview", Title: strings.Repeat("x", 81)}, "Title", "max", "Title must be at most 80 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have failed")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			e := errs[0]
			if e.Field() != tt.wantField || e.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", e.Field(), e.Tag(), tt.wantField, tt.wantTag)
			}
			if e.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", e.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSlugPattern(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"overview", true},
		{"requests_box", true},
		{"kpi-usage", true},
		{"a1", true},
		{"", false},
		{"Overview", false},
		{"two  spaces", false},
		{"_leading", false},
		{"trailing-", false},
	}
	for _, tt := range tests {
		if got := slugPattern.MatchString(tt.in); got != tt.want {
			t.Errorf("slugPattern(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&usersRequest{Limit: 0})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != ErrCodeValidation {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrCodeValidation)
	}
	if apiErr.Details["field"] != "Limit" || apiErr.Details["tag"] != "min" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&usersRequest{Limit: 0, Offset: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "Limit:") || !strings.Contains(apiErr.Message, "Offset:") {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestCheck_Namespace(t *testing.T) {
	type layout struct {
		Pages []pageRef `validate:"dive"`
	}
	err := Check(New(), &layout{Pages: []pageRef{{Slug: "ok", Title: "Ok"}, {Title: "Missing"}}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if ns := err.Errors()[0].Namespace(); ns != "layout.Pages[1].Slug" {
		t.Errorf("Namespace() = %q", ns)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	var ve RequestValidationError
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if ve.ToAPIError().Message != "Validation failed" {
		t.Error("empty error should produce the generic message")
	}
}
