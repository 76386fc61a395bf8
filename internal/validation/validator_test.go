// Signboard - Networked Digital Signage Controller
// Copyright 2026 Signboard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signboard-dev/signboard

package validation

import (
	"strings"
	"testing"
)

type contentRequest struct {
	Src string `validate:"required,min=1,max=1024"`
}

type scenarioRequest struct {
	Scenario string `validate:"required,min=1,max=128"`
	Interval int    `validate:"omitempty,gte=250"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&contentRequest{Src: "/content/a.png"}); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&contentRequest{})
	if err == nil {
		t.Fatal("expected validation error for missing src")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "required") {
		t.Errorf("message = %q, want mention of required", apiErr.Message)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	err := ValidateStruct(&scenarioRequest{Scenario: "", Interval: 10})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("errors = %d, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details must list fields")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}
