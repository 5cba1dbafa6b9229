// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package validation

import (
	"strings"
	"testing"
)

type sampleInput struct {
	RainfallMm float64 `validate:"min=0,max=500"`
	Fertilizer string  `validate:"required,oneof=low medium high"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(&sampleInput{RainfallMm: 120.5, Fertilizer: "high"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_OutOfRange(t *testing.T) {
	err := ValidateStruct(&sampleInput{RainfallMm: 501, Fertilizer: "low"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := err.Fields()
	if len(fields) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fields))
	}
	if fields[0].Field() != "RainfallMm" {
		t.Errorf("Field() = %q, want RainfallMm", fields[0].Field())
	}
	if fields[0].Tag() != "max" {
		t.Errorf("Tag() = %q, want max", fields[0].Tag())
	}
	if !strings.Contains(err.Error(), "RainfallMm must be at most 500") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidateStruct_MultipleFailures(t *testing.T) {
	err := ValidateStruct(&sampleInput{RainfallMm: -1, Fertilizer: "plenty"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Fields()) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Fields()))
	}
	if !strings.Contains(err.Error(), "Fertilizer must be one of") {
		t.Errorf("oneof message missing: %s", err.Error())
	}
}

func TestValidateStruct_BoundaryValuesAccepted(t *testing.T) {
	for _, rainfall := range []float64{0, 500} {
		if err := ValidateStruct(&sampleInput{RainfallMm: rainfall, Fertilizer: "medium"}); err != nil {
			t.Errorf("rainfall %v should be accepted: %v", rainfall, err)
		}
	}
}
