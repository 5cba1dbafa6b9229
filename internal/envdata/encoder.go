// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package envdata validates environmental measurements and encodes them
// into the numeric slots of the classifier's feature vector.
//
// Out-of-range values are rejected, never clamped: silent correction would
// feed the classifier values outside the distribution it was trained on,
// which is worse than an explicit resubmission round-trip.
package envdata

import (
	"fmt"

	"github.com/tomtom215/bloomwatch/internal/models"
	"github.com/tomtom215/bloomwatch/internal/validation"
)

// ValidationError reports an environmental input that failed validation.
// It names the offending field(s) so the caller can correct and resubmit.
// These messages are exposed to the end user verbatim.
type ValidationError struct {
	Struct *validation.StructError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("environmental input rejected: %s", e.Struct.Error())
}

// Fields returns the individual field failures.
func (e *ValidationError) Fields() []validation.FieldError {
	return e.Struct.Fields()
}

// Encode validates the four environmental measurements and returns their
// encoded vector [rainfallMm, temperatureC, fertilizerEncoded, stagnationFlag].
// Rainfall and temperature pass through unchanged after the range check;
// fertilizer maps low=0 medium=1 high=2; stagnation maps false=0 true=1.
func Encode(in models.EnvironmentalInput) ([4]float64, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return [4]float64{}, &ValidationError{Struct: err}
	}

	stagnation := 0.0
	if in.WaterStagnation {
		stagnation = 1.0
	}

	return [4]float64{
		in.RainfallMm,
		in.TemperatureC,
		in.FertilizerLevel.Encoded(),
		stagnation,
	}, nil
}
