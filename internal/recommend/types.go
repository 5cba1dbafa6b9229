// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package recommend

import (
	"context"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// Context is the structured prompt context handed to the generative
// service for one scan.
type Context struct {
	// RiskLevel is the classified risk level.
	RiskLevel models.RiskLevel `json:"risk_level"`

	// Probability is the bloom probability (0-1).
	Probability float64 `json:"probability"`

	// GreenRatio is the percentage of algae-green pixels.
	GreenRatio float64 `json:"green_ratio"`

	// RainfallMm is recent rainfall in millimeters.
	RainfallMm float64 `json:"rainfall_mm"`

	// TemperatureC is the water temperature in Celsius.
	TemperatureC float64 `json:"temperature_c"`

	// FertilizerLevel is the reported fertilizer exposure.
	FertilizerLevel models.FertilizerLevel `json:"fertilizer_level"`

	// WaterStagnation reports whether the water is stagnant.
	WaterStagnation bool `json:"water_stagnation"`
}

// Generator is the narrow interface to the external generative capability.
// Implementations return 3-5 action strings ordered most urgent first, or
// an error. The engine treats any error, timeout, or malformed result
// identically: it falls back to the static table.
type Generator interface {
	// Generate produces recommendation actions for the given context.
	// Must honor ctx cancellation; the engine bounds it with a timeout.
	Generate(ctx context.Context, rc Context) ([]string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, rc Context) ([]string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, rc Context) ([]string, error) {
	return f(ctx, rc)
}
