// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package models

// FeatureCount is the fixed width of the classifier input vector.
const FeatureCount = 6

// Feature vector positions. The order is part of the model artifact's
// external contract: artifacts are trained against vectors in exactly this
// layout, so reordering is a breaking change.
const (
	FeatureGreenRatio = iota
	FeatureDensityScore
	FeatureRainfallMm
	FeatureTemperatureC
	FeatureFertilizer
	FeatureStagnation
)

// FeatureNames maps vector positions to the tags used for contributing
// factors. Index alignment with the Feature* constants is asserted by tests.
var FeatureNames = [FeatureCount]string{
	"green_ratio",
	"density_score",
	"rainfall_mm",
	"temperature_c",
	"fertilizer_level",
	"water_stagnation",
}

// FeatureVector is the fixed-order numeric input to the risk classifier.
// It is derived and ephemeral: built for one classification call and
// discarded afterwards.
type FeatureVector [FeatureCount]float64

// Fuse concatenates image features and the encoded environmental vector in
// the fixed order the classifier was trained on. It performs no validation:
// both inputs are already well-formed by their producers' contracts.
func Fuse(img ImageFeatures, env [4]float64) FeatureVector {
	return FeatureVector{
		FeatureGreenRatio:   img.GreenRatio,
		FeatureDensityScore: img.DensityScore,
		FeatureRainfallMm:   env[0],
		FeatureTemperatureC: env[1],
		FeatureFertilizer:   env[2],
		FeatureStagnation:   env[3],
	}
}
