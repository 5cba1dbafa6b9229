// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package models

import (
	"time"
)

// ImageFeatures is the numeric summary extracted from one pond photograph.
// Produced once per image and immutable thereafter.
type ImageFeatures struct {
	// GreenRatio is the percentage (0-100) of pixels classified as
	// algae-green after normalization to the working resolution.
	GreenRatio float64 `json:"green_ratio"`

	// DensityScore is the ratio (0-1) of the largest connected green
	// component's area to the total green pixel area. A single contiguous
	// bloom scores near 1; many disjoint specks score low even at equal
	// GreenRatio.
	DensityScore float64 `json:"density_score"`

	// ClusterCount is the number of connected green components above the
	// minimum-area threshold.
	ClusterCount int `json:"cluster_count"`
}

// FertilizerLevel is the reported fertilizer exposure of the surrounding land.
type FertilizerLevel string

const (
	FertilizerLow    FertilizerLevel = "low"
	FertilizerMedium FertilizerLevel = "medium"
	FertilizerHigh   FertilizerLevel = "high"
)

// Encoded returns the ordinal encoding consumed by the classifier:
// low=0, medium=1, high=2. Unknown values return -1; the encoder rejects
// them before this is ever reached on the serving path.
func (f FertilizerLevel) Encoded() float64 {
	switch f {
	case FertilizerLow:
		return 0
	case FertilizerMedium:
		return 1
	case FertilizerHigh:
		return 2
	default:
		return -1
	}
}

// EnvironmentalInput holds the four environmental measurements submitted
// alongside a photograph. All fields are validated before use; out-of-range
// values are rejected, never clamped, because silent correction would
// corrupt the feature distribution the classifier was trained on.
type EnvironmentalInput struct {
	// RainfallMm is recent rainfall in millimeters.
	RainfallMm float64 `json:"rainfall_mm" koanf:"rainfall_mm" validate:"min=0,max=500"`

	// TemperatureC is the water temperature in degrees Celsius.
	TemperatureC float64 `json:"temperature_c" koanf:"temperature_c" validate:"min=15,max=45"`

	// FertilizerLevel is the reported fertilizer exposure.
	FertilizerLevel FertilizerLevel `json:"fertilizer_level" koanf:"fertilizer_level" validate:"required,oneof=low medium high"`

	// WaterStagnation reports whether the water body is stagnant.
	WaterStagnation bool `json:"water_stagnation" koanf:"water_stagnation"`
}

// RiskLevel is the discrete eutrophication-risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk level thresholds. Boundary values belong to the higher level:
// 0.40 is medium, 0.70 is high.
const (
	mediumRiskThreshold = 0.40
	highRiskThreshold   = 0.70
)

// LevelForProbability maps a bloom probability to its risk level.
// This is the only way a RiskLevel is ever assigned.
func LevelForProbability(p float64) RiskLevel {
	switch {
	case p >= highRiskThreshold:
		return RiskHigh
	case p >= mediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskAssessment is the classifier's output for one scan.
type RiskAssessment struct {
	// Probability is the calibrated probability (0-1) of the positive
	// "high risk of bloom" class.
	Probability float64 `json:"probability"`

	// Level is derived from Probability by LevelForProbability.
	Level RiskLevel `json:"level"`

	// Confidence is the classifier's self-reported certainty (0-1),
	// distinct from the probability itself.
	Confidence float64 `json:"confidence"`

	// ContributingFactors lists feature tags ordered by how strongly each
	// input influenced this specific probability. Informational only; it
	// never affects Level.
	ContributingFactors []string `json:"contributing_factors,omitempty"`
}

// NewRiskAssessment constructs an assessment with the level derived from
// the probability, enforcing the level/probability invariant at the only
// construction site.
func NewRiskAssessment(probability, confidence float64, factors []string) RiskAssessment {
	return RiskAssessment{
		Probability:         probability,
		Level:               LevelForProbability(probability),
		Confidence:          confidence,
		ContributingFactors: factors,
	}
}

// ScanRecord is one immutable observation of a water body: the unit of
// history. Persistence is the storage collaborator's responsibility.
type ScanRecord struct {
	ScanID        string             `json:"scan_id"`
	WaterID       string             `json:"water_id"`
	Timestamp     time.Time          `json:"timestamp"`
	Image         ImageFeatures      `json:"image"`
	Environmental EnvironmentalInput `json:"environmental"`
	Assessment    RiskAssessment     `json:"assessment"`
}

// AssessmentPoint is the slice of a ScanRecord the trend analyzer needs:
// a past assessment with its timestamp. History providers hand the pipeline
// an ordered-by-timestamp, read-only sequence of these.
type AssessmentPoint struct {
	Timestamp  time.Time      `json:"timestamp"`
	Assessment RiskAssessment `json:"assessment"`
}

// TrendLabel describes the directional change in risk probability across a
// water body's scan history.
type TrendLabel string

const (
	TrendIncreasing       TrendLabel = "increasing"
	TrendDecreasing       TrendLabel = "decreasing"
	TrendStable           TrendLabel = "stable"
	TrendInsufficientData TrendLabel = "insufficient_data"
)

// RecommendationSource tags how a recommendation set was produced.
type RecommendationSource string

const (
	// SourceGenerated marks recommendations produced by the generative service.
	SourceGenerated RecommendationSource = "generated"
	// SourceFallback marks recommendations from the static per-level table.
	SourceFallback RecommendationSource = "fallback"
)

// RecommendationSet is the ordered list of actions produced for one scan.
type RecommendationSet struct {
	// Actions holds 3-5 recommendation strings, most important first.
	Actions []string `json:"actions"`

	// NextCheckDate is when the water body should be scanned again,
	// derived purely from the risk level.
	NextCheckDate time.Time `json:"next_check_date"`

	// Source records whether the set came from the generative path or the
	// deterministic fallback table.
	Source RecommendationSource `json:"source"`
}

// ScanOutcome is the full result of one pipeline run. It is either complete
// or absent; the pipeline never returns a partial outcome.
type ScanOutcome struct {
	// ScanID is a unique identifier assigned per run for correlation.
	ScanID string `json:"scan_id"`

	// Timestamp is when the scan was processed.
	Timestamp time.Time `json:"timestamp"`

	Image           ImageFeatures     `json:"image"`
	Assessment      RiskAssessment    `json:"assessment"`
	Recommendations RecommendationSet `json:"recommendations"`
	Trend           TrendLabel        `json:"trend"`
}
