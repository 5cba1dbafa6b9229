// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package trend labels the direction of bloom risk over a pond's recent
// scan history by comparing the current probability against a short
// trailing window of prior assessments.
package trend

import (
	"sort"

	"github.com/tomtom215/bloomwatch/internal/metrics"
	"github.com/tomtom215/bloomwatch/internal/models"
)

const (
	// defaultWindowSize is how many of the most recent prior assessments
	// form the comparison baseline.
	defaultWindowSize = 3

	// defaultDelta is the minimum probability movement treated as a real
	// change rather than noise.
	defaultDelta = 0.10

	// minPriorScans is the history size below which no trend is claimed.
	minPriorScans = 2
)

// Config tunes the trend comparison.
type Config struct {
	// WindowSize is the number of recent prior assessments averaged into
	// the baseline.
	WindowSize int `koanf:"window_size" validate:"omitempty,min=1"`

	// Delta is the minimum absolute probability change considered
	// significant.
	Delta float64 `koanf:"delta" validate:"omitempty,gt=0,lte=1"`
}

// DefaultConfig returns the standard window and sensitivity.
func DefaultConfig() Config {
	return Config{WindowSize: defaultWindowSize, Delta: defaultDelta}
}

// Analyzer computes trend labels from assessment history.
type Analyzer struct {
	windowSize int
	delta      float64
}

// NewAnalyzer creates an analyzer, falling back to defaults for zero-value
// config fields.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.Delta <= 0 {
		cfg.Delta = defaultDelta
	}
	return &Analyzer{windowSize: cfg.WindowSize, delta: cfg.Delta}
}

// Analyze labels the movement of the current probability against the mean
// of the most recent prior assessments. Fewer than two priors yields
// InsufficientData; history order does not matter, points are sorted by
// timestamp internally.
func (a *Analyzer) Analyze(current float64, history []models.AssessmentPoint) models.TrendLabel {
	label := a.analyze(current, history)
	metrics.TrendsTotal.WithLabelValues(string(label)).Inc()
	return label
}

func (a *Analyzer) analyze(current float64, history []models.AssessmentPoint) models.TrendLabel {
	if len(history) < minPriorScans {
		return models.TrendInsufficientData
	}

	points := make([]models.AssessmentPoint, len(history))
	copy(points, history)
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	n := a.windowSize
	if n > len(points) {
		n = len(points)
	}
	window := points[len(points)-n:]

	var sum float64
	for _, p := range window {
		sum += p.Assessment.Probability
	}
	baseline := sum / float64(n)

	switch diff := current - baseline; {
	case diff > a.delta:
		return models.TrendIncreasing
	case diff < -a.delta:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}
