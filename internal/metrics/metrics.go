// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package metrics provides Prometheus instrumentation for the scan
// pipeline: scan throughput and outcomes, per-stage latency, recommendation
// sourcing, and the currently served model version. Collectors register on
// the default registry via promauto; callers expose them however they
// serve metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScansTotal counts completed pipeline runs by result: "ok",
	// "invalid_image", "invalid_input", "model_unavailable".
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomwatch_scans_total",
			Help: "Total number of scan pipeline runs by result",
		},
		[]string{"result"},
	)

	// ScanStageDuration observes per-stage latency.
	ScanStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloomwatch_scan_stage_duration_seconds",
			Help:    "Duration of scan pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "extract", "classify", "recommend", "trend"
	)

	// RiskLevelsTotal counts assessments by resulting risk level.
	RiskLevelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomwatch_risk_levels_total",
			Help: "Total number of risk assessments by level",
		},
		[]string{"level"},
	)

	// RecommendationsTotal counts recommendation sets by source.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomwatch_recommendations_total",
			Help: "Total number of recommendation sets by source (generated or fallback)",
		},
		[]string{"source"},
	)

	// GenerativeFailuresTotal counts generative-path failures by cause.
	GenerativeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomwatch_generative_failures_total",
			Help: "Total number of generative recommendation failures by cause",
		},
		[]string{"cause"}, // "timeout", "breaker_open", "rate_limited", "malformed", "error"
	)

	// ModelVersion reports the currently served risk-model artifact version.
	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloomwatch_model_version",
			Help: "Currently loaded risk model artifact version (0 when none)",
		},
	)

	// TrendsTotal counts computed trend labels.
	TrendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomwatch_trends_total",
			Help: "Total number of computed trend labels",
		},
		[]string{"trend"},
	)
)
