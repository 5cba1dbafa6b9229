// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package pipeline orchestrates one full scan: environmental validation,
// image feature extraction, feature fusion, risk classification,
// recommendation, and trend analysis.
//
// Scan Flow:
//
//	EnvironmentalInput --> envdata.Encode ----+
//	                                          +--> models.Fuse --> classifier
//	Image reader ------> imaging.Extract -----+                       |
//	                                                                  v
//	history.Provider --> trend.Analyzer <---------------- recommend.Engine
//	                            \                              /
//	                             +------> models.ScanOutcome <+
//
// Error semantics are atomic: validation, extraction, and classification
// failures abort the scan with no partial outcome. Recommendation never
// fails (it degrades to a fallback table), and a history read failure
// degrades the trend to insufficient data rather than discarding an
// otherwise complete assessment.
//
// Image extraction is CPU-bound, so concurrent runs contend on a weighted
// semaphore sized to the configured worker count.
package pipeline
