// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package models defines the core domain types shared across the scan
// pipeline: image features, environmental measurements, the fused feature
// vector, risk assessments, scan records, recommendation sets, and trend
// labels.
//
// The pipeline owns no persistent state. Every type here is either a pure
// input, a pure output, or a read-only borrowed view of history supplied by
// the storage collaborator. All types are plain values safe to copy and to
// share across goroutines once constructed.
//
// Two invariants are enforced at construction time rather than checked
// after the fact:
//
//   - RiskAssessment.Level is always derived from Probability via
//     LevelForProbability; it is never set independently.
//   - ImageFeatures with GreenRatio == 0 always carry DensityScore == 0
//     and ClusterCount == 0.
package models
