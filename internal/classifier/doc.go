// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package classifier maps fused feature vectors to calibrated
// eutrophication-risk assessments using an offline-trained random-forest
// artifact.
//
// Serving Path:
//
//	FeatureVector -> Classifier -> RiskAssessment{probability, level,
//	                                confidence, contributing factors}
//
// The serving path only ever reads a loaded model. Artifacts are versioned
// JSON files (riskmodel_v{N}.json) with a SHA-256 checksum; the Store loads
// the highest version at startup and hot-swaps newer versions as they
// appear on disk, so retraining requires no code change and no restart.
//
// Probability is the mean of per-tree leaf values. Confidence is the
// fraction of trees agreeing with the ensemble-majority class. Contributing
// factors are per-call local importances: each split on a decision path
// attributes the child/parent value delta to its split feature, so the
// factors explain this specific probability rather than global feature
// importance.
//
// Training lives in this package too (training.go) but runs strictly
// offline: stratified split, bootstrap-sampled gini trees, cross-validated
// grid search, exported as the next artifact version.
package classifier
