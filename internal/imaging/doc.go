// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package imaging extracts numeric vegetation features from pond and lake
// photographs.
//
// Extraction Pipeline:
//
//	JPEG/PNG -> decode -> resize to working resolution -> HSV classify
//	          -> binary green mask -> connected components
//	          -> ImageFeatures{GreenRatio, DensityScore, ClusterCount}
//
// Images are normalized to a fixed working resolution (640x480 by default)
// so that processing cost is bounded and area thresholds are resolution
// independent. A pixel is classified algae-green when its hue falls in the
// configured band and its saturation and value clear minimum thresholds,
// which targets mid-saturation green and yellow-green bloom tones while
// excluding deep shadow and washed-out highlights.
//
// Extraction is a pure function of pixel data. Lighting sensitivity is an
// acknowledged accuracy limitation: no automatic exposure correction is
// attempted here.
package imaging
