// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

// Package recommend turns a risk assessment into an ordered list of
// mitigation actions and a next check-in date.
//
// Recommendation Flow:
//
//	RiskAssessment -> Engine -> generative path (Generator interface)
//	                     |           | timeout / breaker / rate limit /
//	                     |           | malformed output
//	                     |           v
//	                     +----> static fallback table
//
// The engine never fails outward: a missing recommendation is a worse user
// outcome than a generic one, so every generative failure resolves
// internally to the deterministic per-level fallback table. The result
// carries its source tag (generated or fallback) on the one shared result
// type, so tagging cannot be forgotten on either path.
//
// The generative call is bounded by an explicit timeout, wrapped in a
// circuit breaker so a degraded service stops being called at all, and
// rate limited. It is never retried synchronously within a request.
package recommend
