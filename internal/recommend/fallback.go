// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package recommend

import "github.com/tomtom215/bloomwatch/internal/models"

// fallbackActions is the deterministic per-level action table used whenever
// the generative path is unavailable or returns unusable output. Actions are
// ordered most urgent first.
var fallbackActions = map[models.RiskLevel][]string{
	models.RiskHigh: {
		"Restrict all water contact and keep pets and livestock away from the pond",
		"Aerate the water immediately using a fountain, pump, or agitation",
		"Stop all fertilizer application within 50 meters of the shoreline",
	},
	models.RiskMedium: {
		"Reduce fertilizer use near the pond and divert nutrient-rich runoff",
		"Remove visible algae mats with a rake or skimmer before they sink",
		"Increase water circulation to break up stagnant zones",
	},
	models.RiskLow: {
		"Continue routine visual checks for green discoloration or surface film",
		"Maintain existing vegetation buffers along the shoreline",
		"Keep records of rainfall and fertilizer application near the pond",
	},
}

// FallbackActions returns the static action list for a risk level. The
// returned slice is a copy; callers may modify it freely.
func FallbackActions(level models.RiskLevel) []string {
	actions, ok := fallbackActions[level]
	if !ok {
		actions = fallbackActions[models.RiskLow]
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}
