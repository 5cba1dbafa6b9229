// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionStatus is the lifecycle state of an action log entry.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionSkipped   ActionStatus = "skipped"
)

// ActionLog links a recommendation set to the scan that produced it and
// tracks whether the recommended actions were carried out. The pipeline
// only ever creates the initial pending entry; status transitions and
// feedback are driven by the user-feedback collaborator.
type ActionLog struct {
	ID              string            `json:"id"`
	ScanID          string            `json:"scan_id"`
	WaterID         string            `json:"water_id"`
	Recommendations RecommendationSet `json:"recommendations"`
	Status          ActionStatus      `json:"status"`
	Feedback        string            `json:"feedback,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewActionLog creates the initial pending entry for a scan's
// recommendation set.
func NewActionLog(scanID, waterID string, recs RecommendationSet, now time.Time) ActionLog {
	return ActionLog{
		ID:              uuid.NewString(),
		ScanID:          scanID,
		WaterID:         waterID,
		Recommendations: recs,
		Status:          ActionPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
