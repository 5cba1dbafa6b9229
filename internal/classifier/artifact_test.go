// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"strings"
	"testing"

	"github.com/tomtom215/bloomwatch/internal/models"
)

func TestParseArtifactFilename(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"riskmodel_v1.json", 1},
		{"riskmodel_v42.json", 42},
		{"riskmodel_v0.json", -1},
		{"riskmodel_v-3.json", -1},
		{"riskmodel_vX.json", -1},
		{"riskmodel_v3.json.tmp", -1},
		{"othermodel_v3.json", -1},
		{"config.yaml", -1},
	}

	for _, tt := range tests {
		if got := parseArtifactFilename(tt.name); got != tt.want {
			t.Errorf("parseArtifactFilename(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestArtifact_Filename(t *testing.T) {
	a := &Artifact{Version: 5}
	if got := a.Filename(); got != "riskmodel_v5.json" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestArtifact_Validate_EmptyForest(t *testing.T) {
	a := &Artifact{Version: 1, FeatureNames: models.FeatureNames[:]}
	if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "empty forest") {
		t.Errorf("Validate() = %v, want empty forest error", err)
	}
}

func TestArtifact_Validate_FeatureLayoutMismatch(t *testing.T) {
	a := leafArtifact(t, 1, 0.5, 1)
	a.FeatureNames = []string{"green_ratio", "density_score"}

	if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "feature names") {
		t.Errorf("Validate() = %v, want feature layout error", err)
	}
}

func TestArtifact_Validate_OutOfRangeValue(t *testing.T) {
	a := leafArtifact(t, 1, 0.5, 1)
	a.Trees[0].Nodes[0].Value = 1.5
	if err := a.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}

	if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "outside [0,1]") {
		t.Errorf("Validate() = %v, want value range error", err)
	}
}

func TestArtifact_Validate_ChecksumMismatch(t *testing.T) {
	a := leafArtifact(t, 1, 0.5, 1)
	// Tamper with the forest after sealing.
	a.Trees[0].Nodes[0].Value = 0.6

	if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Errorf("Validate() = %v, want checksum error", err)
	}
}

func TestArtifact_Validate_BadChildIndex(t *testing.T) {
	a := &Artifact{
		Version:      1,
		FeatureNames: models.FeatureNames[:],
		Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Threshold: 1, Left: 5, Right: 6, Value: 0.5},
		}}},
	}
	if err := a.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}

	if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "child index") {
		t.Errorf("Validate() = %v, want child index error", err)
	}
}

func TestArtifact_Validate_RejectsNonAdvancingChildren(t *testing.T) {
	// Child references that do not move strictly forward would make tree
	// walks loop forever, so they must never survive validation and reach
	// inference.
	cases := []struct {
		name  string
		nodes []Node
	}{
		{
			name: "self reference",
			nodes: []Node{
				{Feature: 0, Threshold: 1, Left: 0, Right: 0, Value: 0.5},
			},
		},
		{
			name: "back reference",
			nodes: []Node{
				{Feature: 0, Threshold: 1, Left: 1, Right: 2, Value: 0.5},
				{Feature: 1, Threshold: 1, Left: 0, Right: 2, Value: 0.5},
				{Left: -1, Right: -1, Value: 0.5, Leaf: true},
			},
		},
		{
			name: "child equal to parent index",
			nodes: []Node{
				{Left: -1, Right: -1, Value: 0.5, Leaf: true},
				{Feature: 0, Threshold: 1, Left: 1, Right: 2, Value: 0.5},
				{Left: -1, Right: -1, Value: 0.5, Leaf: true},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Artifact{
				Version:      1,
				FeatureNames: models.FeatureNames[:],
				Trees:        []Tree{{Nodes: tc.nodes}},
			}
			if err := a.Seal(); err != nil {
				t.Fatalf("seal: %v", err)
			}

			if err := a.Validate(); err == nil || !strings.Contains(err.Error(), "does not advance") {
				t.Errorf("Validate() = %v, want non-advancing child error", err)
			}
			if _, err := NewModel(a); err == nil {
				t.Error("NewModel accepted an artifact whose walks cannot terminate")
			}
		})
	}
}
