// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// leafArtifact builds a valid artifact whose every tree is a single leaf
// with the given value, so the ensemble probability is exactly p.
func leafArtifact(t *testing.T, version int, p float64, trees int) *Artifact {
	t.Helper()
	forest := make([]Tree, trees)
	for i := range forest {
		forest[i] = Tree{Nodes: []Node{{Left: -1, Right: -1, Value: p, Leaf: true}}}
	}
	a := &Artifact{
		Version:      version,
		TrainedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		FeatureNames: models.FeatureNames[:],
		Trees:        forest,
	}
	if err := a.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}
	return a
}

func leafModel(t *testing.T, p float64) *Model {
	t.Helper()
	model, err := NewModel(leafArtifact(t, 1, p, 1))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return model
}

func TestClassify_ModelUnavailable(t *testing.T) {
	c := New(&StaticProvider{})

	_, err := c.Classify(models.FeatureVector{})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("error = %v, want ErrModelUnavailable", err)
	}
}

func TestClassify_LevelDerivedFromProbability(t *testing.T) {
	tests := []struct {
		p    float64
		want models.RiskLevel
	}{
		{0.0, models.RiskLow},
		{0.39999, models.RiskLow},
		{0.40000, models.RiskMedium},
		{0.69999, models.RiskMedium},
		{0.70000, models.RiskHigh},
		{0.78, models.RiskHigh},
		{1.0, models.RiskHigh},
	}

	for _, tt := range tests {
		c := New(&StaticProvider{Model: leafModel(t, tt.p)})

		got, err := c.Classify(models.FeatureVector{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got.Probability-tt.p) > 1e-12 {
			t.Errorf("Probability = %v, want %v", got.Probability, tt.p)
		}
		if got.Level != tt.want {
			t.Errorf("p=%v: Level = %v, want %v", tt.p, got.Level, tt.want)
		}
	}
}

func TestClassify_ConfidenceIsEnsembleAgreement(t *testing.T) {
	// Three trees voting bloom (0.9) and one voting clear (0.1): the
	// majority class has 3/4 agreement.
	forest := []Tree{
		{Nodes: []Node{{Left: -1, Right: -1, Value: 0.9, Leaf: true}}},
		{Nodes: []Node{{Left: -1, Right: -1, Value: 0.9, Leaf: true}}},
		{Nodes: []Node{{Left: -1, Right: -1, Value: 0.9, Leaf: true}}},
		{Nodes: []Node{{Left: -1, Right: -1, Value: 0.1, Leaf: true}}},
	}
	a := &Artifact{
		Version:      1,
		FeatureNames: models.FeatureNames[:],
		Trees:        forest,
	}
	if err := a.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}
	model, err := NewModel(a)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	got, err := New(&StaticProvider{Model: model}).Classify(models.FeatureVector{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(got.Probability-0.7) > 1e-12 {
		t.Errorf("Probability = %v, want 0.7", got.Probability)
	}
	if math.Abs(got.Confidence-0.75) > 1e-12 {
		t.Errorf("Confidence = %v, want 0.75", got.Confidence)
	}
}

func TestClassify_ContributingFactors(t *testing.T) {
	// Root splits on green_ratio at 50; the taken branch's value delta is
	// attributed to that feature.
	tree := Tree{Nodes: []Node{
		{Feature: models.FeatureGreenRatio, Threshold: 50, Left: 1, Right: 2, Value: 0.5},
		{Left: -1, Right: -1, Value: 0.2, Leaf: true},
		{Left: -1, Right: -1, Value: 0.9, Leaf: true},
	}}
	a := &Artifact{Version: 1, FeatureNames: models.FeatureNames[:], Trees: []Tree{tree}}
	if err := a.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}
	model, err := NewModel(a)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	c := New(&StaticProvider{Model: model})

	vec := models.FeatureVector{}
	vec[models.FeatureGreenRatio] = 60

	got, err := c.Classify(vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Probability != 0.9 {
		t.Errorf("Probability = %v, want 0.9", got.Probability)
	}
	if len(got.ContributingFactors) != 1 || got.ContributingFactors[0] != "green_ratio" {
		t.Errorf("ContributingFactors = %v, want [green_ratio]", got.ContributingFactors)
	}
}

func TestModelVersion(t *testing.T) {
	c := New(&StaticProvider{})
	if v := c.ModelVersion(); v != 0 {
		t.Errorf("ModelVersion() = %d, want 0 with no model", v)
	}

	model, err := NewModel(leafArtifact(t, 7, 0.5, 1))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	c = New(&StaticProvider{Model: model})
	if v := c.ModelVersion(); v != 7 {
		t.Errorf("ModelVersion() = %d, want 7", v)
	}
}
