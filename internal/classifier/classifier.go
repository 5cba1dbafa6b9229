// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"errors"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// ErrModelUnavailable is returned when no trained artifact is loaded.
// Fatal for the classification call: the orchestrator decides whether to
// surface it or retry, never this package.
var ErrModelUnavailable = errors.New("risk model unavailable")

// ModelProvider supplies the current model. The artifact Store is the
// production implementation; tests use StaticProvider.
type ModelProvider interface {
	// Current returns the loaded model, or false when none is available.
	Current() (*Model, bool)
}

// StaticProvider wraps a fixed model, or no model at all when nil.
// Useful for tests and one-shot tools that load a single artifact.
type StaticProvider struct {
	Model *Model
}

// Current implements ModelProvider.
func (p *StaticProvider) Current() (*Model, bool) {
	if p == nil || p.Model == nil {
		return nil, false
	}
	return p.Model, true
}

// Classifier maps fused feature vectors to risk assessments. Stateless
// apart from the injected model provider; safe for concurrent use.
type Classifier struct {
	provider ModelProvider
}

// New creates a classifier reading models from the given provider.
func New(provider ModelProvider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify runs the vector through the loaded forest. The risk level is
// derived from the probability inside models.NewRiskAssessment and never
// set independently. Returns ErrModelUnavailable when no artifact is
// loaded.
func (c *Classifier) Classify(vec models.FeatureVector) (models.RiskAssessment, error) {
	model, ok := c.provider.Current()
	if !ok {
		return models.RiskAssessment{}, ErrModelUnavailable
	}

	pred := model.predict(vec)
	return models.NewRiskAssessment(pred.probability, pred.confidence, pred.factors), nil
}

// ModelVersion reports the loaded artifact version, or 0 when none is
// loaded. Exposed for logging and metrics.
func (c *Classifier) ModelVersion() int {
	if model, ok := c.provider.Current(); ok {
		return model.Version()
	}
	return 0
}
