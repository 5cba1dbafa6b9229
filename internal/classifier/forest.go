// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"math"
	"sort"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// Model is a loaded, validated artifact ready for inference. Immutable
// after construction; the store swaps whole models atomically.
type Model struct {
	artifact *Artifact
}

// NewModel validates an artifact and wraps it for inference.
func NewModel(artifact *Artifact) (*Model, error) {
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &Model{artifact: artifact}, nil
}

// Version returns the artifact version.
func (m *Model) Version() int { return m.artifact.Version }

// prediction is the raw ensemble output for one vector.
type prediction struct {
	probability float64
	confidence  float64
	factors     []string
}

// contributionEpsilon filters features whose accumulated path contribution
// is numerically negligible.
const contributionEpsilon = 1e-9

// predict runs the vector through every tree, averaging leaf values into
// the ensemble probability, measuring confidence as majority-class
// agreement, and accumulating per-feature local importance along each
// decision path.
func (m *Model) predict(vec models.FeatureVector) prediction {
	var contributions [models.FeatureCount]float64
	sum := 0.0
	positive := 0

	for ti := range m.artifact.Trees {
		leaf := m.walk(&m.artifact.Trees[ti], vec, &contributions)
		sum += leaf
		if leaf >= 0.5 {
			positive++
		}
	}

	n := len(m.artifact.Trees)
	probability := sum / float64(n)

	// Agreement of the majority vote across ensemble members.
	agree := positive
	if n-positive > agree {
		agree = n - positive
	}
	confidence := float64(agree) / float64(n)

	return prediction{
		probability: clamp01(probability),
		confidence:  confidence,
		factors:     rankContributions(contributions),
	}
}

// walk traverses one tree, attributing each split's value delta to its
// split feature, and returns the leaf value.
func (m *Model) walk(tree *Tree, vec models.FeatureVector, contributions *[models.FeatureCount]float64) float64 {
	idx := int32(0)
	for {
		node := &tree.Nodes[idx]
		if node.Leaf {
			return node.Value
		}

		var child int32
		if vec[node.Feature] <= node.Threshold {
			child = node.Left
		} else {
			child = node.Right
		}

		contributions[node.Feature] += math.Abs(tree.Nodes[child].Value - node.Value)
		idx = child
	}
}

// rankContributions orders feature tags by descending absolute
// contribution, dropping negligible ones. Equal contributions fall back to
// vector order so the result is deterministic.
func rankContributions(contributions [models.FeatureCount]float64) []string {
	idx := make([]int, 0, models.FeatureCount)
	for i, c := range contributions {
		if c > contributionEpsilon {
			idx = append(idx, i)
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return contributions[idx[a]] > contributions[idx[b]]
	})

	factors := make([]string, len(idx))
	for i, fi := range idx {
		factors[i] = models.FeatureNames[fi]
	}
	return factors
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
