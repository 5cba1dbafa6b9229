// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// artifactPrefix and artifactExt define the versioned artifact filename
// format riskmodel_v{N}.json. The format is part of the model's external
// contract with the training pipeline.
const (
	artifactPrefix = "riskmodel_v"
	artifactExt    = ".json"
)

// Node is one decision-tree node. Internal nodes carry the split feature
// and threshold; every node carries Value, the mean bloom label of the
// training samples that reached it, which is what local importance
// attribution reads.
type Node struct {
	// Feature indexes into the feature vector; meaningless for leaves.
	Feature int `json:"feature"`

	// Threshold splits samples: <= goes left, > goes right.
	Threshold float64 `json:"threshold"`

	// Left and Right index into the tree's node slice; -1 for leaves.
	Left  int32 `json:"left"`
	Right int32 `json:"right"`

	// Value is the mean bloom label (0-1) at this node.
	Value float64 `json:"value"`

	// Leaf marks terminal nodes.
	Leaf bool `json:"leaf"`
}

// Tree is one member of the forest. Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the on-disk representation of a trained risk model.
type Artifact struct {
	// Version is the monotonically increasing artifact version.
	Version int `json:"version"`

	// TrainedAt is when training completed.
	TrainedAt time.Time `json:"trained_at"`

	// FeatureNames records the vector layout the forest was trained
	// against. Loading fails if it does not match the serving layout.
	FeatureNames []string `json:"feature_names"`

	// Trees is the forest.
	Trees []Tree `json:"trees"`

	// SampleCount is the number of labeled samples used for training.
	SampleCount int `json:"sample_count"`

	// TestAccuracy is the held-out accuracy measured at export time.
	TestAccuracy float64 `json:"test_accuracy"`

	// Checksum is the SHA-256 of the serialized trees, verified on load.
	Checksum string `json:"checksum"`
}

// ComputeChecksum returns the SHA-256 hex digest of the serialized forest.
func (a *Artifact) ComputeChecksum() (string, error) {
	data, err := json.Marshal(a.Trees)
	if err != nil {
		return "", fmt.Errorf("marshal trees: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Seal stamps the artifact's checksum. Called once at export time.
func (a *Artifact) Seal() error {
	sum, err := a.ComputeChecksum()
	if err != nil {
		return err
	}
	a.Checksum = sum
	return nil
}

// Validate checks structural integrity: a non-empty forest, in-range
// feature indexes, strictly forward child references so every walk
// terminates, leaf values within [0,1], a feature layout matching the
// serving vector, and a checksum matching the trees.
func (a *Artifact) Validate() error {
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact v%d: empty forest", a.Version)
	}

	if len(a.FeatureNames) != models.FeatureCount {
		return fmt.Errorf("artifact v%d: %d feature names, serving layout has %d",
			a.Version, len(a.FeatureNames), models.FeatureCount)
	}
	for i, name := range a.FeatureNames {
		if name != models.FeatureNames[i] {
			return fmt.Errorf("artifact v%d: feature %d is %q, serving layout has %q",
				a.Version, i, name, models.FeatureNames[i])
		}
	}

	for ti, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("artifact v%d: tree %d has no nodes", a.Version, ti)
		}
		n := int32(len(tree.Nodes))
		for ni, node := range tree.Nodes {
			if node.Value < 0 || node.Value > 1 {
				return fmt.Errorf("artifact v%d: tree %d node %d value %v outside [0,1]",
					a.Version, ti, ni, node.Value)
			}
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= models.FeatureCount {
				return fmt.Errorf("artifact v%d: tree %d node %d feature index %d out of range",
					a.Version, ti, ni, node.Feature)
			}
			// Children must come strictly after their parent in the node
			// slice. This is how the trainer lays trees out, and it makes
			// every walk terminate: a back or self reference would let a
			// corrupt artifact hang inference forever.
			if node.Left <= int32(ni) || node.Left >= n || node.Right <= int32(ni) || node.Right >= n {
				return fmt.Errorf("artifact v%d: tree %d node %d child index does not advance",
					a.Version, ti, ni)
			}
		}
	}

	sum, err := a.ComputeChecksum()
	if err != nil {
		return err
	}
	if a.Checksum != "" && a.Checksum != sum {
		return fmt.Errorf("artifact v%d: checksum mismatch", a.Version)
	}

	return nil
}

// Filename returns the versioned artifact filename.
func (a *Artifact) Filename() string {
	return fmt.Sprintf("%s%d%s", artifactPrefix, a.Version, artifactExt)
}

// parseArtifactFilename extracts the version from a filename like
// "riskmodel_v3.json". Returns -1 for names that are not artifacts.
func parseArtifactFilename(name string) int {
	if !strings.HasPrefix(name, artifactPrefix) || !strings.HasSuffix(name, artifactExt) {
		return -1
	}
	v := strings.TrimSuffix(strings.TrimPrefix(name, artifactPrefix), artifactExt)
	version, err := strconv.Atoi(v)
	if err != nil || version < 1 {
		return -1
	}
	return version
}
