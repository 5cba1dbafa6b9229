// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/tomtom215/bloomwatch/internal/models"
)

// Sample is one labeled observation for offline training.
type Sample struct {
	Vector models.FeatureVector `json:"vector"`
	Bloom  bool                 `json:"bloom"`
}

// TrainingConfig controls the offline training run. The grids are searched
// by cross-validated accuracy; the winning combination trains the final
// forest.
type TrainingConfig struct {
	// TreeCounts and MaxDepths form the hyperparameter grid.
	TreeCounts []int
	MaxDepths  []int

	// MinLeafSamples stops splitting below this many samples per side.
	MinLeafSamples int

	// TestFraction is the stratified held-out share for the final report.
	TestFraction float64

	// CVFolds is the number of cross-validation folds for the grid search.
	CVFolds int

	// Seed makes bootstrap sampling and splits reproducible.
	Seed int64
}

// DefaultTrainingConfig returns the grid used for production artifacts.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		TreeCounts:     []int{25, 50},
		MaxDepths:      []int{3, 5, 7},
		MinLeafSamples: 2,
		TestFraction:   0.2,
		CVFolds:        5,
		Seed:           1,
	}
}

// TrainingReport summarizes a training run.
type TrainingReport struct {
	SampleCount  int     `json:"sample_count"`
	TrainCount   int     `json:"train_count"`
	TestCount    int     `json:"test_count"`
	BestTrees    int     `json:"best_trees"`
	BestDepth    int     `json:"best_depth"`
	CVAccuracy   float64 `json:"cv_accuracy"`
	TestAccuracy float64 `json:"test_accuracy"`
}

// minTrainingSamples is the floor below which a split and CV are
// meaningless.
const minTrainingSamples = 10

// Train fits a random forest on labeled samples and exports it as an
// artifact with the given version. Strictly offline; the serving path
// never calls this.
func Train(samples []Sample, cfg TrainingConfig, version int) (*Artifact, *TrainingReport, error) {
	if len(samples) < minTrainingSamples {
		return nil, nil, fmt.Errorf("need at least %d samples, got %d", minTrainingSamples, len(samples))
	}
	if !hasBothClasses(samples) {
		return nil, nil, fmt.Errorf("training set must contain both bloom and non-bloom samples")
	}
	if len(cfg.TreeCounts) == 0 || len(cfg.MaxDepths) == 0 {
		return nil, nil, fmt.Errorf("empty hyperparameter grid")
	}
	if cfg.CVFolds < 2 {
		return nil, nil, fmt.Errorf("cross-validation needs at least 2 folds")
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducibility matters here, not crypto strength

	train, test := stratifiedSplit(samples, cfg.TestFraction, rng)

	bestTrees, bestDepth, bestCV := 0, 0, -1.0
	for _, trees := range cfg.TreeCounts {
		for _, depth := range cfg.MaxDepths {
			acc := crossValidate(train, trees, depth, cfg.MinLeafSamples, cfg.CVFolds, rng)
			if acc > bestCV {
				bestCV, bestTrees, bestDepth = acc, trees, depth
			}
		}
	}

	forest := fitForest(train, bestTrees, bestDepth, cfg.MinLeafSamples, rng)
	testAcc := accuracy(forest, test)

	artifact := &Artifact{
		Version:      version,
		TrainedAt:    time.Now().UTC(),
		FeatureNames: models.FeatureNames[:],
		Trees:        forest,
		SampleCount:  len(samples),
		TestAccuracy: testAcc,
	}
	if err := artifact.Seal(); err != nil {
		return nil, nil, err
	}

	report := &TrainingReport{
		SampleCount:  len(samples),
		TrainCount:   len(train),
		TestCount:    len(test),
		BestTrees:    bestTrees,
		BestDepth:    bestDepth,
		CVAccuracy:   bestCV,
		TestAccuracy: testAcc,
	}
	return artifact, report, nil
}

func hasBothClasses(samples []Sample) bool {
	var pos, neg bool
	for _, s := range samples {
		if s.Bloom {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}

// stratifiedSplit shuffles each class independently and holds out the
// given fraction of each, preserving class balance in both halves.
func stratifiedSplit(samples []Sample, testFraction float64, rng *rand.Rand) (train, test []Sample) {
	var pos, neg []Sample
	for _, s := range samples {
		if s.Bloom {
			pos = append(pos, s)
		} else {
			neg = append(neg, s)
		}
	}

	for _, class := range [][]Sample{pos, neg} {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		cut := int(float64(len(class)) * testFraction)
		test = append(test, class[:cut]...)
		train = append(train, class[cut:]...)
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	return train, test
}

// crossValidate returns mean fold accuracy for one grid point.
func crossValidate(samples []Sample, trees, depth, minLeaf, folds int, rng *rand.Rand) float64 {
	if folds > len(samples) {
		folds = len(samples)
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	total := 0.0
	counted := 0
	for f := 0; f < folds; f++ {
		lo := f * len(shuffled) / folds
		hi := (f + 1) * len(shuffled) / folds
		holdout := shuffled[lo:hi]
		if len(holdout) == 0 {
			continue
		}

		fit := make([]Sample, 0, len(shuffled)-len(holdout))
		fit = append(fit, shuffled[:lo]...)
		fit = append(fit, shuffled[hi:]...)
		if !hasBothClasses(fit) {
			continue
		}

		forest := fitForest(fit, trees, depth, minLeaf, rng)
		total += accuracy(forest, holdout)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// fitForest trains one bootstrap-sampled tree per ensemble slot.
func fitForest(samples []Sample, trees, depth, minLeaf int, rng *rand.Rand) []Tree {
	forest := make([]Tree, trees)
	for t := 0; t < trees; t++ {
		boot := make([]Sample, len(samples))
		for i := range boot {
			boot[i] = samples[rng.Intn(len(samples))]
		}
		forest[t] = Tree{Nodes: buildTree(boot, depth, minLeaf)}
	}
	return forest
}

// buildTree grows a gini-split CART and returns its node slice with the
// root at index 0.
func buildTree(samples []Sample, maxDepth, minLeaf int) []Node {
	var nodes []Node
	grow(&nodes, samples, maxDepth, minLeaf)
	return nodes
}

// grow appends the subtree for samples and returns its root index.
func grow(nodes *[]Node, samples []Sample, depth, minLeaf int) int32 {
	value := meanLabel(samples)

	idx := int32(len(*nodes))
	*nodes = append(*nodes, Node{Left: -1, Right: -1, Value: value, Leaf: true})

	if depth <= 0 || len(samples) < 2*minLeaf || value == 0 || value == 1 {
		return idx
	}

	feature, threshold, ok := bestSplit(samples, minLeaf)
	if !ok {
		return idx
	}

	var left, right []Sample
	for _, s := range samples {
		if s.Vector[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	leftIdx := grow(nodes, left, depth-1, minLeaf)
	rightIdx := grow(nodes, right, depth-1, minLeaf)

	node := &(*nodes)[idx]
	node.Leaf = false
	node.Feature = feature
	node.Threshold = threshold
	node.Left = leftIdx
	node.Right = rightIdx
	return idx
}

// bestSplit scans every feature's sorted values for the split with the
// largest weighted gini decrease that leaves at least minLeaf samples on
// each side.
func bestSplit(samples []Sample, minLeaf int) (feature int, threshold float64, ok bool) {
	n := len(samples)
	parentGini := gini(countPositive(samples), n)

	bestGain := 0.0
	type entry struct {
		value float64
		bloom bool
	}

	for f := 0; f < models.FeatureCount; f++ {
		entries := make([]entry, n)
		totalPos := 0
		for i, s := range samples {
			entries[i] = entry{value: s.Vector[f], bloom: s.Bloom}
			if s.Bloom {
				totalPos++
			}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].value < entries[j].value })

		leftPos := 0
		for i := 0; i < n-1; i++ {
			if entries[i].bloom {
				leftPos++
			}
			// Can only split between distinct values.
			if entries[i].value == entries[i+1].value {
				continue
			}
			leftN := i + 1
			rightN := n - leftN
			if leftN < minLeaf || rightN < minLeaf {
				continue
			}

			weighted := (float64(leftN)*gini(leftPos, leftN) +
				float64(rightN)*gini(totalPos-leftPos, rightN)) / float64(n)
			gain := parentGini - weighted
			if gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (entries[i].value + entries[i+1].value) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// gini computes binary gini impurity for pos positives out of n.
func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func countPositive(samples []Sample) int {
	pos := 0
	for _, s := range samples {
		if s.Bloom {
			pos++
		}
	}
	return pos
}

func meanLabel(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return float64(countPositive(samples)) / float64(len(samples))
}

// accuracy evaluates a forest against labeled samples at the 0.5 vote
// threshold.
func accuracy(forest []Tree, samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		sum := 0.0
		for ti := range forest {
			sum += treeValue(&forest[ti], s.Vector)
		}
		if (sum/float64(len(forest)) >= 0.5) == s.Bloom {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// treeValue walks one tree without contribution tracking.
func treeValue(tree *Tree, vec models.FeatureVector) float64 {
	idx := int32(0)
	for {
		node := &tree.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		if vec[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
