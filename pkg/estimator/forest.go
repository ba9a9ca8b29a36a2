/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"errors"
	"math"
	"math/rand"
	"sync"
)

// RandomForest bags seeded decision trees over bootstrap row samples and
// per-tree feature subspaces, predicting by majority vote. Tree training is
// parallel; each tree derives its own seed from Seed+index so the fitted
// forest is invariant to the degree of parallelism.
type RandomForest struct {
	NEstimators int
	MaxDepth    int
	Seed        int64

	Trees        []*DecisionTree
	TreeFeatures [][]int
}

func NewRandomForest(nEstimators int, maxDepth int, seed int64) *RandomForest {
	if nEstimators <= 0 {
		nEstimators = 16
	}
	return &RandomForest{NEstimators: nEstimators, MaxDepth: maxDepth, Seed: seed}
}

func (rf *RandomForest) Fit(features [][]float64, labels []int) error {
	if err := validateInput(features, labels); err != nil {
		return err
	}
	n := len(features)
	columns := len(features[0])
	subspace := int(math.Sqrt(float64(columns)))
	if subspace < 1 {
		subspace = 1
	}

	rf.Trees = make([]*DecisionTree, rf.NEstimators)
	rf.TreeFeatures = make([][]int, rf.NEstimators)

	var wg sync.WaitGroup
	errCh := make(chan error, rf.NEstimators)
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(rf.Seed + int64(treeIdx)))

			selected := rnd.Perm(columns)[:subspace]
			sampleFeatures := make([][]float64, n)
			sampleLabels := make([]int, n)
			for j := 0; j < n; j++ {
				rowIdx := rnd.Intn(n)
				row := make([]float64, subspace)
				for k, col := range selected {
					row[k] = features[rowIdx][col]
				}
				sampleFeatures[j] = row
				sampleLabels[j] = labels[rowIdx]
			}

			tree := NewDecisionTree(rf.MaxDepth, 2)
			if err := tree.Fit(sampleFeatures, sampleLabels); err != nil {
				errCh <- err
				return
			}
			rf.Trees[treeIdx] = tree
			rf.TreeFeatures[treeIdx] = selected
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (rf *RandomForest) Predict(features [][]float64) ([]int, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("randomforest: Predict called before Fit")
	}
	votes := make([]map[int]int, len(features))
	for i := range votes {
		votes[i] = make(map[int]int)
	}

	for t, tree := range rf.Trees {
		selected := rf.TreeFeatures[t]
		rows := make([][]float64, len(features))
		for i, row := range features {
			projected := make([]float64, len(selected))
			for k, col := range selected {
				projected[k] = row[col]
			}
			rows[i] = projected
		}
		preds, err := tree.Predict(rows)
		if err != nil {
			return nil, err
		}
		for i, p := range preds {
			votes[i][p]++
		}
	}

	out := make([]int, len(features))
	for i, counts := range votes {
		bestClass, bestCount := 0, -1
		for class, count := range counts {
			if count > bestCount || (count == bestCount && class < bestClass) {
				bestClass, bestCount = class, count
			}
		}
		out[i] = bestClass
	}
	return out, nil
}
