/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"errors"
	"math/rand"
)

// kFoldIndices deals a seeded permutation of row indices into k folds.
func kFoldIndices(n int, k int, seed int64) [][]int {
	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)
	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds
}

// GridSearchCV evaluates every parameter set of the candidate with k-fold
// cross-validation on the training split and returns the best parameters by
// mean fold accuracy. Ties keep the earlier grid entry so results are
// reproducible for a fixed seed.
func GridSearchCV(candidate Candidate, features [][]float64, labels []int, folds int, seed int64) (Params, float64, error) {
	if len(candidate.Grid) == 0 {
		return nil, 0, errors.New("gridsearch: candidate has an empty grid")
	}
	if folds < 2 {
		folds = 2
	}
	if folds > len(features) {
		folds = len(features)
	}
	foldIndices := kFoldIndices(len(features), folds, seed)

	var bestParams Params
	bestScore := -1.0
	for _, params := range candidate.Grid {
		total := 0.0
		evaluated := 0
		for f := 0; f < folds; f++ {
			trainX, trainY, holdX, holdY := foldSplit(features, labels, foldIndices, f)
			if len(trainX) == 0 || len(holdX) == 0 {
				continue
			}
			model := candidate.New(params, seed)
			if err := model.Fit(trainX, trainY); err != nil {
				return nil, 0, err
			}
			preds, err := model.Predict(holdX)
			if err != nil {
				return nil, 0, err
			}
			total += Accuracy(holdY, preds)
			evaluated++
		}
		if evaluated == 0 {
			continue
		}
		score := total / float64(evaluated)
		if score > bestScore {
			bestScore = score
			bestParams = params
		}
	}
	if bestParams == nil {
		return nil, 0, errors.New("gridsearch: no parameter set could be evaluated")
	}
	return bestParams, bestScore, nil
}

func foldSplit(features [][]float64, labels []int, folds [][]int, holdOut int) (
	trainX [][]float64, trainY []int, holdX [][]float64, holdY []int) {
	for f, indices := range folds {
		for _, idx := range indices {
			if f == holdOut {
				holdX = append(holdX, features[idx])
				holdY = append(holdY, labels[idx])
			} else {
				trainX = append(trainX, features[idx])
				trainY = append(trainY, labels[idx])
			}
		}
	}
	return trainX, trainY, holdX, holdY
}
