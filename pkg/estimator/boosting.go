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
	"sort"
)

// Stump is a depth-1 split shared by both boosting estimators.
type Stump struct {
	Feature    int
	Threshold  float64
	LeftValue  float64
	RightValue float64
}

func (s *Stump) value(row []float64) float64 {
	if row[s.Feature] <= s.Threshold {
		return s.LeftValue
	}
	return s.RightValue
}

// AdaBoost boosts decision stumps with the discrete AdaBoost update over
// internal {-1, +1} labels.
type AdaBoost struct {
	NEstimators int

	Stumps []Stump
	Alphas []float64
}

func NewAdaBoost(nEstimators int) *AdaBoost {
	if nEstimators <= 0 {
		nEstimators = 50
	}
	return &AdaBoost{NEstimators: nEstimators}
}

func (a *AdaBoost) Fit(features [][]float64, labels []int) error {
	if err := validateInput(features, labels); err != nil {
		return err
	}
	n := len(features)
	signed := make([]float64, n)
	for i, label := range labels {
		if label == 1 {
			signed[i] = 1
		} else {
			signed[i] = -1
		}
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	a.Stumps = a.Stumps[:0]
	a.Alphas = a.Alphas[:0]
	for round := 0; round < a.NEstimators; round++ {
		stump, weightedErr := bestClassificationStump(features, signed, weights)
		if weightedErr >= 0.5 {
			break
		}
		if weightedErr < 1e-10 {
			weightedErr = 1e-10
		}
		alpha := 0.5 * math.Log((1-weightedErr)/weightedErr)
		a.Stumps = append(a.Stumps, stump)
		a.Alphas = append(a.Alphas, alpha)

		total := 0.0
		for i, row := range features {
			weights[i] *= math.Exp(-alpha * signed[i] * stump.value(row))
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}
		if weightedErr < 1e-9 {
			break
		}
	}
	if len(a.Stumps) == 0 {
		// degenerate data; fall back to a constant majority stump
		positives := 0
		for _, s := range signed {
			if s > 0 {
				positives++
			}
		}
		constant := -1.0
		if positives*2 >= n {
			constant = 1.0
		}
		a.Stumps = append(a.Stumps, Stump{LeftValue: constant, RightValue: constant})
		a.Alphas = append(a.Alphas, 1)
	}
	return nil
}

func (a *AdaBoost) Predict(features [][]float64) ([]int, error) {
	if len(a.Stumps) == 0 {
		return nil, errors.New("adaboost: Predict called before Fit")
	}
	out := make([]int, len(features))
	for i, row := range features {
		score := 0.0
		for s, stump := range a.Stumps {
			score += a.Alphas[s] * stump.value(row)
		}
		if score >= 0 {
			out[i] = 1
		}
	}
	return out, nil
}

// bestClassificationStump finds the weighted-error-minimizing stump with
// leaf outputs in {-1, +1}.
func bestClassificationStump(features [][]float64, signed []float64, weights []float64) (Stump, float64) {
	columns := len(features[0])
	best := Stump{LeftValue: 1, RightValue: -1}
	bestErr := math.Inf(1)

	for feature := 0; feature < columns; feature++ {
		thresholds := candidateThresholds(features, feature)
		for _, threshold := range thresholds {
			for _, polarity := range []float64{1, -1} {
				weightedErr := 0.0
				for i, row := range features {
					pred := polarity
					if row[feature] <= threshold {
						pred = -polarity
					}
					if pred != signed[i] {
						weightedErr += weights[i]
					}
				}
				if weightedErr < bestErr {
					bestErr = weightedErr
					best = Stump{
						Feature:    feature,
						Threshold:  threshold,
						LeftValue:  -polarity,
						RightValue: polarity,
					}
				}
			}
		}
	}
	return best, bestErr
}

// GradientBoosting fits regression stumps to logistic-loss pseudo-residuals
// with shrinkage, starting from the prior log-odds.
type GradientBoosting struct {
	NEstimators  int
	LearningRate float64

	InitialScore float64
	Stumps       []Stump
}

func NewGradientBoosting(nEstimators int, learningRate float64) *GradientBoosting {
	if nEstimators <= 0 {
		nEstimators = 50
	}
	if learningRate <= 0 {
		learningRate = 0.1
	}
	return &GradientBoosting{NEstimators: nEstimators, LearningRate: learningRate}
}

func (g *GradientBoosting) Fit(features [][]float64, labels []int) error {
	if err := validateInput(features, labels); err != nil {
		return err
	}
	n := len(features)
	positives := 0
	for _, label := range labels {
		if label == 1 {
			positives++
		}
	}
	p := (float64(positives) + 1) / (float64(n) + 2) // smoothed prior
	g.InitialScore = math.Log(p / (1 - p))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.InitialScore
	}

	residuals := make([]float64, n)
	g.Stumps = g.Stumps[:0]
	for round := 0; round < g.NEstimators; round++ {
		for i := range residuals {
			residuals[i] = float64(labels[i]) - sigmoid(scores[i])
		}
		stump, ok := bestRegressionStump(features, residuals)
		if !ok {
			break
		}
		stump.LeftValue *= g.LearningRate
		stump.RightValue *= g.LearningRate
		g.Stumps = append(g.Stumps, stump)
		for i, row := range features {
			scores[i] += stump.value(row)
		}
	}
	return nil
}

func (g *GradientBoosting) Predict(features [][]float64) ([]int, error) {
	if g.Stumps == nil {
		return nil, errors.New("gradientboosting: Predict called before Fit")
	}
	out := make([]int, len(features))
	for i, row := range features {
		score := g.InitialScore
		for _, stump := range g.Stumps {
			score += stump.value(row)
		}
		if sigmoid(score) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// bestRegressionStump minimizes the squared error of a two-leaf fit to the
// residuals; leaf values are the mean residual on each side.
func bestRegressionStump(features [][]float64, residuals []float64) (Stump, bool) {
	columns := len(features[0])
	var best Stump
	bestSSE := math.Inf(1)
	found := false

	for feature := 0; feature < columns; feature++ {
		thresholds := candidateThresholds(features, feature)
		for _, threshold := range thresholds {
			leftSum, rightSum := 0.0, 0.0
			leftCount, rightCount := 0, 0
			for i, row := range features {
				if row[feature] <= threshold {
					leftSum += residuals[i]
					leftCount++
				} else {
					rightSum += residuals[i]
					rightCount++
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}
			leftMean := leftSum / float64(leftCount)
			rightMean := rightSum / float64(rightCount)
			sse := 0.0
			for i, row := range features {
				var diff float64
				if row[feature] <= threshold {
					diff = residuals[i] - leftMean
				} else {
					diff = residuals[i] - rightMean
				}
				sse += diff * diff
			}
			if sse < bestSSE {
				bestSSE = sse
				best = Stump{Feature: feature, Threshold: threshold, LeftValue: leftMean, RightValue: rightMean}
				found = true
			}
		}
	}
	return best, found
}

// candidateThresholds returns midpoints between distinct sorted values of a
// feature column.
func candidateThresholds(features [][]float64, feature int) []float64 {
	values := make([]float64, len(features))
	for i, row := range features {
		values[i] = row[feature]
	}
	sort.Float64s(values)
	thresholds := make([]float64, 0, len(values))
	for i := 0; i < len(values)-1; i++ {
		if values[i] != values[i+1] {
			thresholds = append(thresholds, (values[i]+values[i+1])/2)
		}
	}
	return thresholds
}
