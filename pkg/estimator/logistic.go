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
)

// LogisticRegression is a binary classifier trained with full-batch gradient
// descent on the cross-entropy loss.
type LogisticRegression struct {
	LearningRate float64
	Epochs       int
	Seed         int64

	Weights []float64
	Bias    float64
}

func NewLogisticRegression(learningRate float64, epochs int, seed int64) *LogisticRegression {
	if learningRate <= 0 {
		learningRate = 0.1
	}
	if epochs <= 0 {
		epochs = 200
	}
	return &LogisticRegression{LearningRate: learningRate, Epochs: epochs, Seed: seed}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (m *LogisticRegression) Fit(features [][]float64, labels []int) error {
	if err := validateInput(features, labels); err != nil {
		return err
	}
	n := len(features)
	columns := len(features[0])

	rnd := rand.New(rand.NewSource(m.Seed))
	m.Weights = make([]float64, columns)
	for j := range m.Weights {
		m.Weights[j] = rnd.NormFloat64() * 0.01
	}
	m.Bias = 0

	gradW := make([]float64, columns)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0
		for i, row := range features {
			z := m.Bias
			for j, v := range row {
				z += m.Weights[j] * v
			}
			diff := sigmoid(z) - float64(labels[i])
			for j, v := range row {
				gradW[j] += diff * v
			}
			gradB += diff
		}
		scale := m.LearningRate / float64(n)
		for j := range m.Weights {
			m.Weights[j] -= scale * gradW[j]
		}
		m.Bias -= scale * gradB
	}
	return nil
}

func (m *LogisticRegression) Predict(features [][]float64) ([]int, error) {
	if m.Weights == nil {
		return nil, errors.New("logistic: Predict called before Fit")
	}
	out := make([]int, len(features))
	for i, row := range features {
		if len(row) != len(m.Weights) {
			return nil, errors.New("logistic: feature count differs from fitted data")
		}
		z := m.Bias
		for j, v := range row {
			z += m.Weights[j] * v
		}
		if sigmoid(z) >= 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}
