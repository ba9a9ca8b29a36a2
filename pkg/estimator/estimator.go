/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"encoding/gob"
	"errors"
)

// Estimator is a trainable binary classifier over a numeric feature matrix.
// Labels are canonical {0, 1} (0 = phishing, 1 = legitimate).
type Estimator interface {
	Fit(features [][]float64, labels []int) error
	Predict(features [][]float64) ([]int, error)
}

// Params is one hyperparameter configuration from a candidate's grid.
type Params map[string]float64

func (p Params) Get(name string, defaultValue float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return defaultValue
}

// Candidate couples an estimator type with its hyperparameter search space.
// The selection loop iterates candidates generically; adding an estimator
// type means adding one entry here, nothing else changes.
type Candidate struct {
	Name string
	Grid []Params
	New  func(params Params, seed int64) Estimator
}

// DefaultCandidates is the fixed menu of classifiers considered for every
// training run. Grids are deliberately small: the point is selection across
// model families, not exhaustive tuning.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{
			Name: "random_forest",
			Grid: []Params{
				{"n_estimators": 8, "max_depth": 8},
				{"n_estimators": 16, "max_depth": 8},
				{"n_estimators": 16, "max_depth": 0},
			},
			New: func(p Params, seed int64) Estimator {
				return NewRandomForest(int(p.Get("n_estimators", 16)), int(p.Get("max_depth", 0)), seed)
			},
		},
		{
			Name: "decision_tree",
			Grid: []Params{
				{"max_depth": 4},
				{"max_depth": 8},
				{"max_depth": 0},
			},
			New: func(p Params, seed int64) Estimator {
				return NewDecisionTree(int(p.Get("max_depth", 0)), 2)
			},
		},
		{
			Name: "logistic_regression",
			Grid: []Params{
				{"learning_rate": 0.1},
				{"learning_rate": 0.01},
			},
			New: func(p Params, seed int64) Estimator {
				return NewLogisticRegression(p.Get("learning_rate", 0.1), 200, seed)
			},
		},
		{
			Name: "gradient_boosting",
			Grid: []Params{
				{"n_estimators": 50, "learning_rate": 0.1},
				{"n_estimators": 50, "learning_rate": 0.3},
			},
			New: func(p Params, seed int64) Estimator {
				return NewGradientBoosting(int(p.Get("n_estimators", 50)), p.Get("learning_rate", 0.1))
			},
		},
		{
			Name: "adaboost",
			Grid: []Params{
				{"n_estimators": 25},
				{"n_estimators": 50},
			},
			New: func(p Params, seed int64) Estimator {
				return NewAdaBoost(int(p.Get("n_estimators", 50)))
			},
		},
	}
}

// SavedModel is the gob envelope for a fitted estimator; the concrete types
// are gob-registered so the interface value round-trips.
type SavedModel struct {
	Name  string
	Model Estimator
}

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&DecisionTree{})
	gob.Register(&LogisticRegression{})
	gob.Register(&GradientBoosting{})
	gob.Register(&AdaBoost{})
}

func validateInput(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return errors.New("estimator: empty feature matrix")
	}
	if len(features) != len(labels) {
		return errors.New("estimator: feature and label counts differ")
	}
	columns := len(features[0])
	for _, row := range features {
		if len(row) != columns {
			return errors.New("estimator: ragged feature matrix")
		}
	}
	return nil
}
