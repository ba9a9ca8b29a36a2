/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package drift

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// KolmogorovSmirnovTest runs the two-sample KS distribution-equality test.
// NaN entries are ignored. Returns the D statistic and the asymptotic
// two-sided p-value; a low p-value is evidence the two samples were drawn
// from different distributions.
func KolmogorovSmirnovTest(x []float64, y []float64) (statistic float64, pValue float64) {
	xs := sortedValid(x)
	ys := sortedValid(y)
	if len(xs) == 0 || len(ys) == 0 {
		return 0, 1
	}

	statistic = stat.KolmogorovSmirnov(xs, nil, ys, nil)

	n := float64(len(xs))
	m := float64(len(ys))
	en := math.Sqrt(n * m / (n + m))
	lambda := (en + 0.12 + 0.11/en) * statistic
	pValue = ksProbability(lambda)
	return statistic, pValue
}

func sortedValid(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// ksProbability evaluates the Kolmogorov distribution tail
// Q(lambda) = 2 * sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2).
// The alternating series converges fast for lambda away from zero; when it
// fails to converge the probability is effectively 1.
func ksProbability(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	a2 := -2 * lambda * lambda
	fac := 2.0
	sum := 0.0
	previousTerm := 0.0
	for j := 1; j <= 100; j++ {
		term := fac * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= 0.001*previousTerm || math.Abs(term) <= 1e-8*sum {
			return clampProbability(sum)
		}
		fac = -fac
		previousTerm = math.Abs(term)
	}
	return 1
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
