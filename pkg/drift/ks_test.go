/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package drift

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKolmogorovSmirnov_IdenticalSamples(t *testing.T) {
	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = 3
		y[i] = 3
	}
	statistic, p := KolmogorovSmirnovTest(x, y)
	assert.Equal(t, 0.0, statistic)
	assert.Greater(t, p, 0.9, "identical constant samples must not look drifted")
}

func TestKolmogorovSmirnov_DisjointSupports(t *testing.T) {
	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = float64(i)          // [0, 50)
		y[i] = float64(i) + 1000.0 // [1000, 1050)
	}
	statistic, p := KolmogorovSmirnovTest(x, y)
	assert.Equal(t, 1.0, statistic)
	assert.Less(t, p, 1e-6, "disjoint supports must give a near-zero p-value")
}

func TestKolmogorovSmirnov_IgnoresNaN(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 3, 4, 5, 6, 7, 8, 9, 10}
	y := []float64{1, 2, 3, math.NaN(), 4, 5, 6, 7, 8, 9, 10}
	statistic, p := KolmogorovSmirnovTest(x, y)
	assert.Equal(t, 0.0, statistic)
	assert.Greater(t, p, 0.9)
}

func TestKolmogorovSmirnov_EmptySample(t *testing.T) {
	statistic, p := KolmogorovSmirnovTest(nil, []float64{1, 2, 3})
	assert.Equal(t, 0.0, statistic)
	assert.Equal(t, 1.0, p)
}

func TestKolmogorovSmirnov_ShiftedDistributions(t *testing.T) {
	// same shape shifted well apart: p must drop monotonically with the shift
	base := make([]float64, 100)
	for i := range base {
		base[i] = float64(i % 10)
	}
	small := make([]float64, 100)
	large := make([]float64, 100)
	for i := range base {
		small[i] = base[i] + 0.1
		large[i] = base[i] + 5
	}
	_, pSmall := KolmogorovSmirnovTest(base, small)
	_, pLarge := KolmogorovSmirnovTest(base, large)
	assert.Greater(t, pSmall, pLarge)
}
