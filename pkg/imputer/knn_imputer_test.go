/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package imputer

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKNNImputer_FillsFromNearestNeighbors(t *testing.T) {
	// rows 0 and 1 are closest to the probe row; their column-1 mean is 15
	train := [][]float64{
		{1, 10},
		{2, 20},
		{100, 1000},
	}
	imp := NewKNNImputer(2)
	require.NoError(t, imp.Fit(train))

	out, err := imp.Transform([][]float64{{1.5, math.NaN()}})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, out[0][1], 1e-9)
	assert.Equal(t, 1.5, out[0][0], "observed values pass through unchanged")
}

func TestKNNImputer_LeakageFreedom(t *testing.T) {
	train := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	imp := NewKNNImputer(3)
	require.NoError(t, imp.Fit(train))

	fitSnapshot := make([][]float64, len(imp.FitData))
	for i, row := range imp.FitData {
		fitSnapshot[i] = append([]float64(nil), row...)
	}

	// transforming wildly different evaluation data must not move the fitted state
	_, err := imp.Transform([][]float64{{1e9, math.NaN()}, {math.NaN(), -1e9}})
	require.NoError(t, err)
	assert.Equal(t, fitSnapshot, imp.FitData)

	// and two transforms of the same row give the same imputation
	a, err := imp.Transform([][]float64{{2.2, math.NaN()}})
	require.NoError(t, err)
	b, err := imp.Transform([][]float64{{2.2, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKNNImputer_FallsBackToColumnMean(t *testing.T) {
	// no fit row observes column 0 together with anything usable for a fully
	// missing probe row, so the column mean is used
	train := [][]float64{{2, 1}, {4, 1}}
	imp := NewKNNImputer(3)
	require.NoError(t, imp.Fit(train))

	out, err := imp.Transform([][]float64{{math.NaN(), math.NaN()}})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out[0][0], 1e-9)
	assert.InDelta(t, 1.0, out[0][1], 1e-9)
}

func TestKNNImputer_TransformBeforeFit(t *testing.T) {
	imp := NewKNNImputer(3)
	_, err := imp.Transform([][]float64{{1}})
	assert.Error(t, err)
}

func TestKNNImputer_FeatureCountMismatch(t *testing.T) {
	imp := NewKNNImputer(3)
	require.NoError(t, imp.Fit([][]float64{{1, 2}}))
	_, err := imp.Transform([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestKNNImputer_GobRoundTrip(t *testing.T) {
	imp := NewKNNImputer(2)
	require.NoError(t, imp.Fit([][]float64{{1, 10}, {2, 20}, {3, 30}}))

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(imp))
	var loaded KNNImputer
	require.NoError(t, gob.NewDecoder(&buf).Decode(&loaded))

	want, err := imp.Transform([][]float64{{2.5, math.NaN()}})
	require.NoError(t, err)
	got, err := loaded.Transform([][]float64{{2.5, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
