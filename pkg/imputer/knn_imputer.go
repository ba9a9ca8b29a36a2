/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package imputer

import (
	"errors"
	"math"
	"sort"
)

// KNNImputer fills missing feature values (NaN) with the uniform-weighted
// mean of the k nearest fit-set rows, using nan-euclidean distance over the
// coordinates observed in both rows. Fit retains only training rows, so
// evaluation data never influences the imputation model.
//
// Fields are exported for gob serialization; treat them as read-only.
type KNNImputer struct {
	Neighbors   int
	FitData     [][]float64
	ColumnMeans []float64
}

func NewKNNImputer(neighbors int) *KNNImputer {
	if neighbors <= 0 {
		neighbors = 3
	}
	return &KNNImputer{Neighbors: neighbors}
}

// Fit snapshots the training feature matrix as the neighbor pool.
func (imp *KNNImputer) Fit(features [][]float64) error {
	if len(features) == 0 {
		return errors.New("imputer: empty feature matrix")
	}
	columns := len(features[0])
	imp.FitData = make([][]float64, len(features))
	for i, row := range features {
		if len(row) != columns {
			return errors.New("imputer: ragged feature matrix")
		}
		imp.FitData[i] = append([]float64(nil), row...)
	}

	// column means over observed values, fallback when a row has no usable
	// neighbors for a column
	imp.ColumnMeans = make([]float64, columns)
	for j := 0; j < columns; j++ {
		sum, count := 0.0, 0
		for _, row := range imp.FitData {
			if !math.IsNaN(row[j]) {
				sum += row[j]
				count++
			}
		}
		if count > 0 {
			imp.ColumnMeans[j] = sum / float64(count)
		}
	}
	return nil
}

// Transform returns a copy of features with every NaN replaced.
func (imp *KNNImputer) Transform(features [][]float64) ([][]float64, error) {
	if imp.FitData == nil {
		return nil, errors.New("imputer: Transform called before Fit")
	}
	out := make([][]float64, len(features))
	for i, row := range features {
		if len(row) != len(imp.ColumnMeans) {
			return nil, errors.New("imputer: feature count differs from fitted data")
		}
		newRow := append([]float64(nil), row...)
		for j, v := range newRow {
			if math.IsNaN(v) {
				newRow[j] = imp.imputeValue(row, j)
			}
		}
		out[i] = newRow
	}
	return out, nil
}

func (imp *KNNImputer) FitTransform(features [][]float64) ([][]float64, error) {
	if err := imp.Fit(features); err != nil {
		return nil, err
	}
	return imp.Transform(features)
}

type neighbor struct {
	distance float64
	value    float64
	index    int
}

func (imp *KNNImputer) imputeValue(row []float64, column int) float64 {
	candidates := make([]neighbor, 0, len(imp.FitData))
	for idx, fitRow := range imp.FitData {
		if math.IsNaN(fitRow[column]) {
			continue
		}
		d := nanEuclidean(row, fitRow)
		if math.IsInf(d, 1) {
			continue
		}
		candidates = append(candidates, neighbor{distance: d, value: fitRow[column], index: idx})
	}
	if len(candidates) == 0 {
		return imp.ColumnMeans[column]
	}

	// deterministic tie-break on fit-row index
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].distance != candidates[b].distance {
			return candidates[a].distance < candidates[b].distance
		}
		return candidates[a].index < candidates[b].index
	})

	k := imp.Neighbors
	if k > len(candidates) {
		k = len(candidates)
	}
	sum := 0.0
	for _, c := range candidates[:k] {
		sum += c.value
	}
	return sum / float64(k)
}

// nanEuclidean scales the squared distance over commonly observed coordinates
// up to the full coordinate count. +Inf when the rows share no observed
// coordinate.
func nanEuclidean(a []float64, b []float64) float64 {
	total := len(a)
	observed := 0
	sum := 0.0
	for j := 0; j < total; j++ {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		diff := a[j] - b[j]
		sum += diff * diff
		observed++
	}
	if observed == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(float64(total) / float64(observed) * sum)
}
