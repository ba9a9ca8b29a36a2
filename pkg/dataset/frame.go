/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Frame is a rectangular dataset: named columns over row-major float64 values.
// Missing values are math.NaN().
type Frame struct {
	Columns []string
	Rows    [][]float64
}

func NewFrame(columns []string, rows [][]float64) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

func (f *Frame) NumRows() int {
	return len(f.Rows)
}

func (f *Frame) NumColumns() int {
	return len(f.Columns)
}

func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]float64, error) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %s not found", name)
	}
	values := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// DropColumn returns a new frame without the named column. Dropping a column
// that does not exist is a no-op so callers need not check for the
// database-internal identifier being present.
func (f *Frame) DropColumn(name string) *Frame {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return f
	}
	columns := make([]string, 0, len(f.Columns)-1)
	columns = append(columns, f.Columns[:idx]...)
	columns = append(columns, f.Columns[idx+1:]...)
	rows := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		newRow := make([]float64, 0, len(row)-1)
		newRow = append(newRow, row[:idx]...)
		newRow = append(newRow, row[idx+1:]...)
		rows[i] = newRow
	}
	return &Frame{Columns: columns, Rows: rows}
}

// SeparateTarget splits the frame into a feature matrix and the target column.
func (f *Frame) SeparateTarget(target string) ([][]float64, []float64, error) {
	idx := f.ColumnIndex(target)
	if idx < 0 {
		return nil, nil, fmt.Errorf("target column %s not found", target)
	}
	features := make([][]float64, len(f.Rows))
	y := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		featureRow := make([]float64, 0, len(row)-1)
		featureRow = append(featureRow, row[:idx]...)
		featureRow = append(featureRow, row[idx+1:]...)
		features[i] = featureRow
		y[i] = row[idx]
	}
	return features, y, nil
}

// FeatureColumns returns the column names minus the target column.
func (f *Frame) FeatureColumns(target string) []string {
	columns := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		if c != target {
			columns = append(columns, c)
		}
	}
	return columns
}

// Split partitions the rows randomly into two frames. fraction is the share
// of rows assigned to the second (evaluation) frame. The permutation is
// seeded so a fixed seed reproduces the same split.
func (f *Frame) Split(fraction float64, seed int64) (*Frame, *Frame) {
	n := len(f.Rows)
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	nTest := int(float64(n) * fraction)

	testRows := make([][]float64, 0, nTest)
	trainRows := make([][]float64, 0, n-nTest)
	for i, idx := range indices {
		if i < nTest {
			testRows = append(testRows, f.Rows[idx])
		} else {
			trainRows = append(trainRows, f.Rows[idx])
		}
	}
	return &Frame{Columns: f.Columns, Rows: trainRows},
		&Frame{Columns: f.Columns, Rows: testRows}
}

// FromDocuments flattens document-database records into a frame. Column order
// is the sorted union of keys so the layout is stable across fetches.
// Non-numeric and missing fields become NaN.
func FromDocuments(docs []map[string]interface{}) *Frame {
	columnSet := make(map[string]struct{})
	for _, doc := range docs {
		for key := range doc {
			columnSet[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = toFloat(doc[col])
		}
		rows[i] = row
	}
	return &Frame{Columns: columns, Rows: rows}
}

func toFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case bool:
		if value {
			return 1
		}
		return 0
	case string:
		return parseCell(value)
	default:
		return math.NaN()
	}
}
