/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Missing-value sentinel written to and accepted from CSV files. The upstream
// store encodes unknown feature values as "na".
const MissingToken = "na"

func parseCell(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return math.NaN()
	}
	switch strings.ToLower(trimmed) {
	case MissingToken, "nan", "null":
		return math.NaN()
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return MissingToken
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadCSV loads a frame from a headered CSV file.
func ReadCSV(fileName string) (*Frame, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	frame, err := ReadCSVReader(file)
	if err != nil {
		return nil, fmt.Errorf("csv file %s: %w", fileName, err)
	}
	return frame, nil
}

// ReadCSVReader loads a frame from headered CSV content, e.g. an uploaded
// file.
func ReadCSVReader(source io.Reader) (*Frame, error) {
	reader := csv.NewReader(source)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv content has no header row")
	}

	columns := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, fmt.Errorf("csv row has %d cells, expected %d", len(record), len(columns))
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			row[j] = parseCell(cell)
		}
		rows = append(rows, row)
	}
	return &Frame{Columns: columns, Rows: rows}, nil
}

// WriteCSV persists the frame as a headered CSV file, creating parent
// directories as needed.
func (f *Frame) WriteCSV(fileName string) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err = writer.Write(f.Columns); err != nil {
		return err
	}
	record := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for j, v := range row {
			record[j] = formatCell(v)
		}
		if err = writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMatrixCSV persists a numeric matrix with a generated header. Used for
// the transformed [features|target] arrays where original column names no
// longer apply.
func WriteMatrixCSV(fileName string, matrix [][]float64) error {
	columns := make([]string, 0)
	if len(matrix) > 0 {
		columns = make([]string, len(matrix[0]))
		for j := range columns {
			columns[j] = "c" + strconv.Itoa(j)
		}
	}
	frame := &Frame{Columns: columns, Rows: matrix}
	return frame.WriteCSV(fileName)
}

// ReadMatrixCSV loads a numeric matrix written by WriteMatrixCSV.
func ReadMatrixCSV(fileName string) ([][]float64, error) {
	frame, err := ReadCSV(fileName)
	if err != nil {
		return nil, err
	}
	return frame.Rows, nil
}
