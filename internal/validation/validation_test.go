/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package validation

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/helpers"
)

func testConfig(t *testing.T, expectedColumns int) config.ValidationConfig {
	base := t.TempDir()
	return config.ValidationConfig{
		RunID:               "test_run",
		ValidTrainFilePath:  filepath.Join(base, "validated", "train.csv"),
		ValidTestFilePath:   filepath.Join(base, "validated", "test.csv"),
		DriftReportFilePath: filepath.Join(base, "drift_report", "report.json"),
		ExpectedColumnCount: expectedColumns,
		TargetColumn:        "Result",
		DriftSignificance:   0.05,
		MinDriftSamples:     10,
	}
}

// writeSubsets persists two generated frames and returns the ingestion
// artifact pointing at them.
func writeSubsets(t *testing.T, train *dataset.Frame, test *dataset.Frame) artifact.IngestionArtifact {
	base := t.TempDir()
	input := artifact.IngestionArtifact{
		TrainFilePath: filepath.Join(base, "train.csv"),
		TestFilePath:  filepath.Join(base, "test.csv"),
	}
	require.NoError(t, train.WriteCSV(input.TrainFilePath))
	require.NoError(t, test.WriteCSV(input.TestFilePath))
	return input
}

// sampledFrame builds rows where feature f0 is drawn around the given center
// so drift between two frames is controlled by the centers.
func sampledFrame(rows int, center float64, seed int64) *dataset.Frame {
	rnd := rand.New(rand.NewSource(seed))
	frame := &dataset.Frame{Columns: []string{"f0", "f1", "Result"}}
	for i := 0; i < rows; i++ {
		frame.Rows = append(frame.Rows, []float64{center + rnd.Float64(), float64(i % 2), 1})
	}
	return frame
}

func readReport(t *testing.T, fileName string) map[string]artifact.ColumnDriftRecord {
	payload, err := os.ReadFile(fileName)
	require.NoError(t, err)
	var report map[string]artifact.ColumnDriftRecord
	require.NoError(t, json.Unmarshal(payload, &report))
	return report
}

func TestValidate_AcceptsMatchingSchema(t *testing.T) {
	cfg := testConfig(t, 3)
	input := writeSubsets(t, sampledFrame(80, 0, 1), sampledFrame(20, 0, 2))
	dv := NewDataValidation(cfg, helpers.NewMLStorage(t.TempDir(), logger.NewMockClient()), logger.NewMockClient())

	result, err := dv.Validate(input)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	copied, err := dataset.ReadCSV(result.ValidTrainFilePath)
	require.NoError(t, err)
	assert.Equal(t, 80, copied.NumRows())

	report := readReport(t, result.DriftReportFilePath)
	// every feature column gets an entry, the target never does
	assert.Len(t, report, 2)
	assert.Contains(t, report, "f0")
	assert.Contains(t, report, "f1")
	assert.NotContains(t, report, "Result")
}

func TestValidate_ColumnCountMismatch(t *testing.T) {
	cfg := testConfig(t, 4)
	input := writeSubsets(t, sampledFrame(80, 0, 1), sampledFrame(20, 0, 2))
	dv := NewDataValidation(cfg, helpers.NewMLStorage(t.TempDir(), logger.NewMockClient()), logger.NewMockClient())

	result, err := dv.Validate(input)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "3 columns, expected 4")

	// no validated subsets on schema failure, but the drift report is still
	// written
	_, statErr := os.Stat(result.ValidTrainFilePath)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(result.DriftReportFilePath)
	assert.NoError(t, statErr)
}

func TestValidate_MissingTargetColumn(t *testing.T) {
	cfg := testConfig(t, 3)
	frame := sampledFrame(80, 0, 1)
	frame.Columns = []string{"f0", "f1", "f2"}
	input := writeSubsets(t, frame, frame)
	dv := NewDataValidation(cfg, helpers.NewMLStorage(t.TempDir(), logger.NewMockClient()), logger.NewMockClient())

	result, err := dv.Validate(input)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "target column Result missing")
}

func TestValidate_FlagsDriftedColumn(t *testing.T) {
	cfg := testConfig(t, 3)
	// f0 supports are disjoint between the subsets, f1 is identically
	// distributed
	input := writeSubsets(t, sampledFrame(80, 0, 1), sampledFrame(40, 10, 2))
	dv := NewDataValidation(cfg, helpers.NewMLStorage(t.TempDir(), logger.NewMockClient()), logger.NewMockClient())

	result, err := dv.Validate(input)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	report := readReport(t, result.DriftReportFilePath)
	assert.True(t, report["f0"].Drift)
	assert.InDelta(t, 1.0, report["f0"].Statistic, 1e-12)
	assert.False(t, report["f1"].Drift)
}

func TestValidate_SmallSampleGuard(t *testing.T) {
	cfg := testConfig(t, 3)
	// disjoint supports would flag drift, but the evaluation subset is below
	// the minimum sample count
	input := writeSubsets(t, sampledFrame(80, 0, 1), sampledFrame(5, 10, 2))
	dv := NewDataValidation(cfg, helpers.NewMLStorage(t.TempDir(), logger.NewMockClient()), logger.NewMockClient())

	result, err := dv.Validate(input)
	require.NoError(t, err)

	report := readReport(t, result.DriftReportFilePath)
	assert.False(t, report["f0"].Drift)
	assert.Equal(t, 0.0, report["f0"].Statistic)
	assert.Equal(t, 1.0, report["f0"].PValue)
}
