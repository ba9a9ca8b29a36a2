/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/config"
)

type fakeDataSource struct {
	frame *dataset.Frame
	err   error
}

func (f *fakeDataSource) FetchAll(ctx context.Context) (*dataset.Frame, error) {
	return f.frame, f.err
}

func testConfig(t *testing.T) config.IngestionConfig {
	base := t.TempDir()
	return config.IngestionConfig{
		RunID:                "test_run",
		FeatureStoreFilePath: filepath.Join(base, "feature_store", "phishing_data.csv"),
		TrainFilePath:        filepath.Join(base, "ingested", "train.csv"),
		TestFilePath:         filepath.Join(base, "ingested", "test.csv"),
		TestSplitFraction:    0.2,
		RandomSeed:           42,
		DropColumns:          []string{"_id"},
	}
}

func buildFrame(rows int) *dataset.Frame {
	frame := &dataset.Frame{Columns: []string{"_id", "f0", "f1", "Result"}}
	for i := 0; i < rows; i++ {
		frame.Rows = append(frame.Rows, []float64{float64(i), float64(i % 3), float64(i % 5), 1})
	}
	return frame
}

func TestIngest_SplitsAndDropsInternalColumns(t *testing.T) {
	cfg := testConfig(t)
	di := NewDataIngestion(cfg, &fakeDataSource{frame: buildFrame(100)}, logger.NewMockClient())

	result, err := di.Ingest(context.Background())
	require.NoError(t, err)

	train, err := dataset.ReadCSV(result.TrainFilePath)
	require.NoError(t, err)
	test, err := dataset.ReadCSV(result.TestFilePath)
	require.NoError(t, err)

	assert.Equal(t, 80, train.NumRows())
	assert.Equal(t, 20, test.NumRows())
	assert.Equal(t, []string{"f0", "f1", "Result"}, train.Columns)
	assert.Equal(t, []string{"f0", "f1", "Result"}, test.Columns)

	snapshot, err := dataset.ReadCSV(cfg.FeatureStoreFilePath)
	require.NoError(t, err)
	assert.Equal(t, 100, snapshot.NumRows())
	assert.Equal(t, -1, snapshot.ColumnIndex("_id"))
}

func TestIngest_Reproducible(t *testing.T) {
	cfg := testConfig(t)
	di := NewDataIngestion(cfg, &fakeDataSource{frame: buildFrame(50)}, logger.NewMockClient())
	_, err := di.Ingest(context.Background())
	require.NoError(t, err)
	firstTrain, err := dataset.ReadCSV(cfg.TrainFilePath)
	require.NoError(t, err)

	cfg2 := testConfig(t)
	di2 := NewDataIngestion(cfg2, &fakeDataSource{frame: buildFrame(50)}, logger.NewMockClient())
	_, err = di2.Ingest(context.Background())
	require.NoError(t, err)
	secondTrain, err := dataset.ReadCSV(cfg2.TrainFilePath)
	require.NoError(t, err)

	assert.Equal(t, firstTrain.Rows, secondTrain.Rows)
}

func TestIngest_DataSourceFailure(t *testing.T) {
	cfg := testConfig(t)
	sourceErr := phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDataSource, "collection returned zero rows")
	di := NewDataIngestion(cfg, &fakeDataSource{err: sourceErr}, logger.NewMockClient())

	_, err := di.Ingest(context.Background())
	require.Error(t, err)

	pipelineErr, ok := err.(phishnetErrors.PipelineError)
	require.True(t, ok)
	assert.True(t, pipelineErr.IsErrorType(phishnetErrors.ErrorTypeDataSource))
	assert.Equal(t, "data_ingestion", pipelineErr.Stage())
}
