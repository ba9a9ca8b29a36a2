/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/estimator"
	"phishnet/pkg/helpers"
	"phishnet/pkg/imputer"
	"phishnet/pkg/tracker"
)

func testConfig(t *testing.T, bundleDir string) config.TrainerConfig {
	base := t.TempDir()
	return config.TrainerConfig{
		RunID:                    "test_run",
		ModelFilePath:            filepath.Join(base, "trained_model", "model.gob"),
		FinalModelFilePath:       filepath.Join(bundleDir, "model.gob"),
		FinalTransformerFilePath: filepath.Join(bundleDir, "imputer.gob"),
		MinAccuracy:              0.6,
		OverfitThreshold:         0.05,
		CVFolds:                  3,
		RandomSeed:               42,
	}
}

// separableArray writes a [features|label] matrix of two well-separated
// clusters so every candidate model can classify it.
func separableArray(t *testing.T, fileName string, rows int, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	matrix := make([][]float64, rows)
	for i := range matrix {
		label := float64(i % 2)
		center := label * 10
		matrix[i] = []float64{
			center + rnd.Float64(),
			center + rnd.Float64(),
			-center + rnd.Float64(),
			label,
		}
	}
	require.NoError(t, dataset.WriteMatrixCSV(fileName, matrix))
}

func writeTrainingInput(t *testing.T, storage helpers.MLStorageInterface) artifact.TransformationArtifact {
	base := t.TempDir()
	input := artifact.TransformationArtifact{
		TransformedTrainFilePath: filepath.Join(base, "train.csv"),
		TransformedTestFilePath:  filepath.Join(base, "test.csv"),
		TransformerFilePath:      filepath.Join(base, "imputer.gob"),
	}
	separableArray(t, input.TransformedTrainFilePath, 60, 1)
	separableArray(t, input.TransformedTestFilePath, 20, 2)

	fitted := imputer.NewKNNImputer(3)
	_, err := fitted.FitTransform([][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)
	require.NoError(t, storage.SaveGob(input.TransformerFilePath, fitted))
	return input
}

type recordingTracker struct {
	runs    int
	metrics map[string]float64
	models  int
	failAll bool
}

func (r *recordingTracker) BeginRun(tags map[string]string) (tracker.RunHandle, error) {
	if r.failAll {
		return tracker.RunHandle{}, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO, "tracker down")
	}
	r.runs++
	return tracker.RunHandle{RunID: tags["split"]}, nil
}

func (r *recordingTracker) LogMetric(run tracker.RunHandle, name string, value float64) error {
	if r.metrics == nil {
		r.metrics = make(map[string]float64)
	}
	r.metrics[run.RunID+"/"+name] = value
	return nil
}

func (r *recordingTracker) LogModel(run tracker.RunHandle, modelFilePath string, name string) error {
	r.models++
	return nil
}

func (r *recordingTracker) EndRun(run tracker.RunHandle) error { return nil }

func TestTrain_SelectsModelAndPublishesBundle(t *testing.T) {
	bundleDir := filepath.Join(t.TempDir(), "final_model")
	storage := helpers.NewMLStorage(bundleDir, logger.NewMockClient())
	cfg := testConfig(t, bundleDir)
	input := writeTrainingInput(t, storage)

	experiment := &recordingTracker{}
	mt := NewModelTrainer(cfg, storage, experiment, logger.NewMockClient())

	result, err := mt.Train(input)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ModelName)
	assert.GreaterOrEqual(t, result.TestMetrics.Accuracy, cfg.MinAccuracy)
	assert.LessOrEqual(t, result.TrainMetrics.Accuracy-result.TestMetrics.Accuracy, cfg.OverfitThreshold)

	// deployable bundle holds exactly the (model, imputer) pair
	assert.True(t, storage.FileExists(storage.BundleModelFile()))
	assert.True(t, storage.FileExists(storage.BundleTransformerFile()))

	var saved estimator.SavedModel
	require.NoError(t, storage.LoadGob(storage.BundleModelFile(), &saved))
	assert.Equal(t, result.ModelName, saved.Name)
	predictions, err := saved.Model.Predict([][]float64{{0.5, 0.5, 0.5}, {10.5, 10.5, -9.5}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, predictions)

	// one tracking run per split, model uploaded on both
	assert.Equal(t, 2, experiment.runs)
	assert.Equal(t, 2, experiment.models)
	assert.Equal(t, result.TestMetrics.Accuracy, experiment.metrics["test/accuracy"])
	assert.Equal(t, result.TrainMetrics.F1Score, experiment.metrics["train/f1_score"])
}

func TestTrain_SurvivesTrackerOutage(t *testing.T) {
	bundleDir := filepath.Join(t.TempDir(), "final_model")
	storage := helpers.NewMLStorage(bundleDir, logger.NewMockClient())
	cfg := testConfig(t, bundleDir)
	input := writeTrainingInput(t, storage)

	mt := NewModelTrainer(cfg, storage, &recordingTracker{failAll: true}, logger.NewMockClient())
	result, err := mt.Train(input)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ModelName)
	assert.True(t, storage.FileExists(storage.BundleModelFile()))
}

func TestCheckQualityGates(t *testing.T) {
	bundleDir := t.TempDir()
	mt := NewModelTrainer(testConfig(t, bundleDir),
		helpers.NewMLStorage(bundleDir, logger.NewMockClient()), tracker.NoopTracker{}, logger.NewMockClient())

	tests := []struct {
		name          string
		trainAccuracy float64
		testAccuracy  float64
		wantType      phishnetErrors.ErrorType
	}{
		{"passes comfortably", 0.85, 0.82, ""},
		{"exactly minimum accuracy passes", 0.6, 0.6, ""},
		{"exactly threshold gap passes", 0.85, 0.8, ""},
		{"below minimum accuracy", 0.62, 0.59, phishnetErrors.ErrorTypeUnderfitting},
		{"memorized training split", 0.99, 0.9, phishnetErrors.ErrorTypeOverfit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mt.checkQualityGates(tt.trainAccuracy, tt.testAccuracy)
			if tt.wantType == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.True(t, err.IsErrorType(tt.wantType))
		})
	}
}

func TestTrain_UnderfittingGate(t *testing.T) {
	bundleDir := filepath.Join(t.TempDir(), "final_model")
	storage := helpers.NewMLStorage(bundleDir, logger.NewMockClient())
	cfg := testConfig(t, bundleDir)
	cfg.MinAccuracy = 1.0
	cfg.OverfitThreshold = 0.99

	base := t.TempDir()
	input := artifact.TransformationArtifact{
		TransformedTrainFilePath: filepath.Join(base, "train.csv"),
		TransformedTestFilePath:  filepath.Join(base, "test.csv"),
		TransformerFilePath:      filepath.Join(base, "imputer.gob"),
	}
	// labels are independent of the features, so no candidate reaches
	// perfect evaluation accuracy
	rnd := rand.New(rand.NewSource(7))
	noise := func(fileName string, rows int) {
		matrix := make([][]float64, rows)
		for i := range matrix {
			matrix[i] = []float64{rnd.Float64(), rnd.Float64(), float64(rnd.Intn(2))}
		}
		require.NoError(t, dataset.WriteMatrixCSV(fileName, matrix))
	}
	noise(input.TransformedTrainFilePath, 60)
	noise(input.TransformedTestFilePath, 40)
	require.NoError(t, storage.SaveGob(input.TransformerFilePath, imputer.NewKNNImputer(3)))

	mt := NewModelTrainer(cfg, storage, tracker.NoopTracker{}, logger.NewMockClient())
	_, err := mt.Train(input)
	require.Error(t, err)
	pipelineErr, ok := err.(phishnetErrors.PipelineError)
	require.True(t, ok)
	assert.True(t, pipelineErr.IsErrorType(phishnetErrors.ErrorTypeUnderfitting))
	// a gated model never reaches the bundle
	assert.False(t, storage.FileExists(storage.BundleModelFile()))
}
