/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"fmt"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/estimator"
	"phishnet/pkg/helpers"
	"phishnet/pkg/tracker"
)

const stageName = "model_trainer"

// ModelTrainer runs the estimator selection loop over the transformed arrays,
// applies the quality gates, records the outcome with the experiment tracker,
// and publishes the deployable (model, imputer) bundle.
type ModelTrainer struct {
	cfg        config.TrainerConfig
	storage    helpers.MLStorageInterface
	experiment tracker.ExperimentTracker
	candidates []estimator.Candidate
	lc         logger.LoggingClient
}

func NewModelTrainer(cfg config.TrainerConfig, storage helpers.MLStorageInterface,
	experiment tracker.ExperimentTracker, lc logger.LoggingClient) *ModelTrainer {
	return &ModelTrainer{
		cfg:        cfg,
		storage:    storage,
		experiment: experiment,
		candidates: estimator.DefaultCandidates(),
		lc:         lc,
	}
}

type fittedCandidate struct {
	name         string
	model        estimator.Estimator
	params       estimator.Params
	trainMetrics artifact.ClassificationMetrics
	testMetrics  artifact.ClassificationMetrics
}

func (mt *ModelTrainer) Train(input artifact.TransformationArtifact) (artifact.TrainerArtifact, error) {
	mt.lc.Infof("starting model training for run %s", mt.cfg.RunID)

	trainX, trainY, err := loadArray(input.TransformedTrainFilePath)
	if err != nil {
		return artifact.TrainerArtifact{}, phishnetErrors.NewStageError(stageName, "failed to load transformed training array", err)
	}
	testX, testY, err := loadArray(input.TransformedTestFilePath)
	if err != nil {
		return artifact.TrainerArtifact{}, phishnetErrors.NewStageError(stageName, "failed to load transformed evaluation array", err)
	}

	best, err := mt.selectBestModel(trainX, trainY, testX, testY)
	if err != nil {
		return artifact.TrainerArtifact{}, err
	}
	mt.lc.Infof("selected model %s with evaluation accuracy %.4f", best.name, best.testMetrics.Accuracy)

	if gateErr := mt.checkQualityGates(best.trainMetrics.Accuracy, best.testMetrics.Accuracy); gateErr != nil {
		return artifact.TrainerArtifact{}, gateErr
	}

	if err = mt.storage.SaveGob(mt.cfg.ModelFilePath, &estimator.SavedModel{Name: best.name, Model: best.model}); err != nil {
		return artifact.TrainerArtifact{}, phishnetErrors.NewStageError(stageName, "failed to persist trained model", err)
	}

	// tracking is advisory; a tracker outage never fails a run whose model is
	// already persisted
	mt.recordExperiment(best)

	if err = mt.storage.WriteBundle(mt.cfg.ModelFilePath, input.TransformerFilePath); err != nil {
		return artifact.TrainerArtifact{}, phishnetErrors.NewStageError(stageName, "failed to publish deployable bundle", err)
	}

	return artifact.TrainerArtifact{
		ModelName:     best.name,
		ModelFilePath: mt.cfg.ModelFilePath,
		TrainMetrics:  best.trainMetrics,
		TestMetrics:   best.testMetrics,
	}, nil
}

// selectBestModel grid-searches every candidate on the training split, refits
// each winner on the full training data, and keeps the candidate with the
// highest evaluation accuracy.
func (mt *ModelTrainer) selectBestModel(trainX [][]float64, trainY []int,
	testX [][]float64, testY []int) (fittedCandidate, error) {
	var best fittedCandidate
	bestScore := -1.0
	for _, candidate := range mt.candidates {
		params, cvScore, err := estimator.GridSearchCV(candidate, trainX, trainY, mt.cfg.CVFolds, mt.cfg.RandomSeed)
		if err != nil {
			return fittedCandidate{}, phishnetErrors.NewStageError(stageName,
				fmt.Sprintf("grid search failed for %s", candidate.Name), err)
		}
		mt.lc.Debugf("%s cross-validation accuracy %.4f with params %v", candidate.Name, cvScore, params)

		model := candidate.New(params, mt.cfg.RandomSeed)
		if err = model.Fit(trainX, trainY); err != nil {
			return fittedCandidate{}, phishnetErrors.NewStageError(stageName,
				fmt.Sprintf("refit failed for %s", candidate.Name), err)
		}
		trainMetrics, err := scoreModel(model, trainX, trainY)
		if err != nil {
			return fittedCandidate{}, phishnetErrors.NewStageError(stageName,
				fmt.Sprintf("training-split scoring failed for %s", candidate.Name), err)
		}
		testMetrics, err := scoreModel(model, testX, testY)
		if err != nil {
			return fittedCandidate{}, phishnetErrors.NewStageError(stageName,
				fmt.Sprintf("evaluation-split scoring failed for %s", candidate.Name), err)
		}
		mt.lc.Infof("%s: train accuracy %.4f, evaluation accuracy %.4f",
			candidate.Name, trainMetrics.Accuracy, testMetrics.Accuracy)

		if testMetrics.Accuracy > bestScore {
			bestScore = testMetrics.Accuracy
			best = fittedCandidate{
				name:         candidate.Name,
				model:        model,
				params:       params,
				trainMetrics: trainMetrics,
				testMetrics:  testMetrics,
			}
		}
	}
	if best.model == nil {
		return fittedCandidate{}, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypePipeline,
			"no candidate model could be trained")
	}
	return best, nil
}

// checkQualityGates rejects models that are too weak or that memorized the
// training split. A model scoring exactly the minimum accuracy passes.
func (mt *ModelTrainer) checkQualityGates(trainAccuracy float64, testAccuracy float64) phishnetErrors.PipelineError {
	if testAccuracy < mt.cfg.MinAccuracy {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeUnderfitting,
			fmt.Sprintf("best model evaluation accuracy %.4f is below the minimum %.4f", testAccuracy, mt.cfg.MinAccuracy))
	}
	if trainAccuracy-testAccuracy > mt.cfg.OverfitThreshold {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeOverfit,
			fmt.Sprintf("train/evaluation accuracy gap %.4f exceeds the threshold %.4f",
				trainAccuracy-testAccuracy, mt.cfg.OverfitThreshold))
	}
	return nil
}

// recordExperiment logs one tracking run per dataset split; any failure is a
// warning, never an error.
func (mt *ModelTrainer) recordExperiment(best fittedCandidate) {
	splits := []struct {
		tag     string
		metrics artifact.ClassificationMetrics
	}{
		{"train", best.trainMetrics},
		{"test", best.testMetrics},
	}
	for _, split := range splits {
		run, err := mt.experiment.BeginRun(map[string]string{
			"pipeline_run": mt.cfg.RunID,
			"model":        best.name,
			"split":        split.tag,
		})
		if err != nil {
			mt.lc.Warnf("experiment tracker unavailable, skipping %s run: %v", split.tag, err)
			continue
		}
		metricValues := map[string]float64{
			"accuracy":  split.metrics.Accuracy,
			"f1_score":  split.metrics.F1Score,
			"precision": split.metrics.Precision,
			"recall":    split.metrics.Recall,
		}
		for name, value := range metricValues {
			if err = mt.experiment.LogMetric(run, name, value); err != nil {
				mt.lc.Warnf("failed to log metric %s for %s run: %v", name, split.tag, err)
			}
		}
		if err = mt.experiment.LogModel(run, mt.cfg.ModelFilePath, best.name); err != nil {
			mt.lc.Warnf("failed to upload model artifact for %s run: %v", split.tag, err)
		}
		if err = mt.experiment.EndRun(run); err != nil {
			mt.lc.Warnf("failed to close %s tracking run: %v", split.tag, err)
		}
	}
}

func scoreModel(model estimator.Estimator, features [][]float64, labels []int) (artifact.ClassificationMetrics, error) {
	predictions, err := model.Predict(features)
	if err != nil {
		return artifact.ClassificationMetrics{}, err
	}
	precision, recall, f1 := estimator.PrecisionRecallF1(labels, predictions)
	return artifact.ClassificationMetrics{
		Accuracy:  estimator.Accuracy(labels, predictions),
		F1Score:   f1,
		Precision: precision,
		Recall:    recall,
	}, nil
}

// loadArray splits a transformed [features|target] matrix back into the
// feature matrix and integer label vector.
func loadArray(fileName string) ([][]float64, []int, error) {
	matrix, err := dataset.ReadMatrixCSV(fileName)
	if err != nil {
		return nil, nil, err
	}
	if len(matrix) == 0 {
		return nil, nil, fmt.Errorf("transformed array %s has no rows", fileName)
	}
	features := make([][]float64, len(matrix))
	labels := make([]int, len(matrix))
	for i, row := range matrix {
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("transformed array %s has a row with fewer than two columns", fileName)
		}
		features[i] = row[:len(row)-1]
		labels[i] = int(row[len(row)-1])
	}
	return features, labels, nil
}
