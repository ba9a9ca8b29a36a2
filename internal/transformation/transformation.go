/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package transformation

import (
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/helpers"
	"phishnet/pkg/imputer"
)

const stageName = "data_transformation"

// negativeClassSentinel is the raw storage encoding of the negative
// (phishing) class; it is remapped to 0 so downstream metric functions can
// assume binary 0/1 labels.
const negativeClassSentinel = -1

// DataTransformation separates the target column, canonicalizes labels, and
// fits the missing-value imputer on the training subset only.
type DataTransformation struct {
	cfg     config.TransformationConfig
	storage helpers.MLStorageInterface
	lc      logger.LoggingClient
}

func NewDataTransformation(cfg config.TransformationConfig, storage helpers.MLStorageInterface, lc logger.LoggingClient) *DataTransformation {
	return &DataTransformation{cfg: cfg, storage: storage, lc: lc}
}

func (dt *DataTransformation) Transform(input artifact.ValidationArtifact) (artifact.TransformationArtifact, error) {
	dt.lc.Infof("starting data transformation for run %s", dt.cfg.RunID)

	if !input.Valid {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName,
			"refusing to transform invalid data: "+input.Message,
			phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeSchema, input.Message))
	}

	train, err := dataset.ReadCSV(input.ValidTrainFilePath)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to read validated training subset", err)
	}
	test, err := dataset.ReadCSV(input.ValidTestFilePath)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to read validated evaluation subset", err)
	}

	trainFeatures, trainTarget, err := train.SeparateTarget(dt.cfg.TargetColumn)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to separate target column", err)
	}
	testFeatures, testTarget, err := test.SeparateTarget(dt.cfg.TargetColumn)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to separate target column", err)
	}

	remapLabels(trainTarget)
	remapLabels(testTarget)

	// fit on the training subset only so evaluation rows never leak into the
	// imputation model
	knnImputer := imputer.NewKNNImputer(dt.cfg.ImputerNeighbors)
	imputedTrain, err := knnImputer.FitTransform(trainFeatures)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to fit imputer on training subset", err)
	}
	imputedTest, err := knnImputer.Transform(testFeatures)
	if err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to impute evaluation subset", err)
	}

	if err = dataset.WriteMatrixCSV(dt.cfg.TransformedTrainFilePath, appendTarget(imputedTrain, trainTarget)); err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write transformed training array", err)
	}
	if err = dataset.WriteMatrixCSV(dt.cfg.TransformedTestFilePath, appendTarget(imputedTest, testTarget)); err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write transformed evaluation array", err)
	}
	if err = dt.storage.SaveGob(dt.cfg.TransformerFilePath, knnImputer); err != nil {
		return artifact.TransformationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to persist fitted imputer", err)
	}

	dt.lc.Infof("transformed %d training and %d evaluation rows", len(imputedTrain), len(imputedTest))
	return artifact.TransformationArtifact{
		TransformedTrainFilePath: dt.cfg.TransformedTrainFilePath,
		TransformedTestFilePath:  dt.cfg.TransformedTestFilePath,
		TransformerFilePath:      dt.cfg.TransformerFilePath,
	}, nil
}

// remapLabels canonicalizes the asymmetric ±1 target scheme: the negative
// sentinel becomes 0, every other value passes through unchanged.
func remapLabels(target []float64) {
	for i, v := range target {
		if v == negativeClassSentinel {
			target[i] = 0
		}
	}
}

func appendTarget(features [][]float64, target []float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		combined := make([]float64, len(row)+1)
		copy(combined, row)
		combined[len(row)] = target[i]
		out[i] = combined
	}
	return out
}
