/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dataset"
	"phishnet/pkg/drift"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/helpers"
)

const stageName = "data_validation"

// DataValidation checks the ingested subsets against the expected schema and
// computes the per-column drift report between them.
type DataValidation struct {
	cfg     config.ValidationConfig
	storage helpers.MLStorageInterface
	lc      logger.LoggingClient
}

func NewDataValidation(cfg config.ValidationConfig, storage helpers.MLStorageInterface, lc logger.LoggingClient) *DataValidation {
	return &DataValidation{cfg: cfg, storage: storage, lc: lc}
}

func (dv *DataValidation) Validate(input artifact.IngestionArtifact) (artifact.ValidationArtifact, error) {
	dv.lc.Infof("starting data validation for run %s", dv.cfg.RunID)

	train, err := dataset.ReadCSV(input.TrainFilePath)
	if err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to read training subset", err)
	}
	test, err := dataset.ReadCSV(input.TestFilePath)
	if err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to read evaluation subset", err)
	}

	result := artifact.ValidationArtifact{
		ValidTrainFilePath:  dv.cfg.ValidTrainFilePath,
		ValidTestFilePath:   dv.cfg.ValidTestFilePath,
		DriftReportFilePath: dv.cfg.DriftReportFilePath,
	}

	report, err := dv.buildDriftReport(train, test)
	if err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to compute drift report", err)
	}
	// the report is written regardless of drift or schema outcome
	if err = dv.writeDriftReport(report); err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write drift report", err)
	}

	if schemaErr := dv.checkSchema(train, test); schemaErr != nil {
		// a schema mismatch marks the run invalid but is not a stage failure;
		// downstream stages must check Valid before proceeding
		dv.lc.Errorf("schema validation failed: %s", schemaErr.Error())
		result.Valid = false
		result.Message = schemaErr.Error()
		return result, nil
	}

	if err = dv.storage.CopyFile(input.TrainFilePath, dv.cfg.ValidTrainFilePath); err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to copy validated training subset", err)
	}
	if err = dv.storage.CopyFile(input.TestFilePath, dv.cfg.ValidTestFilePath); err != nil {
		return artifact.ValidationArtifact{}, phishnetErrors.NewStageError(stageName, "failed to copy validated evaluation subset", err)
	}

	result.Valid = true
	return result, nil
}

func (dv *DataValidation) checkSchema(train *dataset.Frame, test *dataset.Frame) phishnetErrors.PipelineError {
	if train.NumColumns() != dv.cfg.ExpectedColumnCount {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeSchema,
			fmt.Sprintf("training subset has %d columns, expected %d", train.NumColumns(), dv.cfg.ExpectedColumnCount))
	}
	if test.NumColumns() != dv.cfg.ExpectedColumnCount {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeSchema,
			fmt.Sprintf("evaluation subset has %d columns, expected %d", test.NumColumns(), dv.cfg.ExpectedColumnCount))
	}
	if train.ColumnIndex(dv.cfg.TargetColumn) < 0 {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeSchema,
			fmt.Sprintf("target column %s missing from training subset", dv.cfg.TargetColumn))
	}
	return nil
}

// buildDriftReport runs the two-sample KS test per shared feature column.
// A column drifts exactly when p <= the configured significance. Columns
// with fewer valid values than MinDriftSamples on either side are recorded
// undrifted rather than risking a spurious flag from a tiny sample.
func (dv *DataValidation) buildDriftReport(train *dataset.Frame, test *dataset.Frame) (map[string]artifact.ColumnDriftRecord, error) {
	report := make(map[string]artifact.ColumnDriftRecord)
	driftedColumns := 0
	for _, column := range train.FeatureColumns(dv.cfg.TargetColumn) {
		if test.ColumnIndex(column) < 0 {
			continue
		}
		trainValues, err := train.Column(column)
		if err != nil {
			return nil, err
		}
		testValues, err := test.Column(column)
		if err != nil {
			return nil, err
		}

		if countValid(trainValues) < dv.cfg.MinDriftSamples || countValid(testValues) < dv.cfg.MinDriftSamples {
			report[column] = artifact.ColumnDriftRecord{Statistic: 0, PValue: 1, Drift: false}
			continue
		}

		statistic, pValue := drift.KolmogorovSmirnovTest(trainValues, testValues)
		record := artifact.ColumnDriftRecord{
			Statistic: statistic,
			PValue:    pValue,
			Drift:     pValue <= dv.cfg.DriftSignificance,
		}
		if record.Drift {
			driftedColumns++
		}
		report[column] = record
	}
	if driftedColumns > 0 {
		// drift is a recorded signal, not an error; training proceeds
		dv.lc.Warnf("drift detected in %d of %d columns", driftedColumns, len(report))
	}
	return report, nil
}

func countValid(values []float64) int {
	count := 0
	for _, v := range values {
		if v == v { // not NaN
			count++
		}
	}
	return count
}

func (dv *DataValidation) writeDriftReport(report map[string]artifact.ColumnDriftRecord) error {
	if err := os.MkdirAll(filepath.Dir(dv.cfg.DriftReportFilePath), os.ModePerm); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dv.cfg.DriftReportFilePath, payload, 0644)
}
