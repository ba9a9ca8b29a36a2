/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package artifact

// Stage artifacts: each pipeline stage constructs exactly one of these as its
// return value and the next stage consumes it as input. Immutable once built.

type IngestionArtifact struct {
	TrainFilePath string
	TestFilePath  string
}

type ValidationArtifact struct {
	Valid               bool
	Message             string
	ValidTrainFilePath  string
	ValidTestFilePath   string
	DriftReportFilePath string
}

type TransformationArtifact struct {
	TransformedTrainFilePath string
	TransformedTestFilePath  string
	TransformerFilePath      string
}

// ClassificationMetrics is computed once per (model, dataset-split) pair.
// Accuracy is the selection and quality-gate score; F1, precision and recall
// are reported to the experiment tracker alongside it.
type ClassificationMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	F1Score   float64 `json:"f1_score"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

type TrainerArtifact struct {
	ModelName     string
	ModelFilePath string
	TrainMetrics  ClassificationMetrics
	TestMetrics   ClassificationMetrics
}

// ColumnDriftRecord is one entry of the drift report.
type ColumnDriftRecord struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Drift     bool    `json:"drift"`
}
