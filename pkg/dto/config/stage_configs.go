/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"path/filepath"
	"time"
)

// RunTimestampLayout keys one pipeline execution's artifact directory.
const RunTimestampLayout = "01_02_2006_15_04_05"

// NewRunID formats the shared run identifier for one pipeline execution.
// Always created once at orchestration start and passed into every stage
// config so all stages agree on the artifact directory.
func NewRunID(t time.Time) string {
	return t.Format(RunTimestampLayout)
}

// Per-stage configs are immutable once built; stages read paths and
// parameters from them and never mutate shared state.

type IngestionConfig struct {
	RunID                string
	FeatureStoreFilePath string
	TrainFilePath        string
	TestFilePath         string
	TestSplitFraction    float64
	RandomSeed           int64
	DropColumns          []string
}

type ValidationConfig struct {
	RunID               string
	ValidTrainFilePath  string
	ValidTestFilePath   string
	DriftReportFilePath string
	ExpectedColumnCount int
	TargetColumn        string
	DriftSignificance   float64
	MinDriftSamples     int
}

type TransformationConfig struct {
	RunID                    string
	TransformedTrainFilePath string
	TransformedTestFilePath  string
	TransformerFilePath      string
	TargetColumn             string
	ImputerNeighbors         int
}

type TrainerConfig struct {
	RunID                    string
	ModelFilePath            string
	FinalModelFilePath       string
	FinalTransformerFilePath string
	MinAccuracy              float64
	OverfitThreshold         float64
	CVFolds                  int
	RandomSeed               int64
}

func NewIngestionConfig(cfg *PipelineConfig, runID string) IngestionConfig {
	base := stageDir(cfg, runID, "data_ingestion")
	return IngestionConfig{
		RunID:                runID,
		FeatureStoreFilePath: filepath.Join(base, "feature_store", "phishing_data.csv"),
		TrainFilePath:        filepath.Join(base, "ingested", "train.csv"),
		TestFilePath:         filepath.Join(base, "ingested", "test.csv"),
		TestSplitFraction:    cfg.TestSplitFraction,
		RandomSeed:           cfg.RandomSeed,
		DropColumns:          []string{"_id"},
	}
}

func NewValidationConfig(cfg *PipelineConfig, runID string) ValidationConfig {
	base := stageDir(cfg, runID, "data_validation")
	return ValidationConfig{
		RunID:               runID,
		ValidTrainFilePath:  filepath.Join(base, "validated", "train.csv"),
		ValidTestFilePath:   filepath.Join(base, "validated", "test.csv"),
		DriftReportFilePath: filepath.Join(base, "drift_report", "report.json"),
		ExpectedColumnCount: cfg.ExpectedColumnCount,
		TargetColumn:        cfg.TargetColumn,
		DriftSignificance:   cfg.DriftSignificance,
		MinDriftSamples:     cfg.MinDriftSamples,
	}
}

func NewTransformationConfig(cfg *PipelineConfig, runID string) TransformationConfig {
	base := stageDir(cfg, runID, "data_transformation")
	return TransformationConfig{
		RunID:                    runID,
		TransformedTrainFilePath: filepath.Join(base, "transformed", "train.csv"),
		TransformedTestFilePath:  filepath.Join(base, "transformed", "test.csv"),
		TransformerFilePath:      filepath.Join(base, "transformed_object", "imputer.gob"),
		TargetColumn:             cfg.TargetColumn,
		ImputerNeighbors:         cfg.ImputerNeighbors,
	}
}

func NewTrainerConfig(cfg *PipelineConfig, runID string) TrainerConfig {
	base := stageDir(cfg, runID, "model_trainer")
	return TrainerConfig{
		RunID:                    runID,
		ModelFilePath:            filepath.Join(base, "trained_model", "model.gob"),
		FinalModelFilePath:       filepath.Join(cfg.FinalModelDir, "model.gob"),
		FinalTransformerFilePath: filepath.Join(cfg.FinalModelDir, "imputer.gob"),
		MinAccuracy:              cfg.MinAccuracy,
		OverfitThreshold:         cfg.OverfitThreshold,
		CVFolds:                  cfg.CVFolds,
		RandomSeed:               cfg.RandomSeed,
	}
}

// RunDir is the write-once artifact directory of one pipeline execution.
func RunDir(cfg *PipelineConfig, runID string) string {
	return filepath.Join(cfg.ArtifactBaseDir, runID)
}

func stageDir(cfg *PipelineConfig, runID string, stage string) string {
	return filepath.Join(RunDir(cfg, runID), stage)
}
