/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package pipeline

import (
	"context"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/google/uuid"

	phishnetErrors "phishnet/common/errors"
	"phishnet/internal/ingestion"
	"phishnet/internal/training"
	"phishnet/internal/transformation"
	"phishnet/internal/validation"
	"phishnet/pkg/datasource"
	"phishnet/pkg/db/redis"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/dto/job"
	"phishnet/pkg/helpers"
	"phishnet/pkg/storagesync"
	"phishnet/pkg/tracker"
)

// OrchestratorInterface runs the full training pipeline for one job.
type OrchestratorInterface interface {
	RunTrainingJob(ctx context.Context, jobID string)
	NewJobID() string
}

// Orchestrator wires the four pipeline stages into one linear run and keeps
// the job store up to date as the run progresses. Artifacts flow strictly
// forward; a stage only ever reads what the previous stage returned.
type Orchestrator struct {
	cfg        *config.PipelineConfig
	dataSource datasource.DataSource
	experiment tracker.ExperimentTracker
	syncer     storagesync.StorageSyncer
	jobStore   redis.JobStoreInterface
	lc         logger.LoggingClient
}

func NewOrchestrator(cfg *config.PipelineConfig, dataSource datasource.DataSource,
	experiment tracker.ExperimentTracker, syncer storagesync.StorageSyncer,
	jobStore redis.JobStoreInterface, lc logger.LoggingClient) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		dataSource: dataSource,
		experiment: experiment,
		syncer:     syncer,
		jobStore:   jobStore,
		lc:         lc,
	}
}

func (o *Orchestrator) NewJobID() string {
	return uuid.NewString()
}

// RunTrainingJob executes the pipeline end to end for one job, recording
// status transitions in the job store. Designed to run on its own goroutine;
// all failures end up in the job record rather than panicking the service.
func (o *Orchestrator) RunTrainingJob(ctx context.Context, jobID string) {
	runID := config.NewRunID(time.Now())
	details := job.TrainingJobDetails{
		JobID:      jobID,
		RunID:      runID,
		StatusCode: job.InProgress,
		Status:     job.InProgress.String(),
		StartTime:  time.Now().Unix(),
	}
	o.saveJob(details)

	trainerArtifact, err := o.runStages(ctx, runID)
	details.EndTime = time.Now().Unix()
	if err != nil {
		o.lc.Errorf("training job %s failed: %v", jobID, err)
		details.StatusCode = job.Failed
		details.Status = job.Failed.String()
		details.Msg = err.Error()
		o.saveJob(details)
		return
	}

	details.StatusCode = job.Completed
	details.Status = job.Completed.String()
	details.Msg = "training pipeline completed"
	details.ModelName = trainerArtifact.ModelName
	details.TrainMetrics = trainerArtifact.TrainMetrics
	details.TestMetrics = trainerArtifact.TestMetrics
	o.saveJob(details)

	o.syncArtifacts(ctx, runID)
	o.lc.Infof("training job %s completed with model %s", jobID, trainerArtifact.ModelName)
}

func (o *Orchestrator) runStages(ctx context.Context, runID string) (artifact.TrainerArtifact, error) {
	storage := helpers.NewMLStorage(o.cfg.FinalModelDir, o.lc)

	ingester := ingestion.NewDataIngestion(config.NewIngestionConfig(o.cfg, runID), o.dataSource, o.lc)
	ingestionArtifact, err := ingester.Ingest(ctx)
	if err != nil {
		return artifact.TrainerArtifact{}, err
	}

	validator := validation.NewDataValidation(config.NewValidationConfig(o.cfg, runID), storage, o.lc)
	validationArtifact, err := validator.Validate(ingestionArtifact)
	if err != nil {
		return artifact.TrainerArtifact{}, err
	}
	if !validationArtifact.Valid {
		return artifact.TrainerArtifact{}, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeSchema,
			"data validation rejected the dataset: "+validationArtifact.Message)
	}

	transformer := transformation.NewDataTransformation(config.NewTransformationConfig(o.cfg, runID), storage, o.lc)
	transformationArtifact, err := transformer.Transform(validationArtifact)
	if err != nil {
		return artifact.TrainerArtifact{}, err
	}

	trainer := training.NewModelTrainer(config.NewTrainerConfig(o.cfg, runID), storage, o.experiment, o.lc)
	return trainer.Train(transformationArtifact)
}

// syncArtifacts replicates the run directory and the deployable bundle to
// object storage. Best-effort only; the run already succeeded.
func (o *Orchestrator) syncArtifacts(ctx context.Context, runID string) {
	if !o.cfg.SyncEnabled || o.syncer == nil {
		return
	}
	runDir := config.RunDir(o.cfg, runID)
	if err := o.syncer.SyncDirectory(ctx, runDir, o.cfg.S3RemotePrefix+"/artifacts/"+runID); err != nil {
		o.lc.Warnf("artifact sync failed for run %s: %v", runID, err)
	}
	if err := o.syncer.SyncDirectory(ctx, o.cfg.FinalModelDir, o.cfg.S3RemotePrefix+"/final_model"); err != nil {
		o.lc.Warnf("bundle sync failed for run %s: %v", runID, err)
	}
}

func (o *Orchestrator) saveJob(details job.TrainingJobDetails) {
	if err := o.jobStore.SaveTrainingJob(details); err != nil {
		o.lc.Errorf("failed to persist status of training job %s: %s", details.JobID, err.Error())
	}
}
