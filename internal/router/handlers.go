/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"phishnet/pkg/dataset"
	"phishnet/pkg/dto/job"
	"phishnet/pkg/estimator"
	"phishnet/pkg/imputer"
)

const predictedColumn = "predicted_column"

type trainResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// submitTrainingJob registers a new job and launches the pipeline in the
// background; the caller polls the jobs endpoint for the outcome.
func (r *Router) submitTrainingJob(c echo.Context) *echo.HTTPError {
	jobID := r.orchestrator.NewJobID()
	details := job.TrainingJobDetails{
		JobID:      jobID,
		StatusCode: job.New,
		Status:     job.New.String(),
		StartTime:  time.Now().Unix(),
	}
	if err := r.jobStore.SaveTrainingJob(details); err != nil {
		r.lc.Errorf("failed to register training job: %s", err.Error())
		return err.ConvertToHTTPError()
	}

	go r.orchestrator.RunTrainingJob(context.Background(), jobID)

	r.lc.Infof("training job %s accepted", jobID)
	if err := c.JSON(http.StatusAccepted, trainResponse{JobID: jobID, Status: job.New.String()}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}

func (r *Router) getTrainingJob(c echo.Context) *echo.HTTPError {
	jobID := c.Param("jobId")
	details, err := r.jobStore.GetTrainingJob(jobID)
	if err != nil {
		return err.ConvertToHTTPError()
	}
	if jsonErr := c.JSON(http.StatusOK, details); jsonErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, jsonErr.Error())
	}
	return nil
}

func (r *Router) getAllTrainingJobs(c echo.Context) *echo.HTTPError {
	jobs, err := r.jobStore.GetAllTrainingJobs()
	if err != nil {
		return err.ConvertToHTTPError()
	}
	if jsonErr := c.JSON(http.StatusOK, jobs); jsonErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, jsonErr.Error())
	}
	return nil
}

// predict scores an uploaded CSV of feature rows with the deployable bundle
// and returns the rows with a prediction column appended.
func (r *Router) predict(c echo.Context) *echo.HTTPError {
	if !r.storage.FileExists(r.storage.BundleModelFile()) || !r.storage.FileExists(r.storage.BundleTransformerFile()) {
		return echo.NewHTTPError(http.StatusNotFound, "no trained model available, run training first")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing csv upload under form field 'file'")
	}
	source, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to open uploaded file")
	}
	defer source.Close()
	frame, err := dataset.ReadCSVReader(source)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to parse uploaded csv: "+err.Error())
	}
	// the target column may be present on labeled uploads; it is never a
	// prediction input
	frame = frame.DropColumn(r.cfg.TargetColumn)
	if frame.NumRows() == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "uploaded csv has no data rows")
	}

	var knnImputer imputer.KNNImputer
	if err = r.storage.LoadGob(r.storage.BundleTransformerFile(), &knnImputer); err != nil {
		r.lc.Errorf("failed to load bundled imputer: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load bundled imputer")
	}
	var saved estimator.SavedModel
	if err = r.storage.LoadGob(r.storage.BundleModelFile(), &saved); err != nil {
		r.lc.Errorf("failed to load bundled model: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load bundled model")
	}

	imputed, err := knnImputer.Transform(frame.Rows)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "uploaded csv does not match the trained feature schema: "+err.Error())
	}
	predictions, err := saved.Model.Predict(imputed)
	if err != nil {
		r.lc.Errorf("prediction with model %s failed: %v", saved.Name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "prediction failed")
	}

	scored := &dataset.Frame{
		Columns: append(append([]string(nil), frame.Columns...), predictedColumn),
		Rows:    make([][]float64, len(frame.Rows)),
	}
	for i, row := range frame.Rows {
		scored.Rows[i] = append(append([]float64(nil), row...), float64(predictions[i]))
	}

	outputFile := filepath.Join(r.cfg.PredictionOutputDir, "output.csv")
	if err = scored.WriteCSV(outputFile); err != nil {
		r.lc.Errorf("failed to write prediction output: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to write prediction output")
	}
	r.lc.Infof("scored %d rows with model %s", len(predictions), saved.Name)

	if err = c.File(outputFile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}
