/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"net/http"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"

	"phishnet/internal/pipeline"
	"phishnet/pkg/db/redis"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/helpers"
)

// Router owns the HTTP surface of the service: kicking off training jobs,
// reporting their status, and serving batch predictions from the deployable
// bundle.
type Router struct {
	cfg          *config.PipelineConfig
	orchestrator pipeline.OrchestratorInterface
	jobStore     redis.JobStoreInterface
	storage      helpers.MLStorageInterface
	lc           logger.LoggingClient
}

func NewRouter(cfg *config.PipelineConfig, orchestrator pipeline.OrchestratorInterface,
	jobStore redis.JobStoreInterface, storage helpers.MLStorageInterface, lc logger.LoggingClient) *Router {
	return &Router{
		cfg:          cfg,
		orchestrator: orchestrator,
		jobStore:     jobStore,
		storage:      storage,
		lc:           lc,
	}
}

func (r *Router) LoadRestRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	v1 := e.Group("/api/v1")
	v1.POST("/train", func(c echo.Context) error {
		if httpErr := r.submitTrainingJob(c); httpErr != nil {
			return httpErr
		}
		return nil
	})
	v1.GET("/jobs", func(c echo.Context) error {
		if httpErr := r.getAllTrainingJobs(c); httpErr != nil {
			return httpErr
		}
		return nil
	})
	v1.GET("/jobs/:jobId", func(c echo.Context) error {
		if httpErr := r.getTrainingJob(c); httpErr != nil {
			return httpErr
		}
		return nil
	})
	v1.POST("/predict", func(c echo.Context) error {
		if httpErr := r.predict(c); httpErr != nil {
			return httpErr
		}
		return nil
	})
}
