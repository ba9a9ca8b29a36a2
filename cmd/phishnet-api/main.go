/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"phishnet/common/client"
	"phishnet/internal/pipeline"
	"phishnet/internal/router"
	"phishnet/pkg/datasource"
	"phishnet/pkg/db/redis"
	"phishnet/pkg/dto/config"
	"phishnet/pkg/helpers"
	"phishnet/pkg/storagesync"
	"phishnet/pkg/tracker"
)

func main() {
	lc := logger.NewClient("phishnet-ml-api", "INFO")

	cfg := config.NewPipelineConfig()
	if err := cfg.LoadCoreAppConfigurations(lc); err != nil {
		lc.Errorf("invalid service configuration: %v", err)
		os.Exit(1)
	}

	var experiment tracker.ExperimentTracker = tracker.NoopTracker{}
	if cfg.TrackerURL != "" {
		experiment = tracker.NewMLFlowTracker(cfg.TrackerURL, cfg.TrackerExperimentID, client.Client, lc)
	}

	var syncer storagesync.StorageSyncer
	if cfg.SyncEnabled {
		s3Syncer, err := storagesync.NewS3Syncer(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3UseSSL, lc)
		if err != nil {
			lc.Errorf("failed to create object storage client: %v", err)
			os.Exit(1)
		}
		syncer = s3Syncer
	}

	jobStore := redis.NewDBClient(cfg.RedisHost, cfg.RedisPort, lc)
	dataSource := datasource.NewMongoDataSource(cfg.MongoURL, cfg.MongoDatabase, cfg.MongoCollection, lc)
	storage := helpers.NewMLStorage(cfg.FinalModelDir, lc)
	orchestrator := pipeline.NewOrchestrator(cfg, dataSource, experiment, syncer, jobStore, lc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	router.NewRouter(cfg, orchestrator, jobStore, storage, lc).LoadRestRoutes(e)

	lc.Infof("starting %s on port %d", cfg.ServiceName, cfg.ListenPort)
	if err := e.Start(fmt.Sprintf(":%d", cfg.ListenPort)); err != nil {
		lc.Errorf("http server stopped: %v", err)
		os.Exit(1)
	}
}
