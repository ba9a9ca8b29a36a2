/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package ingestion

import (
	"context"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/datasource"
	"phishnet/pkg/dto/artifact"
	"phishnet/pkg/dto/config"
)

const stageName = "data_ingestion"

// DataIngestion pulls the full dataset from the upstream document store,
// persists a feature-store snapshot for audit, and splits the rows into the
// training and evaluation subsets.
type DataIngestion struct {
	cfg        config.IngestionConfig
	dataSource datasource.DataSource
	lc         logger.LoggingClient
}

func NewDataIngestion(cfg config.IngestionConfig, dataSource datasource.DataSource, lc logger.LoggingClient) *DataIngestion {
	return &DataIngestion{cfg: cfg, dataSource: dataSource, lc: lc}
}

func (di *DataIngestion) Ingest(ctx context.Context) (artifact.IngestionArtifact, error) {
	di.lc.Infof("starting data ingestion for run %s", di.cfg.RunID)

	frame, err := di.dataSource.FetchAll(ctx)
	if err != nil {
		return artifact.IngestionArtifact{}, phishnetErrors.NewStageError(stageName, "failed to fetch dataset", err)
	}
	for _, column := range di.cfg.DropColumns {
		frame = frame.DropColumn(column)
	}
	di.lc.Infof("ingested %d rows with %d columns", frame.NumRows(), frame.NumColumns())

	// audit snapshot, never read again downstream
	if err = frame.WriteCSV(di.cfg.FeatureStoreFilePath); err != nil {
		return artifact.IngestionArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write feature store snapshot", err)
	}

	train, test := frame.Split(di.cfg.TestSplitFraction, di.cfg.RandomSeed)
	di.lc.Infof("split dataset into %d training and %d evaluation rows", train.NumRows(), test.NumRows())

	if err = train.WriteCSV(di.cfg.TrainFilePath); err != nil {
		return artifact.IngestionArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write training subset", err)
	}
	if err = test.WriteCSV(di.cfg.TestFilePath); err != nil {
		return artifact.IngestionArtifact{}, phishnetErrors.NewStageError(stageName, "failed to write evaluation subset", err)
	}

	return artifact.IngestionArtifact{
		TrainFilePath: di.cfg.TrainFilePath,
		TestFilePath:  di.cfg.TestFilePath,
	}, nil
}
