/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"os"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// PipelineConfig: service-wide configuration for the training pipeline and
// the serving API. Loaded once at startup; per-run stage configs are derived
// from it plus an explicit run timestamp.
type PipelineConfig struct {
	ServiceName string
	ListenPort  int

	MongoURL        string `validate:"required"`
	MongoDatabase   string `validate:"required"`
	MongoCollection string `validate:"required"`

	ArtifactBaseDir     string `validate:"required"`
	FinalModelDir       string `validate:"required"`
	PredictionOutputDir string `validate:"required"`

	TargetColumn        string  `validate:"required"`
	ExpectedColumnCount int     `validate:"gt=1"`
	TestSplitFraction   float64 `validate:"gt=0,lt=1"`
	RandomSeed          int64

	DriftSignificance float64 `validate:"gt=0,lt=1"`
	MinDriftSamples   int     `validate:"gte=0"`

	ImputerNeighbors int `validate:"gt=0"`

	MinAccuracy      float64 `validate:"gt=0,lte=1"`
	OverfitThreshold float64 `validate:"gt=0,lt=1"`
	CVFolds          int     `validate:"gt=1"`

	TrackerURL          string
	TrackerExperimentID string

	RedisHost string
	RedisPort string

	SyncEnabled    bool
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UseSSL       bool
	S3RemotePrefix string
}

func NewPipelineConfig() *PipelineConfig {
	return new(PipelineConfig)
}

// LoadCoreAppConfigurations reads the service configuration from the
// environment, applying defaults where a setting is optional.
func (cfg *PipelineConfig) LoadCoreAppConfigurations(lc logger.LoggingClient) error {
	cfg.ServiceName = getSetting(lc, "SERVICE_NAME", "phishnet-ml-api")
	cfg.ListenPort = cast.ToInt(getSetting(lc, "LISTEN_PORT", "48120"))

	cfg.MongoURL = getSetting(lc, "MONGO_URL", "mongodb://localhost:27017")
	cfg.MongoDatabase = getSetting(lc, "MONGO_DATABASE", "phishnet")
	cfg.MongoCollection = getSetting(lc, "MONGO_COLLECTION", "phishing_data")

	cfg.ArtifactBaseDir = getSetting(lc, "ARTIFACT_BASE_DIR", "artifacts")
	cfg.FinalModelDir = getSetting(lc, "FINAL_MODEL_DIR", "final_model")
	cfg.PredictionOutputDir = getSetting(lc, "PREDICTION_OUTPUT_DIR", "prediction_output")

	cfg.TargetColumn = getSetting(lc, "TARGET_COLUMN", "Result")
	cfg.ExpectedColumnCount = cast.ToInt(getSetting(lc, "EXPECTED_COLUMN_COUNT", "31"))
	cfg.TestSplitFraction = cast.ToFloat64(getSetting(lc, "TEST_SPLIT_FRACTION", "0.2"))
	cfg.RandomSeed = cast.ToInt64(getSetting(lc, "RANDOM_SEED", "42"))

	cfg.DriftSignificance = cast.ToFloat64(getSetting(lc, "DRIFT_SIGNIFICANCE", "0.05"))
	cfg.MinDriftSamples = cast.ToInt(getSetting(lc, "MIN_DRIFT_SAMPLES", "10"))

	cfg.ImputerNeighbors = cast.ToInt(getSetting(lc, "IMPUTER_NEIGHBORS", "3"))

	cfg.MinAccuracy = cast.ToFloat64(getSetting(lc, "MIN_ACCURACY", "0.6"))
	cfg.OverfitThreshold = cast.ToFloat64(getSetting(lc, "OVERFIT_THRESHOLD", "0.05"))
	cfg.CVFolds = cast.ToInt(getSetting(lc, "CV_FOLDS", "3"))

	cfg.TrackerURL = getSetting(lc, "TRACKER_URL", "")
	cfg.TrackerExperimentID = getSetting(lc, "TRACKER_EXPERIMENT_ID", "0")

	cfg.RedisHost = getSetting(lc, "REDIS_HOST", "localhost")
	cfg.RedisPort = getSetting(lc, "REDIS_PORT", "6379")

	cfg.SyncEnabled = cast.ToBool(getSetting(lc, "SYNC_ENABLED", "false"))
	cfg.S3Endpoint = getSetting(lc, "S3_ENDPOINT", "")
	cfg.S3AccessKey = getSetting(lc, "S3_ACCESS_KEY", "")
	cfg.S3SecretKey = getSetting(lc, "S3_SECRET_KEY", "")
	cfg.S3Bucket = getSetting(lc, "S3_BUCKET", "")
	cfg.S3UseSSL = cast.ToBool(getSetting(lc, "S3_USE_SSL", "true"))
	cfg.S3RemotePrefix = getSetting(lc, "S3_REMOTE_PREFIX", "phishnet")

	return validator.New().Struct(cfg)
}

func getSetting(lc logger.LoggingClient, name string, defaultValue string) string {
	value := os.Getenv(name)
	if value == "" {
		if defaultValue != "" {
			lc.Debugf("%s not configured, default %s assumed", name, defaultValue)
		}
		return defaultValue
	}
	lc.Infof("%s : %s", name, value)
	return value
}
