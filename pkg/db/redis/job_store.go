/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package redis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/gomodule/redigo/redis"

	phishnetErrors "phishnet/common/errors"
	"phishnet/pkg/dto/job"
)

const trainingJobKeyPrefix = "phishnet|trainingjob"

// JobStoreInterface persists training-job status records so the serving API
// can report run progress and outcome.
type JobStoreInterface interface {
	SaveTrainingJob(details job.TrainingJobDetails) phishnetErrors.PipelineError
	GetTrainingJob(jobID string) (*job.TrainingJobDetails, phishnetErrors.PipelineError)
	GetAllTrainingJobs() ([]job.TrainingJobDetails, phishnetErrors.PipelineError)
}

// DBClient is a Redis-backed job store.
type DBClient struct {
	Pool   *redis.Pool
	Logger logger.LoggingClient
}

func NewDBClient(host string, port string, lc logger.LoggingClient) *DBClient {
	address := fmt.Sprintf("%s:%s", host, port)
	return &DBClient{
		Logger: lc,
		Pool: &redis.Pool{
			MaxIdle:     5,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", address)
			},
		},
	}
}

func buildJobKey(jobID string) string {
	return trainingJobKeyPrefix + "|" + jobID
}

func (dbClient *DBClient) SaveTrainingJob(details job.TrainingJobDetails) phishnetErrors.PipelineError {
	conn := dbClient.Pool.Get()
	defer conn.Close()

	errorMessage := fmt.Sprintf("Error saving training job %s", details.JobID)

	payload, err := json.Marshal(details)
	if err != nil {
		dbClient.Logger.Errorf("Error marshalling training job: %v", err)
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeServerError, errorMessage)
	}

	jobKey := buildJobKey(details.JobID)
	_ = conn.Send("MULTI")
	_ = conn.Send("SET", jobKey, payload)
	_ = conn.Send("SADD", trainingJobKeyPrefix, jobKey)
	if _, err = conn.Do("EXEC"); err != nil {
		dbClient.Logger.Errorf("Error while saving training job in db: %v", err)
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDBError, errorMessage)
	}
	return nil
}

func (dbClient *DBClient) GetTrainingJob(jobID string) (*job.TrainingJobDetails, phishnetErrors.PipelineError) {
	conn := dbClient.Pool.Get()
	defer conn.Close()

	errorMessage := fmt.Sprintf("Error getting training job %s", jobID)

	payload, err := redis.Bytes(conn.Do("GET", buildJobKey(jobID)))
	if err == redis.ErrNil {
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeNotFound,
			fmt.Sprintf("Training job %s not found", jobID))
	}
	if err != nil {
		dbClient.Logger.Errorf("%s: %v", errorMessage, err)
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDBError, errorMessage)
	}

	var details job.TrainingJobDetails
	if err = json.Unmarshal(payload, &details); err != nil {
		dbClient.Logger.Errorf("Error unmarshalling training job %s: %v", jobID, err)
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeServerError, errorMessage)
	}
	return &details, nil
}

func (dbClient *DBClient) GetAllTrainingJobs() ([]job.TrainingJobDetails, phishnetErrors.PipelineError) {
	conn := dbClient.Pool.Get()
	defer conn.Close()

	errorMessage := "Error getting training jobs"

	keys, err := redis.Strings(conn.Do("SMEMBERS", trainingJobKeyPrefix))
	if err != nil {
		dbClient.Logger.Errorf("%s: %v", errorMessage, err)
		return nil, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeDBError, errorMessage)
	}

	jobs := make([]job.TrainingJobDetails, 0, len(keys))
	for _, key := range keys {
		payload, err := redis.Bytes(conn.Do("GET", key))
		if err != nil {
			continue
		}
		var details job.TrainingJobDetails
		if err = json.Unmarshal(payload, &details); err != nil {
			dbClient.Logger.Errorf("Error unmarshalling training job under key %s: %v", key, err)
			continue
		}
		jobs = append(jobs, details)
	}
	return jobs, nil
}
