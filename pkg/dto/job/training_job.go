/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package job

import "phishnet/pkg/dto/artifact"

type JobStatus int

const (
	New JobStatus = iota
	InProgress
	Completed
	Failed
)

func (s JobStatus) String() string {
	switch s {
	case New:
		return "New"
	case InProgress:
		return "InProgress"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

// TrainingJobDetails tracks one pipeline run through the job store so the
// serving API can report progress and outcome.
type TrainingJobDetails struct {
	JobID        string                         `json:"jobId"`
	RunID        string                         `json:"runId"`
	StatusCode   JobStatus                      `json:"statusCode"`
	Status       string                         `json:"status"`
	Msg          string                         `json:"msg"`
	ModelName    string                         `json:"modelName,omitempty"`
	TrainMetrics artifact.ClassificationMetrics `json:"trainMetrics,omitempty"`
	TestMetrics  artifact.ClassificationMetrics `json:"testMetrics,omitempty"`
	StartTime    int64                          `json:"startTime"`
	EndTime      int64                          `json:"endTime,omitempty"`
}
