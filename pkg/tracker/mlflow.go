/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"

	"phishnet/common/client"
	phishnetErrors "phishnet/common/errors"
)

// MLFlowTracker logs runs to an MLflow tracking server over its REST API.
// The artifact upload relies on the server proxying artifact storage
// (mlflow-artifacts scheme).
type MLFlowTracker struct {
	baseURL      string
	experimentID string
	httpClient   client.HTTPClient
	lc           logger.LoggingClient
}

func NewMLFlowTracker(baseURL string, experimentID string, httpClient client.HTTPClient, lc logger.LoggingClient) *MLFlowTracker {
	if experimentID == "" {
		experimentID = "0"
	}
	return &MLFlowTracker{
		baseURL:      strings.TrimRight(baseURL, "/"),
		experimentID: experimentID,
		httpClient:   httpClient,
		lc:           lc,
	}
}

type mlflowTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (t *MLFlowTracker) BeginRun(tags map[string]string) (RunHandle, error) {
	tagList := make([]mlflowTag, 0, len(tags))
	for key, value := range tags {
		tagList = append(tagList, mlflowTag{Key: key, Value: value})
	}
	body := map[string]interface{}{
		"experiment_id": t.experimentID,
		"start_time":    time.Now().UnixMilli(),
		"tags":          tagList,
	}

	var response struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}
	if err := t.postJSON("/api/2.0/mlflow/runs/create", body, &response); err != nil {
		return RunHandle{}, err
	}
	if response.Run.Info.RunID == "" {
		return RunHandle{}, phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
			"tracker returned an empty run id")
	}
	return RunHandle{RunID: response.Run.Info.RunID}, nil
}

func (t *MLFlowTracker) LogMetric(run RunHandle, name string, value float64) error {
	body := map[string]interface{}{
		"run_id":    run.RunID,
		"key":       name,
		"value":     value,
		"timestamp": time.Now().UnixMilli(),
		"step":      0,
	}
	return t.postJSON("/api/2.0/mlflow/runs/log-metric", body, nil)
}

func (t *MLFlowTracker) LogModel(run RunHandle, modelFilePath string, name string) error {
	content, err := os.ReadFile(modelFilePath)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/2.0/mlflow-artifacts/artifacts/%s/%s/artifacts/%s",
		t.baseURL, t.experimentID, run.RunID, name)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(content))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	return t.execute(req)
}

func (t *MLFlowTracker) EndRun(run RunHandle) error {
	body := map[string]interface{}{
		"run_id":   run.RunID,
		"status":   "FINISHED",
		"end_time": time.Now().UnixMilli(),
	}
	return t.postJSON("/api/2.0/mlflow/runs/update", body, nil)
}

func (t *MLFlowTracker) postJSON(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
			fmt.Sprintf("tracker call %s failed: %v", path, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
			fmt.Sprintf("tracker call %s returned status %d", path, resp.StatusCode))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (t *MLFlowTracker) execute(req *http.Request) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
			fmt.Sprintf("tracker call %s failed: %v", req.URL.Path, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return phishnetErrors.NewCommonPipelineError(phishnetErrors.ErrorTypeTransientIO,
			fmt.Sprintf("tracker call %s returned status %d", req.URL.Path, resp.StatusCode))
	}
	return nil
}
