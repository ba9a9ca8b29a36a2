/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package tracker

// ExperimentTracker is the external experiment-tracking backend. Failures
// from any of these calls must never corrupt an already-persisted model
// artifact; callers log and continue.
type ExperimentTracker interface {
	BeginRun(tags map[string]string) (RunHandle, error)
	LogMetric(run RunHandle, name string, value float64) error
	LogModel(run RunHandle, modelFilePath string, name string) error
	EndRun(run RunHandle) error
}

type RunHandle struct {
	RunID string
}

// NoopTracker satisfies ExperimentTracker when no tracking backend is
// configured.
type NoopTracker struct{}

func (NoopTracker) BeginRun(tags map[string]string) (RunHandle, error) { return RunHandle{}, nil }
func (NoopTracker) LogMetric(run RunHandle, name string, value float64) error {
	return nil
}
func (NoopTracker) LogModel(run RunHandle, modelFilePath string, name string) error {
	return nil
}
func (NoopTracker) EndRun(run RunHandle) error { return nil }
