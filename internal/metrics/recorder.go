package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultRejected ResultLabel = "rejected"
	ResultSkipped  ResultLabel = "skipped"
)

// Recorder defines observability hooks for the coordinator. All methods must be
// safe to call on the NoopRecorder.
type Recorder interface {
	IncPollAction(action string)
	ObserveReloadDuration(d time.Duration, success bool)
	SetRecords(n int)
	SetActiveJobs(n int)
	AddOrphanedJobs(n int)
	IncRelocationResult(result ResultLabel)
	IncProbeFailure()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPollAction(string)                      {}
func (NoopRecorder) ObserveReloadDuration(time.Duration, bool) {}
func (NoopRecorder) SetRecords(int)                            {}
func (NoopRecorder) SetActiveJobs(int)                         {}
func (NoopRecorder) AddOrphanedJobs(int)                       {}
func (NoopRecorder) IncRelocationResult(ResultLabel)           {}
func (NoopRecorder) IncProbeFailure()                          {}
