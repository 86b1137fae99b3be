// Package metrics provides observability hooks for poll, reload and relocation activity.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	coord := coordinator.New(deps, coordinator.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The daemon mounts HTTPHandler on the admin server's /metrics path.
package metrics
