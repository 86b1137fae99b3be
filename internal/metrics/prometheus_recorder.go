package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalogmirror"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pollActions       *prom.CounterVec
	reloadDuration    *prom.HistogramVec
	records           prom.Gauge
	activeJobs        prom.Gauge
	orphanedJobs      prom.Counter
	relocationResults *prom.CounterVec
	probeFailures     prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pollActions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "poll_actions_total",
			Help:      "Poll outcomes by chosen action",
		}, []string{"action"}),
		reloadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of repository reloads",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		records: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records in the live snapshot",
		}),
		activeJobs: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_jobs",
			Help:      "Tracked background jobs after the last reload",
		}),
		orphanedJobs: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_jobs_total",
			Help:      "Jobs whose record was absent after a reload",
		}),
		relocationResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "relocation_results_total",
			Help:      "Repository relocation attempts by result",
		}, []string{"result"}),
		probeFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "probe_failures_total",
			Help:      "Version probes that failed after retries",
		}),
	}
	reg.MustRegister(pr.pollActions, pr.reloadDuration, pr.records, pr.activeJobs,
		pr.orphanedJobs, pr.relocationResults, pr.probeFailures)
	return pr
}

func (p *PrometheusRecorder) IncPollAction(action string) {
	if p == nil {
		return
	}
	p.pollActions.WithLabelValues(action).Inc()
}

func (p *PrometheusRecorder) ObserveReloadDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := ResultFailed
	if success {
		res = ResultSuccess
	}
	p.reloadDuration.WithLabelValues(string(res)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetRecords(n int) {
	if p == nil {
		return
	}
	p.records.Set(float64(n))
}

func (p *PrometheusRecorder) SetActiveJobs(n int) {
	if p == nil {
		return
	}
	p.activeJobs.Set(float64(n))
}

func (p *PrometheusRecorder) AddOrphanedJobs(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.orphanedJobs.Add(float64(n))
}

func (p *PrometheusRecorder) IncRelocationResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.relocationResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncProbeFailure() {
	if p == nil {
		return
	}
	p.probeFailures.Inc()
}
