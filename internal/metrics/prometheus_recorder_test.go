package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPollAction("silent_reload")
	r.IncPollAction("silent_reload")
	r.IncPollAction("noop")
	r.ObserveReloadDuration(20*time.Millisecond, true)
	r.SetRecords(5)
	r.AddOrphanedJobs(2)
	r.AddOrphanedJobs(0)
	r.IncRelocationResult(ResultRejected)
	r.IncProbeFailure()

	require.InDelta(t, 2, testutil.ToFloat64(r.pollActions.WithLabelValues("silent_reload")), 0)
	require.InDelta(t, 5, testutil.ToFloat64(r.records), 0)
	require.InDelta(t, 2, testutil.ToFloat64(r.orphanedJobs), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.relocationResults.WithLabelValues("rejected")), 0)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "catalogmirror_poll_actions_total")
}

func TestRecorders_NilSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.IncPollAction("noop")
	p.SetActiveJobs(1)

	var r Recorder = NoopRecorder{}
	r.IncRelocationResult(ResultSuccess)
	r.ObserveReloadDuration(time.Second, false)
}
