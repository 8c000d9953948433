package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()

	// Nothing to assert beyond "does not blow up".
	r.RecordAttempt("GET", "200")
	r.RecordRetry("GET", "Service Unavailable")
	r.RecordDuration("GET", "success", 125*time.Millisecond)
}

func TestPrometheusRecorderAttempts(t *testing.T) {
	r := NewPrometheusRecorder(prometheus.NewRegistry())

	r.RecordAttempt("GET", "200")
	r.RecordAttempt("GET", "200")
	r.RecordAttempt("GET", "503")
	r.RecordAttempt("POST", "error")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.attempts.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.attempts.WithLabelValues("GET", "503")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.attempts.WithLabelValues("POST", "error")))
	assert.Zero(t, testutil.ToFloat64(r.attempts.WithLabelValues("PUT", "200")))
}

func TestPrometheusRecorderRetries(t *testing.T) {
	r := NewPrometheusRecorder(prometheus.NewRegistry())

	r.RecordRetry("GET", "timeout")
	r.RecordRetry("GET", "timeout")
	r.RecordRetry("DELETE", "Service Unavailable")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.retries.WithLabelValues("GET", "timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.retries.WithLabelValues("DELETE", "Service Unavailable")))
}

func TestPrometheusRecorderDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.RecordDuration("GET", "success", 50*time.Millisecond)
	r.RecordDuration("GET", "success", 150*time.Millisecond)
	r.RecordDuration("GET", "timeout", 2*time.Second)

	count, err := testutil.GatherAndCount(reg, "resilience_http_request_duration_seconds")
	require.NoError(t, err)
	// One series per outcome label.
	assert.Equal(t, 2, count)
}

func TestPrometheusRecorderRegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)
	r.RecordAttempt("GET", "200")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "resilience_http_attempts_total")
}
