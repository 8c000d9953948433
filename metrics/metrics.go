// Package metrics defines the instrumentation hook for the HTTP client.
// Recording is optional: clients default to the no-op recorder, and a
// Prometheus-backed implementation is provided for callers that want
// attempt, retry, and latency series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "resilience"
	subsystem = "http"
)

// Recorder observes client activity. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RecordAttempt counts one transport call. status is the numeric HTTP
	// status, or "error" when no response arrived.
	RecordAttempt(method, status string)
	// RecordRetry counts one scheduled retry with its classification reason.
	RecordRetry(method, reason string)
	// RecordDuration observes the wall time of a whole logical request.
	// outcome is "success" or the error category that ended it.
	RecordDuration(method, outcome string, elapsed time.Duration)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

// NewNoopRecorder returns a recorder that discards everything.
func NewNoopRecorder() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) RecordAttempt(method, status string) {}

func (n *NoopRecorder) RecordRetry(method, reason string) {}

func (n *NoopRecorder) RecordDuration(method, outcome string, elapsed time.Duration) {}

// PrometheusRecorder exports client activity as Prometheus series.
type PrometheusRecorder struct {
	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the client metric family with reg.
// Pass prometheus.DefaultRegisterer for the usual process-wide registry;
// a nil reg leaves the metrics unregistered.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "attempts_total",
			Help:      "Total number of transport calls, successful or not",
		}, []string{"method", "status"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retries_total",
			Help:      "Total number of retries, by classification reason",
		}, []string{"method", "reason"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Wall time of logical requests, backoff sleeps included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
	}
}

func (p *PrometheusRecorder) RecordAttempt(method, status string) {
	p.attempts.WithLabelValues(method, status).Inc()
}

func (p *PrometheusRecorder) RecordRetry(method, reason string) {
	p.retries.WithLabelValues(method, reason).Inc()
}

func (p *PrometheusRecorder) RecordDuration(method, outcome string, elapsed time.Duration) {
	p.durations.WithLabelValues(method, outcome).Observe(elapsed.Seconds())
}
