package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendClientMetrics records calls made to the marketplace backend.
type BackendClientMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewBackendClientMetrics registers the backend call metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewBackendClientMetrics(reg prometheus.Registerer) *BackendClientMetrics {
	if reg == nil {
		return &BackendClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of marketplace backend calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_request_failures",
		Help: "Marketplace backend calls that failed at the transport level.",
	}, []string{"method", "endpoint"})
	reg.MustRegister(duration, failures)
	return &BackendClientMetrics{
		duration: duration,
		failures: failures,
	}
}

// ObserveRequest records a completed backend call.
func (b *BackendClientMetrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(method, normalizeLabel(endpoint), strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncFailure records a backend call that never produced a response.
func (b *BackendClientMetrics) IncFailure(method, endpoint string) {
	if b == nil || b.failures == nil {
		return
	}
	b.failures.WithLabelValues(method, normalizeLabel(endpoint)).Inc()
}

// CronJobMetrics records metadata for scheduled jobs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed cron job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &CronJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
