package obs

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder implements the core's operation metrics contract on a
// Prometheus registry: a result counter and a duration histogram per
// operation.
type MetricsRecorder struct {
	results   *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewMetricsRecorder registers the warehouse operation metrics with reg. A nil
// registerer falls back to the default registry.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &MetricsRecorder{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "godown_operations_total",
			Help: "Warehouse slot operations by operation and outcome.",
		}, []string{"operation", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "godown_operation_duration_seconds",
			Help:    "Warehouse slot operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(r.results, r.durations)
	return r
}

// Observe implements core.MetricsRecorder.
func (r *MetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	r.results.WithLabelValues(operation, status).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}
