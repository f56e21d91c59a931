package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-operation counters and latencies for one service.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry, so several services can
// live in one process without clashing.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchboard_operations_total",
				Help: "Total number of operations executed, by outcome",
			},
			[]string{"domain", "operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "switchboard_operation_duration_seconds",
				Help:    "Duration of operation execution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"domain", "operation"},
		),
	}
	m.registry.MustRegister(m.operations, m.duration)
	return m
}

func (m *Metrics) observe(domain, operation, status string, elapsed time.Duration) {
	m.operations.WithLabelValues(domain, operation, status).Inc()
	m.duration.WithLabelValues(domain, operation).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
