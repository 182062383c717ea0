// Package metrics defines Prometheus metrics for draftloop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "draftloop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftloop_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftloop_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "draftloop_audit_queue_depth",
			Help: "Current audit queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "draftloop_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	DerivativeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "draftloop_derivatives_total",
			Help: "Total derivative count",
		},
	)

	VersionCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "draftloop_versions_total",
			Help: "Total version count",
		},
	)

	VersionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftloop_version_operations_total",
			Help: "Version ledger operations by kind",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AuditQueueDepth, WSConnections,
		DerivativeCount, VersionCount, VersionOps,
	)
}
