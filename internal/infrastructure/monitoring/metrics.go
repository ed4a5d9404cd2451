package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Session metrics
	Transitions    *prometheus.CounterVec
	SessionActive  prometheus.Gauge
	StartAttempts  prometheus.Counter
	StartRetries   prometheus.Counter
	StartFailures  *prometheus.CounterVec
	RestoresServed prometheus.Counter
	ContentSwaps   prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector.
//
// Uses a dedicated registry so repeated construction in tests does not
// panic on duplicate registration.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}

// NewMetricsWithRegistry creates a collector bound to an existing registry.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		registry:  reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pipd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipd_session_transitions_total",
				Help: "Session state transitions",
			},
			[]string{"from", "to"},
		),
		SessionActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipd_session_active",
				Help: "Whether the floating window is currently shown",
			},
		),
		StartAttempts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipd_start_attempts_total",
				Help: "Start operations issued to the platform driver",
			},
		),
		StartRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipd_start_retries_total",
				Help: "Deferred start attempts while the platform was not ready",
			},
		),
		StartFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipd_start_failures_total",
				Help: "Start attempts that ended without an active session",
			},
			[]string{"reason"},
		),
		RestoresServed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipd_restores_served_total",
				Help: "Completed restore negotiations",
			},
		),
		ContentSwaps: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipd_content_swaps_total",
				Help: "In-place content replacements",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipd_ws_connections",
				Help: "Current WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipd_ws_messages_total",
				Help: "WebSocket messages by type and direction",
			},
			[]string{"type", "direction"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pipd_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	return m
}

// Registry returns the underlying Prometheus registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransition records a session state transition
func (m *Metrics) RecordTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(msgType, direction string) {
	m.WSMessages.WithLabelValues(msgType, direction).Inc()
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
