// Package monitoring provides Prometheus metrics for the PiP service.
//
// Exposes counters and gauges for session state transitions, start
// attempts and retries, restore negotiations, content swaps, HTTP
// traffic, and WebSocket connections.
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	router.Use(monitoring.Middleware(metrics))
//	metrics.RecordTransition("ready", "active")
package monitoring
