package http

import (
	"sync/atomic"
	"time"
)

// NoopMetricsCollector is a metrics collector that does nothing
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
}
func (n *NoopMetricsCollector) RecordRequestCount(method, path string, statusCode int) {}
func (n *NoopMetricsCollector) RecordRequestError(method, path string)                 {}
func (n *NoopMetricsCollector) RecordRetry(method, path string)                        {}

// CountingMetricsCollector keeps process-wide request counters
type CountingMetricsCollector struct {
	requests      atomic.Int64
	errors        atomic.Int64
	retries       atomic.Int64
	totalDuration atomic.Int64
}

// RequestMetrics is a snapshot of a CountingMetricsCollector
type RequestMetrics struct {
	Requests      int64         `json:"requests"`
	Errors        int64         `json:"errors"`
	Retries       int64         `json:"retries"`
	TotalDuration time.Duration `json:"total_duration_ns"`
}

func (m *CountingMetricsCollector) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
	m.totalDuration.Add(int64(duration))
}

func (m *CountingMetricsCollector) RecordRequestCount(method, path string, statusCode int) {
	m.requests.Add(1)
}

func (m *CountingMetricsCollector) RecordRequestError(method, path string) {
	m.errors.Add(1)
}

func (m *CountingMetricsCollector) RecordRetry(method, path string) {
	m.retries.Add(1)
}

func (m *CountingMetricsCollector) Snapshot() RequestMetrics {
	return RequestMetrics{
		Requests:      m.requests.Load(),
		Errors:        m.errors.Load(),
		Retries:       m.retries.Load(),
		TotalDuration: time.Duration(m.totalDuration.Load()),
	}
}
