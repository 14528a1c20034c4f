package server

import (
	"runtime"
	"sync"
	"time"

	"github.com/wildfunctions/sci_calc/pkg/expr"
)

// Metrics collects service counters.
type Metrics struct {
	mu              sync.Mutex
	Evaluations     int64
	Failures        map[string]int64 // error kind → count
	SessionsCreated int64
	SessionsExpired int64
	ActiveSessions  int64
	StartedAt       time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		Failures:  make(map[string]int64),
		StartedAt: time.Now(),
	}
}

// RecordEvaluation counts one evaluation; err is nil on success.
func (m *Metrics) RecordEvaluation(err error) {
	m.mu.Lock()
	m.Evaluations++
	if err != nil {
		m.Failures[expr.KindOf(err).String()]++
	}
	m.mu.Unlock()
}

// RecordSessionCreated increments the session counter.
func (m *Metrics) RecordSessionCreated() {
	m.mu.Lock()
	m.SessionsCreated++
	m.mu.Unlock()
}

// RecordSessionsExpired adds n idle sessions dropped by a sweep.
func (m *Metrics) RecordSessionsExpired(n int) {
	m.mu.Lock()
	m.SessionsExpired += int64(n)
	m.mu.Unlock()
}

// SetActiveSessions sets the active session gauge.
func (m *Metrics) SetActiveSessions(n int64) {
	m.mu.Lock()
	m.ActiveSessions = n
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time metrics report.
type MetricsSnapshot struct {
	Evaluations     int64            `json:"evaluations"`
	Failures        map[string]int64 `json:"failures"`
	SessionsCreated int64            `json:"sessions_created"`
	SessionsExpired int64            `json:"sessions_expired"`
	ActiveSessions  int64            `json:"active_sessions"`
	UptimeSeconds   int              `json:"uptime_seconds"`
	Goroutines      int              `json:"goroutines"`
	HeapAllocMB     float64          `json:"heap_alloc_mb"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	failures := make(map[string]int64, len(m.Failures))
	for k, v := range m.Failures {
		failures[k] = v
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MetricsSnapshot{
		Evaluations:     m.Evaluations,
		Failures:        failures,
		SessionsCreated: m.SessionsCreated,
		SessionsExpired: m.SessionsExpired,
		ActiveSessions:  m.ActiveSessions,
		UptimeSeconds:   int(time.Since(m.StartedAt).Seconds()),
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocMB:     float64(memStats.HeapAlloc) / (1024 * 1024),
	}
}
