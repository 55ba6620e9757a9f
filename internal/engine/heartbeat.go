package engine

import (
	"sync"
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/internal/domain/repository"
	"LRRBrain/pkg/logger"
)

// Monitor owns the counterpart liveness state. The kafka consumer goroutine
// writes it, the main loop reads consistent snapshots; everything behind one
// mutex.
type Monitor struct {
	mu         sync.Mutex
	last       models.Heartbeat
	lastAt     time.Time
	hasData    bool
	staleAfter time.Duration
	warned     bool

	log     *logger.Logger
	metrics repository.Metrics
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

func WithStaleAfter(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.staleAfter = d }
}

// NewMonitor builds a heartbeat monitor with the production staleness window.
func NewMonitor(log *logger.Logger, metrics repository.Metrics, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		staleAfter: 15 * time.Second,
		log:        log,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Update records one heartbeat message and clears any pending staleness
// warning.
func (m *Monitor) Update(hb models.Heartbeat, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = hb
	m.lastAt = at
	m.hasData = true
	m.warned = false
}

// Snapshot returns the last heartbeat and its receipt time. ok is false
// before the first message.
func (m *Monitor) Snapshot() (models.Heartbeat, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.lastAt, m.hasData
}

// CheckStale raises a one-shot warning when the heartbeat gap exceeds the
// staleness window. Returns true while the stream is stale.
func (m *Monitor) CheckStale(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasData {
		return false
	}
	age := now.Sub(m.lastAt)
	m.metrics.RecordHeartbeatAge(age.Seconds())
	if age <= m.staleAfter {
		return false
	}
	if !m.warned {
		m.warned = true
		m.log.Warn("counterpart heartbeat stale",
			logger.Float64("age_seconds", age.Seconds()))
	}
	return true
}

// CounterpartHalted reports whether the counterpart asked us to stand down,
// by its halt flag or an active emergency system.
func (m *Monitor) CounterpartHalted() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasData {
		return false, ""
	}
	if m.last.Halt {
		return true, "counterpart_halt"
	}
	if m.last.EmergencySystem != "" && m.last.EmergencySystem != "NONE" {
		return true, "emergency_" + m.last.EmergencySystem
	}
	return false, ""
}
