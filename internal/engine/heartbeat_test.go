package engine

import (
	"testing"
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// nopMetrics satisfies repository.Metrics for tests.
type nopMetrics struct{}

func (nopMetrics) RecordVerdict(string)        {}
func (nopMetrics) RecordGateScore(float64)     {}
func (nopMetrics) RecordDispatch(string, bool) {}
func (nopMetrics) RecordSpreadMedian(float64)  {}
func (nopMetrics) RecordHeartbeatAge(float64)  {}
func (nopMetrics) RecordCycle(float64)         {}
func (nopMetrics) RecordError(string)          {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestMonitorStaleBeforeFirstHeartbeat(t *testing.T) {
	m := NewMonitor(testLogger(t), nopMetrics{})
	if m.CheckStale(time.Now()) {
		t.Fatal("stale with no data")
	}
	if _, _, ok := m.Snapshot(); ok {
		t.Fatal("snapshot reported data before first heartbeat")
	}
}

func TestMonitorStaleness(t *testing.T) {
	m := NewMonitor(testLogger(t), nopMetrics{})
	at := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	m.Update(models.Heartbeat{Equity: 10000}, at)

	if m.CheckStale(at.Add(15 * time.Second)) {
		t.Fatal("stale at the window edge")
	}
	if !m.CheckStale(at.Add(16 * time.Second)) {
		t.Fatal("not stale past the window")
	}
	// Stays stale on repeated checks until a new heartbeat arrives.
	if !m.CheckStale(at.Add(30 * time.Second)) {
		t.Fatal("staleness cleared without a heartbeat")
	}
	m.Update(models.Heartbeat{Equity: 10000}, at.Add(31*time.Second))
	if m.CheckStale(at.Add(32 * time.Second)) {
		t.Fatal("still stale after a fresh heartbeat")
	}
}

func TestMonitorCounterpartHalted(t *testing.T) {
	m := NewMonitor(testLogger(t), nopMetrics{})
	at := time.Now()

	if halted, _ := m.CounterpartHalted(); halted {
		t.Fatal("halted with no data")
	}

	m.Update(models.Heartbeat{Halt: false, EmergencySystem: "NONE"}, at)
	if halted, _ := m.CounterpartHalted(); halted {
		t.Fatal("halted on NONE emergency")
	}

	m.Update(models.Heartbeat{Halt: true}, at)
	halted, reason := m.CounterpartHalted()
	if !halted || reason != "counterpart_halt" {
		t.Fatalf("halt flag: halted=%v reason=%q", halted, reason)
	}

	m.Update(models.Heartbeat{EmergencySystem: "DD_GUARD"}, at)
	halted, reason = m.CounterpartHalted()
	if !halted || reason != "emergency_DD_GUARD" {
		t.Fatalf("emergency: halted=%v reason=%q", halted, reason)
	}
}

func TestMonitorSnapshot(t *testing.T) {
	m := NewMonitor(testLogger(t), nopMetrics{}, WithStaleAfter(5*time.Second))
	at := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	m.Update(models.Heartbeat{Equity: 12345, DailyEntries: 2}, at)

	hb, got, ok := m.Snapshot()
	if !ok || !got.Equal(at) || hb.Equity != 12345 || hb.DailyEntries != 2 {
		t.Fatalf("snapshot = %+v at %v ok=%v", hb, got, ok)
	}
	if m.CheckStale(at.Add(4 * time.Second)) {
		t.Fatal("stale inside custom window")
	}
	if !m.CheckStale(at.Add(6 * time.Second)) {
		t.Fatal("not stale past custom window")
	}
}
