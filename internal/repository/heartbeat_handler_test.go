package repository

import (
	"context"
	"testing"

	"LRRBrain/internal/engine"
	"LRRBrain/pkg/logger"
)

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

func TestHeartbeatHandlerUpdatesMonitor(t *testing.T) {
	log := testLogger(t)
	monitor := engine.NewMonitor(log, nopMetrics{})
	h := NewHeartbeatHandler(monitor, log)

	payload := []byte(`{"ts":1757100000,"equity":10250.5,"positions":1,"halt":true,"emergency_system":"NONE","daily_entries":2}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	hb, _, ok := monitor.Snapshot()
	if !ok {
		t.Fatal("monitor has no data after handle")
	}
	if hb.Equity != 10250.5 || hb.DailyEntries != 2 || !hb.Halt {
		t.Fatalf("heartbeat not propagated: %+v", hb)
	}
}

func TestHeartbeatHandlerSkipsMalformed(t *testing.T) {
	log := testLogger(t)
	monitor := engine.NewMonitor(log, nopMetrics{})
	h := NewHeartbeatHandler(monitor, log)

	if err := h.Handle(context.Background(), []byte("not json")); err != nil {
		t.Fatalf("malformed payload must be skipped, not retried: %v", err)
	}
	if _, _, ok := monitor.Snapshot(); ok {
		t.Fatal("malformed payload must not touch the monitor")
	}
}

func TestHeartbeatHandlerTopic(t *testing.T) {
	log := testLogger(t)
	monitor := engine.NewMonitor(log, nopMetrics{})

	if got := NewHeartbeatHandler(monitor, log).Topic(); got != "lrr.heartbeat" {
		t.Fatalf("default topic = %q", got)
	}
	h := NewHeartbeatHandler(monitor, log, WithHeartbeatTopic("custom.hb"))
	if got := h.Topic(); got != "custom.hb" {
		t.Fatalf("custom topic = %q", got)
	}
}
