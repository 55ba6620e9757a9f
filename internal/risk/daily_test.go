package risk

import (
	"testing"

	"LRRBrain/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestTrackerEntryBudget(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)

	for i := 0; i < 3; i++ {
		if ok, reason := tr.CanEnter(); !ok {
			t.Fatalf("entry %d refused: %s", i+1, reason)
		}
		tr.RecordEntry(0.4)
	}
	if ok, reason := tr.CanEnter(); ok || reason != "max_daily_entries" {
		t.Fatalf("fourth entry must be refused, got ok=%v reason=%q", ok, reason)
	}
}

func TestTrackerLossRunHalts(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)

	tr.RecordResult(-50)
	tr.RecordResult(-50)
	if tr.Halted() {
		t.Fatalf("two losses must not halt")
	}
	tr.RecordResult(120)
	tr.RecordResult(-50)
	tr.RecordResult(-50)
	if tr.Halted() {
		t.Fatalf("a win must reset the loss run")
	}
	tr.RecordResult(-50)
	if !tr.Halted() {
		t.Fatalf("three consecutive losses must halt")
	}
}

func TestTrackerDayLossCap(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)

	tr.UpdateEquity(9850)
	if tr.Halted() {
		t.Fatalf("1.5%% drawdown must not halt")
	}
	tr.UpdateEquity(9800)
	if !tr.Halted() {
		t.Fatalf("2%% drawdown must halt")
	}
	// Sticky: recovering equity does not clear the halt.
	tr.UpdateEquity(10100)
	if !tr.Halted() {
		t.Fatalf("halt must be sticky within the day")
	}
}

func TestTrackerRollClearsHalt(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)
	tr.Halt("manual")
	if !tr.Halted() {
		t.Fatalf("halt not set")
	}

	if rolled := tr.Roll("2025-06-02", 10000); rolled {
		t.Fatalf("same date must not roll")
	}
	if rolled := tr.Roll("2025-06-03", 9900); !rolled {
		t.Fatalf("new date must roll")
	}
	if tr.Halted() {
		t.Fatalf("rollover must clear the halt")
	}
	if ok, _ := tr.CanEnter(); !ok {
		t.Fatalf("fresh day must allow entries")
	}
}

func TestTrackerReconcileEntries(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)
	tr.RecordEntry(0.4)

	tr.ReconcileEntries(1) // counterpart agrees, nothing to adopt
	tr.ReconcileEntries(3)
	if ok, _ := tr.CanEnter(); ok {
		t.Fatalf("adopted counterpart count must close the budget")
	}

	snap := tr.Snapshot()
	if snap.EntryCount != 3 {
		t.Fatalf("expected entry count 3, got %d", snap.EntryCount)
	}
}

func TestTrackerRestoreSameDayOnly(t *testing.T) {
	tr := NewTracker(testLogger(t))
	tr.Roll("2025-06-02", 10000)
	tr.RecordEntry(0.4)
	tr.Halt("manual")
	snap := tr.Snapshot()

	fresh := NewTracker(testLogger(t))
	fresh.Restore(snap, "2025-06-02")
	if !fresh.Halted() {
		t.Fatalf("same-day restore must carry the halt")
	}
	if got := fresh.Snapshot(); got.EntryCount != 1 || got.DayStartEquity != 10000 {
		t.Fatalf("restore lost state: %+v", got)
	}

	stale := NewTracker(testLogger(t))
	stale.Restore(snap, "2025-06-03")
	if stale.Halted() {
		t.Fatalf("yesterday's snapshot must be ignored")
	}
}
