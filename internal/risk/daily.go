package risk

import (
	"fmt"
	"sync"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// Daily limits. A tripped halt is sticky for the rest of the trading day.
const (
	defaultMaxEntries = 3
	defaultMaxLossRun = 3
	defaultDayLossPct = 2.0
)

// Tracker enforces the per-day risk budget: entry count, consecutive-loss
// run, and the drawdown cap against the day's starting equity. Safe for
// concurrent use; the engine loop and the heartbeat consumer both touch it.
type Tracker struct {
	mu sync.Mutex

	maxEntries int
	maxLossRun int
	dayLossPct float64

	date           string
	entryCount     int
	consecLosses   int
	riskUsed       float64
	dayStartEquity float64
	halted         bool
	haltReason     string

	log *logger.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

func WithMaxEntries(n int) TrackerOption {
	return func(t *Tracker) { t.maxEntries = n }
}

func WithMaxLossRun(n int) TrackerOption {
	return func(t *Tracker) { t.maxLossRun = n }
}

func WithDayLossPct(pct float64) TrackerOption {
	return func(t *Tracker) { t.dayLossPct = pct }
}

// NewTracker builds a tracker with production limits.
func NewTracker(log *logger.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxEntries: defaultMaxEntries,
		maxLossRun: defaultMaxLossRun,
		dayLossPct: defaultDayLossPct,
		log:        log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Roll resets the day state when the local trading date changes. Returns
// true on rollover. The first call seeds the day without counting as one.
func (t *Tracker) Roll(date string, equity float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if date == t.date {
		return false
	}
	first := t.date == ""
	t.date = date
	t.entryCount = 0
	t.consecLosses = 0
	t.riskUsed = 0
	t.dayStartEquity = equity
	t.halted = false
	t.haltReason = ""
	if !first {
		t.log.Info("daily risk state reset", logger.String("date", date),
			logger.Float64("day_start_equity", equity))
	}
	return !first
}

// CanEnter reports whether a new entry is allowed, with a reason on refusal.
func (t *Tracker) CanEnter() (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.halted {
		return false, t.haltReason
	}
	if t.entryCount >= t.maxEntries {
		return false, "max_daily_entries"
	}
	return true, ""
}

// RecordEntry counts a dispatched entry against the day budget.
func (t *Tracker) RecordEntry(riskPct float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entryCount++
	t.riskUsed += riskPct
	if t.entryCount >= t.maxEntries {
		t.haltLocked("max_daily_entries")
	}
}

// RecordResult feeds one closed-trade outcome into the loss-run counter.
func (t *Tracker) RecordResult(profit float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if profit >= 0 {
		t.consecLosses = 0
		return
	}
	t.consecLosses++
	if t.consecLosses >= t.maxLossRun {
		t.haltLocked("consecutive_losses")
	}
}

// UpdateEquity checks the drawdown cap against the day's starting equity.
func (t *Tracker) UpdateEquity(equity float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dayStartEquity <= 0 || equity <= 0 {
		return
	}
	ddPct := (t.dayStartEquity - equity) / t.dayStartEquity * 100
	if ddPct >= t.dayLossPct {
		t.haltLocked(fmt.Sprintf("daily_loss_cap_%.1fpct", ddPct))
	}
}

// ReconcileEntries adopts the counterpart's authoritative daily entry count
// when it runs ahead of the local one, so a brain restart cannot reopen the
// budget.
func (t *Tracker) ReconcileEntries(counterpart int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if counterpart <= t.entryCount {
		return
	}
	t.log.Warn("adopting counterpart entry count",
		logger.Int("local", t.entryCount), logger.Int("counterpart", counterpart))
	t.entryCount = counterpart
	if t.entryCount >= t.maxEntries {
		t.haltLocked("max_daily_entries")
	}
}

// Halt trips the sticky halt with an external reason.
func (t *Tracker) Halt(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked(reason)
}

func (t *Tracker) haltLocked(reason string) {
	if t.halted {
		return
	}
	t.halted = true
	t.haltReason = reason
	t.log.Warn("daily halt tripped", logger.String("reason", reason))
}

// Halted reports the sticky halt state.
func (t *Tracker) Halted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.halted
}

// Snapshot exports the state for persistence.
func (t *Tracker) Snapshot() *models.DaySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &models.DaySnapshot{
		Date:           t.date,
		EntryCount:     t.entryCount,
		ConsecLosses:   t.consecLosses,
		RiskUsed:       t.riskUsed,
		DayStartEquity: t.dayStartEquity,
		Halted:         t.halted,
		HaltReason:     t.haltReason,
	}
}

// Restore loads persisted state, typically right after start-up. A snapshot
// from another date is ignored; the next Roll will seed the day instead.
func (t *Tracker) Restore(snap *models.DaySnapshot, today string) {
	if snap == nil || snap.Date != today {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.date = snap.Date
	t.entryCount = snap.EntryCount
	t.consecLosses = snap.ConsecLosses
	t.riskUsed = snap.RiskUsed
	t.dayStartEquity = snap.DayStartEquity
	t.halted = snap.Halted
	t.haltReason = snap.HaltReason
}
