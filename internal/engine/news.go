package engine

import (
	"sync"
	"time"
)

// NewsEvent is one scheduled high-impact release.
type NewsEvent struct {
	Name string    `yaml:"name" json:"name"`
	At   time.Time `yaml:"at" json:"at"`
}

// NewsFilter blocks entries around scheduled events and tracks block-state
// transitions so the counterpart is told exactly once per flip.
type NewsFilter struct {
	mu     sync.Mutex
	events []NewsEvent
	before time.Duration
	after  time.Duration
	active bool
}

// NewsOption configures a NewsFilter.
type NewsOption func(*NewsFilter)

func WithNewsWindow(before, after time.Duration) NewsOption {
	return func(f *NewsFilter) { f.before, f.after = before, after }
}

// NewNewsFilter builds a filter with the production window: blocked from 30
// minutes before each event until 10 minutes after.
func NewNewsFilter(opts ...NewsOption) *NewsFilter {
	f := &NewsFilter{
		before: 30 * time.Minute,
		after:  10 * time.Minute,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetEvents replaces the schedule.
func (f *NewsFilter) SetEvents(events []NewsEvent) {
	f.mu.Lock()
	f.events = events
	f.mu.Unlock()
}

// Blocked reports whether now falls inside any event window, with the event
// name.
func (f *NewsFilter) Blocked(now time.Time) (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blockedLocked(now)
}

func (f *NewsFilter) blockedLocked(now time.Time) (bool, string) {
	for _, ev := range f.events {
		if !now.Before(ev.At.Add(-f.before)) && !now.After(ev.At.Add(f.after)) {
			return true, ev.Name
		}
	}
	return false, ""
}

// Sync recomputes the block state and reports whether it flipped since the
// previous call, so the caller can push one NEWS_BLOCK update per
// transition.
func (f *NewsFilter) Sync(now time.Time) (changed, blocked bool, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blocked, name = f.blockedLocked(now)
	changed = blocked != f.active
	f.active = blocked
	return changed, blocked, name
}
