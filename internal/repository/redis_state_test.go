package repository

import (
	"context"
	"testing"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/cache"
)

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewRedisStateStore(cache.NewMemoryCache())
	ctx := context.Background()

	snap := &models.DaySnapshot{
		Date:           "2026-03-06",
		EntryCount:     2,
		ConsecLosses:   1,
		RiskUsed:       0.85,
		DayStartEquity: 10000,
		Halted:         true,
		HaltReason:     "max_daily_entries",
	}
	if err := store.SaveDay(ctx, snap); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	got, err := store.LoadDay(ctx, "2026-03-06")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if got == nil {
		t.Fatal("LoadDay returned nil for persisted date")
	}
	if *got != *snap {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, snap)
	}
}

func TestStateStoreMissingDateIsNil(t *testing.T) {
	store := NewRedisStateStore(cache.NewMemoryCache())

	got, err := store.LoadDay(context.Background(), "2026-03-07")
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil snapshot, got %+v", got)
	}
}
