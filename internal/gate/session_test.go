package gate

import (
	"testing"
	"time"

	"LRRBrain/internal/domain/models"
)

var jst = time.FixedZone("JST", 9*60*60)

func at(h, m int) time.Time {
	return time.Date(2025, 6, 2, h, m, 0, 0, jst)
}

func TestSessionBands(t *testing.T) {
	s := NewSessionTable()
	cases := []struct {
		when time.Time
		rank models.SessionRank
		mult float64
	}{
		{at(12, 0), models.SessionInvalid, 0.0},  // midday block start
		{at(16, 59), models.SessionInvalid, 0.0}, // midday block end
		{at(17, 0), models.SessionA, 1.0},        // London open
		{at(18, 30), models.SessionA, 1.0},
		{at(22, 0), models.SessionA, 1.0}, // pre-overlap window
		{at(22, 20), models.SessionS, 1.5},
		{at(23, 0), models.SessionS, 1.5},
		{at(23, 1), models.SessionA, 1.0}, // falls back to default
		{at(3, 0), models.SessionB, 0.7},
		{at(3, 59), models.SessionB, 0.7},
		{at(4, 0), models.SessionA, 1.0},
		{at(0, 0), models.SessionA, 1.0},
	}
	for _, tc := range cases {
		rank, mult := s.Rank(tc.when)
		if rank != tc.rank || mult != tc.mult {
			t.Fatalf("%s: got %s/%v, want %s/%v",
				tc.when.Format("15:04"), rank, mult, tc.rank, tc.mult)
		}
	}
}

func TestSessionRankConvertsToLocal(t *testing.T) {
	s := NewSessionTable()
	// 03:30 UTC is 12:30 in Tokyo, inside the midday block.
	rank, mult := s.Rank(time.Date(2025, 6, 2, 3, 30, 0, 0, time.UTC))
	if rank != models.SessionInvalid || mult != 0 {
		t.Fatalf("expected INVALID in the midday block, got %s/%v", rank, mult)
	}
}

func TestLocalDateCrossesMidnight(t *testing.T) {
	s := NewSessionTable()
	got := s.LocalDate(time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC))
	if got != "2025-06-03" {
		t.Fatalf("expected local date 2025-06-03, got %s", got)
	}
}

func TestSessionCustomBands(t *testing.T) {
	s := NewSessionTable(
		WithLocation(time.UTC),
		WithBands([]SessionBand{{FromMin: 0, ToMin: 59, Rank: models.SessionS, Mult: 1.5}}),
	)
	rank, mult := s.Rank(time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC))
	if rank != models.SessionS || mult != 1.5 {
		t.Fatalf("custom band not honored: %s/%v", rank, mult)
	}
	rank, _ = s.Rank(time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC))
	if rank != models.SessionA {
		t.Fatalf("expected default outside custom bands, got %s", rank)
	}
}
