package position

import (
	"testing"
	"time"

	"LRRBrain/internal/domain/models"
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

var base = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func buyPosition(openedAgo time.Duration) models.Position {
	return models.Position{
		Side:         models.DirBuy,
		OpenPrice:    2400.0,
		OpenTime:     base.Add(-openedAgo),
		StopDistance: 5.0,
	}
}

func calmContext() models.MarketContext {
	return models.MarketContext{VolState: models.VolNormal, DistanceATRRatio: 1.0}
}

func TestPhaseByAge(t *testing.T) {
	m := NewManager(testLogger(t))

	act := m.Assess(buyPosition(10*time.Minute), 2400, base, calmContext(),
		models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseNurture {
		t.Fatalf("young flat position must NURTURE, got %+v", act)
	}

	act = m.Assess(buyPosition(30*time.Minute), 2400, base, calmContext(),
		models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseProtect {
		t.Fatalf("30min position must PROTECT, got %+v", act)
	}
}

func TestPhaseByProfit(t *testing.T) {
	m := NewManager(testLogger(t))
	// +5.0 on a 5.0 stop is exactly 1R.
	act := m.Assess(buyPosition(5*time.Minute), 2405, base, calmContext(),
		models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseProtect {
		t.Fatalf("1R profit must PROTECT, got %+v", act)
	}
	if !act.PartialTP {
		t.Fatalf("PROTECT at 1R must book a partial, got %+v", act)
	}
}

func TestPartialNeedsProtectPhase(t *testing.T) {
	m := NewManager(testLogger(t))
	// 0.9R but young: NURTURE, no partial.
	act := m.Assess(buyPosition(5*time.Minute), 2404.5, base, calmContext(),
		models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseNurture || act.PartialTP {
		t.Fatalf("NURTURE must not book partials, got %+v", act)
	}

	// 0.85R and old: PROTECT books the partial.
	act = m.Assess(buyPosition(time.Hour), 2404.25, base, calmContext(),
		models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseProtect || !act.PartialTP {
		t.Fatalf("PROTECT above 0.8R must book a partial, got %+v", act)
	}
}

func TestOverrideOverextendedWeakTrend(t *testing.T) {
	m := NewManager(testLogger(t))
	ctx := calmContext()
	ctx.DistanceATRRatio = 4.2

	act := m.Assess(buyPosition(5*time.Minute), 2400, base, ctx,
		models.TrendState{Direction: models.DirBuy, Strength: models.StrengthNormal}, models.ZoneResult{})
	if !act.OverrideClose || act.OverrideReason != "overextended_weak_trend" {
		t.Fatalf("expected overextension override, got %+v", act)
	}

	// A strong trend keeps the position open.
	act = m.Assess(buyPosition(5*time.Minute), 2400, base, ctx,
		models.TrendState{Direction: models.DirBuy, Strength: models.StrengthStrong}, models.ZoneResult{})
	if act.OverrideClose {
		t.Fatalf("strong trend must hold through extension, got %+v", act)
	}
}

func TestOverrideOpposingZoneWithReversal(t *testing.T) {
	m := NewManager(testLogger(t))
	zone := models.ZoneResult{ConfirmedResist: true, Type: models.ZoneResist}

	act := m.Assess(buyPosition(5*time.Minute), 2400, base, calmContext(),
		models.TrendState{Direction: models.DirSell, Strength: models.StrengthStrong}, zone)
	if !act.OverrideClose || act.OverrideReason != "opposing_zone_trend_reversal" {
		t.Fatalf("expected zone reversal override, got %+v", act)
	}

	// Zone alone, trend still long: no override.
	act = m.Assess(buyPosition(5*time.Minute), 2400, base, calmContext(),
		models.TrendState{Direction: models.DirBuy, Strength: models.StrengthStrong}, zone)
	if act.OverrideClose {
		t.Fatalf("aligned trend must hold at resistance, got %+v", act)
	}
}

func TestOverridePanic(t *testing.T) {
	m := NewManager(testLogger(t))
	ctx := calmContext()
	ctx.VolState = models.VolPanic

	act := m.Assess(buyPosition(5*time.Minute), 2400, base, ctx,
		models.TrendState{Direction: models.DirBuy, Strength: models.StrengthStrong}, models.ZoneResult{})
	if !act.OverrideClose || act.OverrideReason != "panic_volatility" {
		t.Fatalf("expected panic override, got %+v", act)
	}
}

func TestSellSideProfitR(t *testing.T) {
	m := NewManager(testLogger(t))
	pos := models.Position{
		Side:         models.DirSell,
		OpenPrice:    2400.0,
		OpenTime:     base.Add(-5 * time.Minute),
		StopDistance: 5.0,
	}
	act := m.Assess(pos, 2395, base, calmContext(), models.TrendState{}, models.ZoneResult{})
	if act.Phase != models.PhaseProtect || !act.PartialTP {
		t.Fatalf("1R short must PROTECT with partial, got %+v", act)
	}
}
