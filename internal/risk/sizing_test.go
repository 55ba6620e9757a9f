package risk

import (
	"math"
	"testing"

	"LRRBrain/internal/domain/models"
)

func TestClassifyVolRegime(t *testing.T) {
	cases := []struct {
		atrM5, atrH1 float64
		want         models.VolRegime
	}{
		{1.35, 1.0, models.RegimeHigh},
		{1.40, 1.0, models.RegimeHigh},
		{0.84, 1.0, models.RegimeLow},
		{0.85, 1.0, models.RegimeNormal},
		{1.0, 1.0, models.RegimeNormal},
		{0, 1.0, models.RegimeNormal},
		{1.0, 0, models.RegimeNormal},
	}
	for _, tc := range cases {
		if got := ClassifyVolRegime(tc.atrM5, tc.atrH1); got != tc.want {
			t.Fatalf("ClassifyVolRegime(%v, %v) = %s, want %s", tc.atrM5, tc.atrH1, got, tc.want)
		}
	}
}

func TestSpreadMult(t *testing.T) {
	if got := SpreadMult(0); got != 1.0 {
		t.Fatalf("no quote must keep full size, got %v", got)
	}
	// At the reference spread the discount is exactly the penalty.
	if got := SpreadMult(0.30); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected 0.75 at reference spread, got %v", got)
	}
	if got := SpreadMult(5.0); got != 0.50 {
		t.Fatalf("wide spread must floor at 0.50, got %v", got)
	}
}

func TestRiskPctCapped(t *testing.T) {
	// S session (1.5) with LOW regime boost would exceed the cap.
	got := RiskPct(1.5, models.RegimeLow, 0)
	if got != 0.60 {
		t.Fatalf("expected cap 0.60, got %v", got)
	}
}

func TestRiskPctComposition(t *testing.T) {
	// 0.40 * 1.0 * 0.55 * 0.75 for a NORMAL session, HIGH regime, ref spread.
	got := RiskPct(1.0, models.RegimeHigh, 0.30)
	want := 0.40 * 0.55 * 0.75
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRiskPctInvalidSession(t *testing.T) {
	if got := RiskPct(0, models.RegimeNormal, 0); got != 0 {
		t.Fatalf("zero session multiplier must zero the risk, got %v", got)
	}
}
