package risk

import (
	"math"
	"testing"
)

func TestSpreadMedianSeededAtPrior(t *testing.T) {
	g := NewSpreadGuard()
	if got := g.Median(); math.Abs(got-0.20) > 1e-9 {
		t.Fatalf("expected 0.20 prior before any sample, got %v", got)
	}
	g = NewSpreadGuard(WithMedianSeed(0.35))
	if got := g.Median(); math.Abs(got-0.35) > 1e-9 {
		t.Fatalf("expected custom seed 0.35, got %v", got)
	}
}

func TestSpreadMedianConverges(t *testing.T) {
	// Seed far above the quotes; the estimate must walk down to within one
	// step of the constant sample and stay there.
	g := NewSpreadGuard(WithMedianSeed(0.50))
	for i := 0; i < 50; i++ {
		g.Observe(0.10)
	}
	if got := g.Median(); math.Abs(got-0.10) > 0.03+1e-9 {
		t.Fatalf("median did not converge near 0.10: %v", got)
	}
}

func TestSpreadMedianStepWalkIsExact(t *testing.T) {
	g := NewSpreadGuard(WithMedianSeed(0.10))
	g.Observe(0.40)
	if got := g.Median(); math.Abs(got-0.13) > 1e-9 {
		t.Fatalf("expected 0.13 after one step, got %v", got)
	}
	g.Observe(0.40)
	if got := g.Median(); math.Abs(got-0.16) > 1e-9 {
		t.Fatalf("expected 0.16 after two steps, got %v", got)
	}
	for i := 0; i < 40; i++ {
		g.Observe(0.40)
		if g.Median() > 0.40+0.03+1e-9 {
			t.Fatalf("estimate overshot the sample: %v", g.Median())
		}
	}
	if got := g.Median(); math.Abs(got-0.40) > 0.03+1e-9 {
		t.Fatalf("expected estimate within one step of 0.40, got %v", got)
	}
}

func TestSpreadMedianHoldsInsideAlternatingBand(t *testing.T) {
	g := NewSpreadGuard()
	// Alternate 0.10 and 0.30 around the 0.20 prior.
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			g.Observe(0.10)
		} else {
			g.Observe(0.30)
		}
	}
	if got := g.Median(); math.Abs(got-0.20) > 0.05 {
		t.Fatalf("median drifted out of the sample band: %v", got)
	}
}

func TestSpreadMedianStepsAreBounded(t *testing.T) {
	g := NewSpreadGuard()
	g.Observe(5.0) // outlier moves the estimate one step only
	if got := g.Median(); math.Abs(got-0.23) > 1e-9 {
		t.Fatalf("expected 0.23 after one step, got %v", got)
	}
}

func TestSpreadGuardHardCap(t *testing.T) {
	g := NewSpreadGuard()
	if ok, reason := g.Allow(0.51, 10); ok || reason != "spread_hard_cap" {
		t.Fatalf("expected hard cap rejection, got ok=%v reason=%q", ok, reason)
	}
	if ok, _ := g.Allow(0.30, 10); !ok {
		t.Fatalf("expected spread below cap to pass")
	}
}

func TestSpreadGuardVsMedian(t *testing.T) {
	g := NewSpreadGuard(WithMedianSeed(0.10))
	if ok, reason := g.Allow(0.30, 10); ok || reason != "spread_vs_median" {
		t.Fatalf("expected median rejection at 3x, got ok=%v reason=%q", ok, reason)
	}
	if ok, _ := g.Allow(0.20, 10); !ok {
		t.Fatalf("2x median must pass")
	}
}

func TestSpreadGuardVsATR(t *testing.T) {
	g := NewSpreadGuard()
	if ok, reason := g.Allow(0.30, 1.0); ok || reason != "spread_vs_atr" {
		t.Fatalf("expected ATR rejection, got ok=%v reason=%q", ok, reason)
	}
	if ok, _ := g.Allow(0.30, 2.0); !ok {
		t.Fatalf("spread within the ATR fraction must pass")
	}
}

func TestSpreadGuardUnknownSpreadPasses(t *testing.T) {
	g := NewSpreadGuard()
	if ok, _ := g.Allow(0, 1.0); !ok {
		t.Fatalf("zero spread means no quote; must pass through")
	}
}
