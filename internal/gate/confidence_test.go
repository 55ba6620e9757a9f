package gate

import (
	"math"
	"testing"

	"LRRBrain/internal/domain/models"
)

func TestCalibrateConfidenceBlends(t *testing.T) {
	gr := models.GateResult{Score: 130}
	got := CalibrateConfidence(gr, models.SessionS, models.RegimeNormal, true, 1.0)

	// norm = (130+30)/180*100 = 88.889; legacy = 50+20+10+15+10 = 105.
	want := 0.7*(160.0/180.0*100) + 0.3*105
	if want > 100 {
		want = 100
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCalibrateConfidenceClampsLow(t *testing.T) {
	gr := models.GateResult{Score: -100}
	got := CalibrateConfidence(gr, models.SessionInvalid, models.RegimeHigh, false, 0)
	if got != 0 {
		t.Fatalf("expected floor of 0, got %v", got)
	}
}

func TestCalibrateConfidenceMonotonicInScore(t *testing.T) {
	lo := CalibrateConfidence(models.GateResult{Score: 30}, models.SessionA, models.RegimeNormal, true, 1.0)
	hi := CalibrateConfidence(models.GateResult{Score: 90}, models.SessionA, models.RegimeNormal, true, 1.0)
	if hi <= lo {
		t.Fatalf("confidence must grow with score: %v vs %v", lo, hi)
	}
}

func TestCalibrateConfidenceBounded(t *testing.T) {
	for _, score := range []float64{-100, -30, 0, 60, 150} {
		got := CalibrateConfidence(models.GateResult{Score: score}, models.SessionS, models.RegimeNormal, true, 1.0)
		if got < 0 || got > 100 {
			t.Fatalf("score %v: confidence %v out of range", score, got)
		}
	}
}
