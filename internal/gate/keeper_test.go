package gate

import (
	"testing"

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

// fullConfluence is a BUY setup where every detector agrees.
func fullConfluence() EvalInput {
	return EvalInput{
		Action:     models.DirBuy,
		Classifier: models.Classification{Direction: models.DirBuy, Confidence: 0.8},
		Trend:      models.TrendState{Direction: models.DirBuy, Strength: models.StrengthStrong, Changed: true},
		Zone: models.ZoneResult{
			ConfirmedSupport: true,
			Touching:         true,
			Type:             models.ZoneSupport,
		},
		Momentum:         models.MomentumState{Color: models.ColorGreen, Changed: true},
		DistanceATRRatio: 1.0,
		ATRToSpread:      20,
		VolState:         models.VolNormal,
		Session:          models.SessionS,
		HTFTargets:       true,
		WorkingFVG:       true,
		MTFMult:          1.0,
	}
}

func checkInvariant(t *testing.T, res models.GateResult) {
	t.Helper()
	if (res.Multiplier > 0) != (res.Verdict == models.VerdictEnter) {
		t.Fatalf("multiplier/verdict mismatch: %+v", res)
	}
}

func TestEvaluateFullConfluenceEnters(t *testing.T) {
	k := NewKeeper(testLogger(t))
	res := k.Evaluate(fullConfluence())
	checkInvariant(t, res)

	if res.Verdict != models.VerdictEnter {
		t.Fatalf("expected ENTER, got %+v", res)
	}
	// 25 lc + 40 trend + 25 zone + 10 htf + 5 fvg + 15 momo + 10 session.
	if res.Score != 130 {
		t.Fatalf("expected score 130, got %v", res.Score)
	}
	if res.Multiplier != 1.0 {
		t.Fatalf("expected full multiplier, got %v", res.Multiplier)
	}
}

func TestEvaluateReducedTier(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := EvalInput{
		Action:      models.DirBuy,
		Classifier:  models.Classification{Direction: models.DirBuy, Confidence: 0.5},
		Trend:       models.TrendState{Direction: models.DirBuy, Strength: models.StrengthNormal},
		ATRToSpread: 20,
		VolState:    models.VolNormal,
		Session:     models.SessionA,
		MTFMult:     1.0,
	}
	res := k.Evaluate(in)
	checkInvariant(t, res)

	if res.Score != 30 {
		t.Fatalf("expected score 30, got %v", res.Score)
	}
	if res.Verdict != models.VerdictEnter || res.Multiplier != 0.8 {
		t.Fatalf("expected reduced-size ENTER, got %+v", res)
	}
}

func TestEvaluateSkipBelowCutoff(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := EvalInput{
		Action:      models.DirBuy,
		ATRToSpread: 20,
		VolState:    models.VolNormal,
		Session:     models.SessionA,
		MTFMult:     1.0,
	}
	res := k.Evaluate(in)
	checkInvariant(t, res)

	if res.Verdict != models.VerdictSkip || res.Multiplier != 0 {
		t.Fatalf("expected SKIP with zero multiplier, got %+v", res)
	}
}

func TestEvaluateHardRejects(t *testing.T) {
	k := NewKeeper(testLogger(t))

	for name, mutate := range map[string]func(*EvalInput){
		"thin atr":  func(in *EvalInput) { in.ATRToSpread = 5 },
		"parabolic": func(in *EvalInput) { in.DistanceATRRatio = 5.0 },
		"panic":     func(in *EvalInput) { in.VolState = models.VolPanic },
	} {
		in := fullConfluence()
		mutate(&in)
		res := k.Evaluate(in)
		checkInvariant(t, res)
		if res.Verdict != models.VerdictHardReject || !res.HardReject || res.Multiplier != 0 {
			t.Fatalf("%s: expected HARD_REJECT, got %+v", name, res)
		}
	}

	// Unknown spread must not trip the thin-ATR reject.
	in := fullConfluence()
	in.ATRToSpread = 0
	if res := k.Evaluate(in); res.Verdict == models.VerdictHardReject {
		t.Fatalf("zero atr/spread must not hard-reject: %+v", res)
	}
}

func TestEvaluateContraSignalsPenalize(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := fullConfluence()
	in.Classifier.Direction = models.DirSell
	in.Trend.Direction = models.DirSell
	in.Momentum.Color = models.ColorRed

	res := k.Evaluate(in)
	checkInvariant(t, res)

	base := k.Evaluate(fullConfluence())
	if res.Score >= base.Score {
		t.Fatalf("contra signals must lower the score: %v vs %v", res.Score, base.Score)
	}
}

func TestEvaluateInvalidSessionKills(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := fullConfluence()
	in.Session = models.SessionInvalid

	res := k.Evaluate(in)
	checkInvariant(t, res)
	if res.Score != 130-10-50 {
		t.Fatalf("expected session swing of -60, got %v", res.Score)
	}
}

func TestEvaluateMTFZeroForcesSkip(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := fullConfluence()
	in.MTFMult = 0

	res := k.Evaluate(in)
	checkInvariant(t, res)
	if res.Verdict != models.VerdictSkip {
		t.Fatalf("blocked MTF must skip regardless of score, got %+v", res)
	}
}

func TestEvaluateScoreClamp(t *testing.T) {
	k := NewKeeper(testLogger(t))
	in := EvalInput{
		Action:           models.DirBuy,
		Classifier:       models.Classification{Direction: models.DirSell},
		Trend:            models.TrendState{Direction: models.DirSell},
		Momentum:         models.MomentumState{Color: models.ColorRed},
		Zone:             models.ZoneResult{ConfirmedResist: true, Touching: true, Type: models.ZoneResist},
		DistanceATRRatio: 4.5,
		ATRToSpread:      12,
		VolState:         models.VolSqueeze,
		Session:          models.SessionInvalid,
		MTFMult:          1.0,
	}
	res := k.Evaluate(in)
	checkInvariant(t, res)
	if res.Score < -100 {
		t.Fatalf("score must clamp at -100, got %v", res.Score)
	}
	if res.Verdict != models.VerdictSkip {
		t.Fatalf("expected SKIP, got %+v", res)
	}
}
