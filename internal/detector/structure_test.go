package detector

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

// flatBars builds n identical bars trading inside [99.5, 100.5].
func flatBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	ts := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Time:   ts.Add(time.Duration(i) * 5 * time.Minute),
			Open:   100.0,
			High:   100.5,
			Low:    99.5,
			Close:  100.0,
			Volume: 100,
		}
	}
	return bars
}

// sweepFixture returns 26 bars where bars[24] is the signal bar and bars[25]
// the forming bar.
func sweepFixture(signal models.Bar) []models.Bar {
	bars := flatBars(26)
	signal.Time = bars[24].Time
	bars[24] = signal
	return bars
}

func TestDetectSweepUpperPool(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	bars := sweepFixture(models.Bar{Open: 100.0, High: 100.6, Low: 99.9, Close: 100.2, Volume: 100})

	ev, ok := d.DetectSweep(bars, 1.0)
	if !ok {
		t.Fatalf("expected sweep")
	}
	if ev.Action != models.DirSell {
		t.Fatalf("expected SELL, got %s", ev.Action)
	}
	if ev.Extreme != 100.6 {
		t.Fatalf("expected extreme 100.6, got %v", ev.Extreme)
	}
}

func TestDetectSweepLowerPool(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	bars := sweepFixture(models.Bar{Open: 100.0, High: 100.1, Low: 99.4, Close: 99.8, Volume: 100})

	ev, ok := d.DetectSweep(bars, 1.0)
	if !ok {
		t.Fatalf("expected sweep")
	}
	if ev.Action != models.DirBuy {
		t.Fatalf("expected BUY, got %s", ev.Action)
	}
	if ev.Extreme != 99.4 {
		t.Fatalf("expected extreme 99.4, got %v", ev.Extreme)
	}
}

func TestDetectSweepRejectsLongWick(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	// Body 0.05, upper wick 0.55: wick/body 11 exceeds the cutoff.
	bars := sweepFixture(models.Bar{Open: 100.0, High: 100.6, Low: 99.9, Close: 100.05, Volume: 100})

	if _, ok := d.DetectSweep(bars, 1.0); ok {
		t.Fatalf("expected wick rejection")
	}
}

func TestDetectSweepOvershootBounds(t *testing.T) {
	d := NewStructureDetector(testLogger(t))

	// Overshoot 0.01 ATR, below the minimum.
	bars := sweepFixture(models.Bar{Open: 100.0, High: 100.51, Low: 99.9, Close: 100.3, Volume: 100})
	if _, ok := d.DetectSweep(bars, 1.0); ok {
		t.Fatalf("expected tiny overshoot to be ignored")
	}

	// Overshoot 0.7 ATR, above the maximum: breakout, not a raid.
	bars = sweepFixture(models.Bar{Open: 100.0, High: 101.2, Low: 99.9, Close: 100.4, Volume: 100})
	if _, ok := d.DetectSweep(bars, 1.0); ok {
		t.Fatalf("expected runaway overshoot to be ignored")
	}
}

func TestDetectSweepRequiresCloseBackInside(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	bars := sweepFixture(models.Bar{Open: 100.4, High: 100.8, Low: 100.3, Close: 100.7, Volume: 100})

	if _, ok := d.DetectSweep(bars, 1.0); ok {
		t.Fatalf("close above the pool must not count as a sweep")
	}
}

func TestDetectSweepNeedsHistory(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	if _, ok := d.DetectSweep(flatBars(10), 1.0); ok {
		t.Fatalf("expected no sweep on short history")
	}
}

func TestFindFVGBuy(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	bars := []models.Bar{
		{High: 100.0, Low: 99.0},
		{High: 100.2, Low: 99.5},
		{High: 100.4, Low: 99.8},
		{High: 101.0, Low: 100.5},
		{High: 101.2, Low: 100.9},
	}
	mid, ok := d.FindFVG(bars, models.DirBuy)
	if !ok {
		t.Fatalf("expected gap")
	}
	// Most recent gap first: bars[2].High=100.4 against bars[4].Low=100.9.
	if want := (100.4 + 100.9) / 2; mid != want {
		t.Fatalf("expected mid %v, got %v", want, mid)
	}

	if _, ok := d.FindFVG(bars, models.DirSell); ok {
		t.Fatalf("no bearish gap in a rising series")
	}
}

func TestFVGTargetsSortedAndCapped(t *testing.T) {
	d := NewStructureDetector(testLogger(t))
	// Stair-step rally leaving a gap on every bar.
	var bars []models.Bar
	for i := 0; i < 12; i++ {
		base := 100.0 + float64(i)*2
		bars = append(bars, models.Bar{High: base + 0.5, Low: base - 0.5})
	}
	targets := d.FVGTargets(bars, models.DirBuy, 100.0)
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}
	for i := 1; i < len(targets); i++ {
		if targets[i] <= targets[i-1] {
			t.Fatalf("targets not sorted nearest-first: %v", targets)
		}
	}
	for _, tp := range targets {
		if tp <= 100.0 {
			t.Fatalf("target %v not beyond price", tp)
		}
	}
}

func TestVolumeFilter(t *testing.T) {
	d := NewStructureDetector(testLogger(t))

	bars := flatBars(12)
	bars[10].Volume = 130 // exactly 1.3x the trailing average of 100
	if !d.VolumeFilter(bars) {
		t.Fatalf("expected 1.3x volume to pass")
	}

	bars[10].Volume = 129
	if d.VolumeFilter(bars) {
		t.Fatalf("expected sub-threshold volume to fail")
	}

	if !d.VolumeFilter(flatBars(5)) {
		t.Fatalf("short history must pass through")
	}
}

func TestMTFAlignment(t *testing.T) {
	d := NewStructureDetector(testLogger(t))

	m15 := flatBars(20)
	m15[19].Close = 100.5 // MA 100.025, price above, within the stretch cap

	if mult, ok := d.MTFAlignment(m15, models.DirBuy); !ok || mult != 1.0 {
		t.Fatalf("aligned trade: got mult=%v ok=%v", mult, ok)
	}
	if mult, ok := d.MTFAlignment(m15, models.DirSell); !ok || mult != 0.7 {
		t.Fatalf("counter-trend trade: got mult=%v ok=%v", mult, ok)
	}

	m15[19].Close = 101.0 // 0.95% from MA, parabolic
	if mult, ok := d.MTFAlignment(m15, models.DirBuy); ok || mult != 0 {
		t.Fatalf("parabolic market must block: got mult=%v ok=%v", mult, ok)
	}
}
