package detector

import (
	"testing"

	"LRRBrain/internal/domain/models"
)

func TestTrendUptrendIsStrongBuy(t *testing.T) {
	tc := NewTrendClassifier()
	got := tc.Classify(trendingBars(40, 0.2))
	if got.Direction != models.DirBuy {
		t.Fatalf("expected BUY, got %+v", got)
	}
	if got.Strength != models.StrengthStrong {
		t.Fatalf("one-way move should grade STRONG, got %+v", got)
	}
	if got.Changed {
		t.Fatalf("established trend must not flag a flip")
	}
}

func TestTrendShortHistoryIsNeutral(t *testing.T) {
	tc := NewTrendClassifier()
	got := tc.Classify(trendingBars(10, 0.2))
	if got.Direction != models.DirNeutral {
		t.Fatalf("expected NEUTRAL on short history, got %+v", got)
	}
}

func TestTrendFlipSetsChanged(t *testing.T) {
	tc := NewTrendClassifier()
	bars := trendingBars(30, -0.3)
	if d := tc.Classify(bars); d.Direction != models.DirSell {
		t.Fatalf("fixture should start in a downtrend, got %+v", d)
	}
	// Append strong up bars until the fast EMA crosses; the crossing bar
	// must carry the Changed flag.
	last := bars[len(bars)-1].Close
	for i := 0; i < 40; i++ {
		last += 0.5
		bars = append(bars, models.Bar{Open: last - 0.25, High: last + 0.05, Low: last - 0.3, Close: last})
		got := tc.Classify(bars)
		if got.Direction == models.DirBuy {
			if !got.Changed {
				t.Fatalf("crossing bar must flag Changed")
			}
			return
		}
	}
	t.Fatalf("trend never flipped")
}

func TestMomentumColor(t *testing.T) {
	m := NewMomentumFilter()

	got := m.Color(trendingBars(40, 0.1))
	if got.Color != models.ColorGreen {
		t.Fatalf("expected GREEN above the slow EMA, got %+v", got)
	}
	if got.Changed {
		t.Fatalf("steady momentum must not flag a flip")
	}

	got = m.Color(trendingBars(40, -0.1))
	if got.Color != models.ColorRed {
		t.Fatalf("expected RED below the slow EMA, got %+v", got)
	}
}

func TestMomentumFlipSetsChanged(t *testing.T) {
	m := NewMomentumFilter()
	bars := trendingBars(40, 0.01)
	bars = append(bars, models.Bar{Open: bars[39].Close, High: bars[39].Close, Low: 90, Close: 90})

	got := m.Color(bars)
	if got.Color != models.ColorRed {
		t.Fatalf("expected RED after the plunge, got %+v", got)
	}
	if !got.Changed {
		t.Fatalf("color flip must flag Changed")
	}
}

func TestMomentumShortHistoryIsNeutral(t *testing.T) {
	m := NewMomentumFilter()
	got := m.Color(trendingBars(10, 0.1))
	if got.Color != models.ColorNeutral || got.Changed {
		t.Fatalf("expected NEUTRAL on short history, got %+v", got)
	}
}
