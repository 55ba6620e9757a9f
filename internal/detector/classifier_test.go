package detector

import (
	"testing"

	"LRRBrain/internal/domain/models"
)

func trendingBars(n int, step float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		close := 100.0 + float64(i)*step
		bars[i] = models.Bar{
			Open:  close - step/2,
			High:  close + 0.05,
			Low:   close - 0.05,
			Close: close,
		}
	}
	return bars
}

func TestClassifyShortHistoryIsNeutral(t *testing.T) {
	c := NewLorentzianClassifier()
	got := c.Classify(trendingBars(20, 0.1))
	if got.Direction != models.DirNeutral || got.Confidence != 0 {
		t.Fatalf("expected neutral on short history, got %+v", got)
	}
}

func TestClassifyUptrend(t *testing.T) {
	c := NewLorentzianClassifier()
	got := c.Classify(trendingBars(300, 0.1))
	if got.Direction != models.DirBuy {
		t.Fatalf("expected BUY in a monotonic uptrend, got %+v", got)
	}
	if got.Confidence != 1.0 {
		t.Fatalf("expected unanimous vote, got conf %v", got.Confidence)
	}
}

func TestClassifyDowntrend(t *testing.T) {
	c := NewLorentzianClassifier()
	got := c.Classify(trendingBars(300, -0.1))
	if got.Direction != models.DirSell {
		t.Fatalf("expected SELL in a monotonic downtrend, got %+v", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewLorentzianClassifier()
	bars := trendingBars(300, 0.1)
	first := c.Classify(bars)
	second := c.Classify(bars)
	if first != second {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyOptions(t *testing.T) {
	c := NewLorentzianClassifier(WithNeighbors(4), WithHistoryDepth(50))
	got := c.Classify(trendingBars(300, 0.1))
	if got.Direction != models.DirBuy {
		t.Fatalf("expected BUY, got %+v", got)
	}
}
