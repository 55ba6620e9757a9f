package engine

import (
	"testing"
	"time"

	"LRRBrain/internal/detector"
	"LRRBrain/internal/domain/models"
)

func resolverFixture(t *testing.T) (*Resolver, *SnapshotCache) {
	t.Helper()
	cache := NewSnapshotCache()
	r := NewResolver(
		cache,
		detector.NewLorentzianClassifier(),
		detector.NewTrendClassifier(),
		detector.NewMomentumFilter(),
		detector.NewZoneDetector(),
		detector.NewContextBuilder(),
		testLogger(t),
	)
	return r, cache
}

// shortBars is a series too short for any detector to form an opinion.
func shortBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	ts := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Time: ts.Add(time.Duration(i) * 5 * time.Minute),
			Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 100,
		}
	}
	return bars
}

func TestResolverAdoptsFreshSnapshot(t *testing.T) {
	r, cache := resolverFixture(t)
	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	cache.Put(&models.DetectorSnapshot{
		ReceivedAt: now.Add(-30 * time.Second),
		Classifier: models.Classification{Direction: models.DirBuy, Confidence: 0.9},
		Trend:      models.TrendState{Direction: models.DirBuy, Strength: models.StrengthStrong},
		VolState:   models.VolPanic,
		HTFSMA:     2401.5,
		FVGTargets: []float64{2405, 2410},
	})

	got := r.Resolve(now, shortBars(10), shortBars(10), models.Tick{Bid: 2400, Ask: 2400.1})
	if got.Source != "snapshot" {
		t.Fatalf("source = %q, want snapshot", got.Source)
	}
	if got.Classifier.Direction != models.DirBuy || got.Classifier.Confidence != 0.9 {
		t.Fatalf("classifier not adopted: %+v", got.Classifier)
	}
	if got.Trend.Strength != models.StrengthStrong {
		t.Fatalf("trend not adopted: %+v", got.Trend)
	}
	if got.Context.VolState != models.VolPanic || got.Context.HTFSMA != 2401.5 {
		t.Fatalf("context not adopted: %+v", got.Context)
	}
	if len(got.FVGTargets) != 2 {
		t.Fatalf("targets not adopted: %v", got.FVGTargets)
	}
}

func TestResolverFallsBackWhenStale(t *testing.T) {
	r, cache := resolverFixture(t)
	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	cache.Put(&models.DetectorSnapshot{
		ReceivedAt: now.Add(-61 * time.Second),
		Classifier: models.Classification{Direction: models.DirBuy, Confidence: 0.9},
	})

	got := r.Resolve(now, shortBars(10), shortBars(10), models.Tick{Bid: 2400, Ask: 2400.1})
	if got.Source != "local" {
		t.Fatalf("source = %q, want local", got.Source)
	}
	if got.Classifier.Direction != models.DirNeutral {
		t.Fatalf("stale snapshot leaked into local read-out: %+v", got.Classifier)
	}
	// Local defaults still apply on a short series.
	if got.Context.VolState != models.VolNormal || got.Context.VolatilityRatio != 1.0 {
		t.Fatalf("local context defaults: %+v", got.Context)
	}
}

func TestResolverEmptyCacheIsLocal(t *testing.T) {
	r, _ := resolverFixture(t)
	got := r.Resolve(time.Now(), shortBars(10), shortBars(10), models.Tick{})
	if got.Source != "local" {
		t.Fatalf("source = %q, want local", got.Source)
	}
}

func TestResolverCustomFreshness(t *testing.T) {
	cache := NewSnapshotCache()
	r := NewResolver(cache, detector.NewLorentzianClassifier(), detector.NewTrendClassifier(),
		detector.NewMomentumFilter(), detector.NewZoneDetector(), detector.NewContextBuilder(),
		testLogger(t), WithFreshness(5*time.Second))

	now := time.Now()
	cache.Put(&models.DetectorSnapshot{ReceivedAt: now.Add(-10 * time.Second)})
	if got := r.Resolve(now, shortBars(10), shortBars(10), models.Tick{}); got.Source != "local" {
		t.Fatalf("source = %q, want local under tightened freshness", got.Source)
	}
}
