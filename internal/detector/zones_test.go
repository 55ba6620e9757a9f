package detector

import (
	"testing"

	"LRRBrain/internal/domain/models"
)

// zoneFixture builds 25 ranging bars trading in [99.9, 100.5] with pivot
// lows injected at indices 5 and 15, and the evaluated bar (index 23) set to
// cur. The base lows sit above both pivots so only the injected bars swing.
func zoneFixture(low1, low2 float64, cur models.Bar) []models.Bar {
	bars := flatBars(25)
	for i := range bars {
		bars[i].Low = 99.9
	}
	bars[5].Low = low1
	bars[15].Low = low2
	bars[23] = cur
	return bars
}

func TestZonesMergeNearbyPivots(t *testing.T) {
	d := NewZoneDetector()
	// Pivot lows 0.3 apart with cluster width 0.4: one zone, two touches.
	cur := models.Bar{Open: 99.4, High: 99.5, Low: 99.2, Close: 99.3}
	res := d.Detect(zoneFixture(99.0, 99.3, cur), 1.0)

	if !res.ConfirmedSupport {
		t.Fatalf("expected confirmed support, got %+v", res)
	}
	if res.Type != models.ZoneSupport {
		t.Fatalf("expected SUPPORT, got %s", res.Type)
	}
	if res.Strength != 2 {
		t.Fatalf("expected 2 touches, got %d", res.Strength)
	}
	if want := (99.0 + 99.3) / 2; res.Price != want {
		t.Fatalf("expected zone price %v, got %v", want, res.Price)
	}
	if !res.Touching {
		t.Fatalf("bar overlapping the zone band must register a touch")
	}
}

func TestZonesKeepDistantPivotsApart(t *testing.T) {
	d := NewZoneDetector()
	// Pivot lows 0.5 apart exceed the cluster width: two single-touch zones.
	cur := models.Bar{Open: 99.6, High: 99.7, Low: 99.3, Close: 99.4}
	res := d.Detect(zoneFixture(99.0, 99.5, cur), 1.0)

	if res.ConfirmedSupport {
		t.Fatalf("single-touch zone must not confirm, got %+v", res)
	}
	if res.Strength != 1 {
		t.Fatalf("expected 1 touch, got %d", res.Strength)
	}
	if res.Price != 99.5 {
		t.Fatalf("expected nearest zone 99.5, got %v", res.Price)
	}
}

func TestZonesFarPriceYieldsNothing(t *testing.T) {
	d := NewZoneDetector()
	// Evaluated bar sits more than width*2 from every zone.
	cur := models.Bar{Open: 97.0, High: 97.1, Low: 96.9, Close: 97.0}
	res := d.Detect(zoneFixture(99.0, 99.3, cur), 1.0)

	if res.Type != models.ZoneNone || res.ConfirmedSupport || res.ConfirmedResist {
		t.Fatalf("expected empty result far from zones, got %+v", res)
	}
}

func TestZonesShortHistory(t *testing.T) {
	d := NewZoneDetector()
	res := d.Detect(flatBars(8), 1.0)
	if res != (models.ZoneResult{}) {
		t.Fatalf("expected zero result on short history, got %+v", res)
	}
}
