package detector

import (
	"math"

	"LRRBrain/internal/domain/models"
)

// Zone is one clustered pivot level.
type Zone struct {
	Price   float64
	Touches int
	Type    models.ZoneType
}

// Confirmed reports whether the level has been respected at least twice.
func (z *Zone) Confirmed() bool { return z.Touches >= 2 }

// ZoneDetector clusters swing pivots into support/resistance levels. Pivot
// highs feed resistance zones, pivot lows feed support zones; pivots landing
// within clusterWidth of an existing zone merge into it as another touch.
type ZoneDetector struct {
	pivotWindow int
	widthFactor float64
	nearFactor  float64
}

// ZoneOption configures a ZoneDetector.
type ZoneOption func(*ZoneDetector)

func WithPivotWindow(n int) ZoneOption {
	return func(d *ZoneDetector) { d.pivotWindow = n }
}

func WithClusterWidth(factor float64) ZoneOption {
	return func(d *ZoneDetector) { d.widthFactor = factor }
}

// NewZoneDetector builds a detector with production defaults.
func NewZoneDetector(opts ...ZoneOption) *ZoneDetector {
	d := &ZoneDetector{
		pivotWindow: 5,
		widthFactor: 0.4,
		nearFactor:  2.0,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect builds the zone map from bars and evaluates it against the latest
// closed bar.
func (d *ZoneDetector) Detect(bars []models.Bar, atr float64) models.ZoneResult {
	var res models.ZoneResult
	if atr <= 0 || len(bars) < 2*d.pivotWindow+2 {
		return res
	}
	width := atr * d.widthFactor
	supports := d.cluster(d.pivotLows(bars), width, models.ZoneSupport)
	resists := d.cluster(d.pivotHighs(bars), width, models.ZoneResist)

	cur := bars[len(bars)-2]
	price := cur.Close

	nearest := d.nearest(append(supports, resists...), price)
	if nearest == nil || math.Abs(price-nearest.Price) > width*d.nearFactor {
		return res
	}

	res.Type = nearest.Type
	res.Price = nearest.Price
	res.Strength = nearest.Touches
	if nearest.Confirmed() {
		if nearest.Type == models.ZoneSupport {
			res.ConfirmedSupport = true
		} else {
			res.ConfirmedResist = true
		}
	}
	half := width / 2
	res.Touching = cur.Low <= nearest.Price+half && cur.High >= nearest.Price-half
	return res
}

// pivotHighs returns bars whose high dominates pivotWindow bars on each side.
func (d *ZoneDetector) pivotHighs(bars []models.Bar) []float64 {
	var out []float64
	w := d.pivotWindow
	for i := w; i < len(bars)-w-1; i++ {
		pivot := true
		for j := i - w; j <= i+w; j++ {
			if j != i && bars[j].High > bars[i].High {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, bars[i].High)
		}
	}
	return out
}

func (d *ZoneDetector) pivotLows(bars []models.Bar) []float64 {
	var out []float64
	w := d.pivotWindow
	for i := w; i < len(bars)-w-1; i++ {
		pivot := true
		for j := i - w; j <= i+w; j++ {
			if j != i && bars[j].Low < bars[i].Low {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, bars[i].Low)
		}
	}
	return out
}

// cluster merges pivots within width into zones using a running weighted
// average of the zone price.
func (d *ZoneDetector) cluster(pivots []float64, width float64, typ models.ZoneType) []Zone {
	var zones []Zone
	for _, p := range pivots {
		merged := false
		for i := range zones {
			if math.Abs(p-zones[i].Price) <= width {
				n := float64(zones[i].Touches)
				zones[i].Price = (zones[i].Price*n + p) / (n + 1)
				zones[i].Touches++
				merged = true
				break
			}
		}
		if !merged {
			zones = append(zones, Zone{Price: p, Touches: 1, Type: typ})
		}
	}
	return zones
}

func (d *ZoneDetector) nearest(zones []Zone, price float64) *Zone {
	var best *Zone
	bestDist := math.Inf(1)
	for i := range zones {
		if dist := math.Abs(zones[i].Price - price); dist < bestDist {
			bestDist = dist
			best = &zones[i]
		}
	}
	return best
}
