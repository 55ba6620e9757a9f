package detector

import (
	"math"
	"sort"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// StructureDetector finds liquidity sweeps and fair value gaps on a bar
// series. All methods read the closed portion of the series only.
type StructureDetector struct {
	lookback     int
	overshootMin float64
	overshootMax float64
	wickBodyMax  float64
	fvgWindow    int
	volMult      float64
	volPeriod    int
	log          *logger.Logger
}

// StructureOption configures a StructureDetector.
type StructureOption func(*StructureDetector)

func WithLookback(n int) StructureOption {
	return func(d *StructureDetector) { d.lookback = n }
}

func WithOvershootBounds(min, max float64) StructureOption {
	return func(d *StructureDetector) { d.overshootMin, d.overshootMax = min, max }
}

func WithVolumeFilter(mult float64, period int) StructureOption {
	return func(d *StructureDetector) { d.volMult, d.volPeriod = mult, period }
}

// NewStructureDetector builds a detector with production defaults.
func NewStructureDetector(log *logger.Logger, opts ...StructureOption) *StructureDetector {
	d := &StructureDetector{
		lookback:     24,
		overshootMin: 0.02,
		overshootMax: 0.50,
		wickBodyMax:  3.0,
		fvgWindow:    5,
		volMult:      1.3,
		volPeriod:    10,
		log:          log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LiquidityPools returns the highest high and lowest low of the lookback
// window ending just before the signal bar.
func (d *StructureDetector) LiquidityPools(bars []models.Bar) (high, low float64, ok bool) {
	// Last bar may still be forming; the signal bar is bars[n-2].
	if len(bars) < d.lookback+2 {
		return 0, 0, false
	}
	end := len(bars) - 2
	start := end - d.lookback
	high = bars[start].High
	low = bars[start].Low
	for _, b := range bars[start:end] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, true
}

// DetectSweep checks whether the signal bar (bars[n-2]) raided a liquidity
// pool and closed back inside it. An upper-pool sweep yields a SELL signal,
// a lower-pool sweep yields a BUY. Overshoot is measured in ATR units and
// must fall inside (min, max]; a wick more than wickBodyMax times the body
// invalidates the bar.
func (d *StructureDetector) DetectSweep(bars []models.Bar, atr float64) (*models.SweepEvent, bool) {
	if atr <= 0 {
		return nil, false
	}
	poolHigh, poolLow, ok := d.LiquidityPools(bars)
	if !ok {
		return nil, false
	}
	sig := bars[len(bars)-2]
	body := sig.Body()

	if sig.High > poolHigh && sig.Close < poolHigh {
		over := (sig.High - poolHigh) / atr
		if over > d.overshootMin && over <= d.overshootMax {
			if body > 0 && sig.UpperWick()/body > d.wickBodyMax {
				return nil, false
			}
			return &models.SweepEvent{Action: models.DirSell, Extreme: sig.High}, true
		}
	}
	if sig.Low < poolLow && sig.Close > poolLow {
		over := (poolLow - sig.Low) / atr
		if over > d.overshootMin && over <= d.overshootMax {
			if body > 0 && sig.LowerWick()/body > d.wickBodyMax {
				return nil, false
			}
			return &models.SweepEvent{Action: models.DirBuy, Extreme: sig.Low}, true
		}
	}
	return nil, false
}

// FindFVG scans the most recent fvgWindow bars for a three-bar imbalance in
// the direction of action and returns the gap midpoint.
func (d *StructureDetector) FindFVG(bars []models.Bar, action models.Direction) (float64, bool) {
	if len(bars) < 3 {
		return 0, false
	}
	start := len(bars) - d.fvgWindow
	if start < 2 {
		start = 2
	}
	for i := len(bars) - 1; i >= start; i-- {
		a, c := bars[i-2], bars[i]
		switch action {
		case models.DirBuy:
			if a.High < c.Low {
				return (a.High + c.Low) / 2, true
			}
		case models.DirSell:
			if a.Low > c.High {
				return (a.Low + c.High) / 2, true
			}
		}
	}
	return 0, false
}

// FVGTargets collects up to three higher-timeframe gap midpoints beyond the
// current price in the trade direction, nearest first.
func (d *StructureDetector) FVGTargets(htfBars []models.Bar, action models.Direction, price float64) []float64 {
	if len(htfBars) < 3 {
		return nil
	}
	var targets []float64
	for i := 2; i < len(htfBars); i++ {
		a, c := htfBars[i-2], htfBars[i]
		switch action {
		case models.DirBuy:
			if a.High < c.Low {
				mid := (a.High + c.Low) / 2
				if mid > price {
					targets = append(targets, mid)
				}
			}
		case models.DirSell:
			if a.Low > c.High {
				mid := (a.Low + c.High) / 2
				if mid < price {
					targets = append(targets, mid)
				}
			}
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return math.Abs(targets[i]-price) < math.Abs(targets[j]-price)
	})
	if len(targets) > 3 {
		targets = targets[:3]
	}
	return targets
}

// VolumeFilter passes when the signal bar's volume is at least volMult times
// the trailing average. Insufficient history passes through.
func (d *StructureDetector) VolumeFilter(bars []models.Bar) bool {
	if len(bars) < d.volPeriod+2 {
		return true
	}
	sig := len(bars) - 2
	sum := 0.0
	for i := sig - d.volPeriod; i < sig; i++ {
		sum += bars[i].Volume
	}
	avg := sum / float64(d.volPeriod)
	if avg <= 0 {
		return true
	}
	return bars[sig].Volume >= d.volMult*avg
}

// MTFAlignment grades the trade direction against the 15-minute MA(20). A
// stretched market (price more than 0.70% from the MA) blocks entirely;
// counter-trend trades are allowed at a reduced multiplier.
func (d *StructureDetector) MTFAlignment(m15 []models.Bar, action models.Direction) (mult float64, ok bool) {
	const (
		maPeriod      = 20
		parabolicDist = 0.0070
		counterMult   = 0.7
	)
	if len(m15) < maPeriod {
		return 1.0, true
	}
	ma := SMA(m15, maPeriod)
	if ma <= 0 {
		return 1.0, true
	}
	close := m15[len(m15)-1].Close
	if math.Abs(close-ma)/ma > parabolicDist {
		d.log.Debug("mtf parabolic block",
			logger.Float64("close", close), logger.Float64("ma", ma))
		return 0, false
	}
	trendUp := close > ma
	if (action == models.DirBuy && !trendUp) || (action == models.DirSell && trendUp) {
		return counterMult, true
	}
	return 1.0, true
}
