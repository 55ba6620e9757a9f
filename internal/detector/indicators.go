package detector

import (
	"math"

	"LRRBrain/internal/domain/models"
)

// ATR computes the simple-mean average true range over the last period bars.
// Returns 0 when there is not enough history.
func ATR(bars []models.Bar, period int) float64 {
	if len(bars) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1])
	}
	return sum / float64(period)
}

func trueRange(cur, prev models.Bar) float64 {
	tr := cur.High - cur.Low
	if d := math.Abs(cur.High - prev.Close); d > tr {
		tr = d
	}
	if d := math.Abs(cur.Low - prev.Close); d > tr {
		tr = d
	}
	return tr
}

// SMA computes the simple moving average of the last period closes.
func SMA(bars []models.Bar, period int) float64 {
	if len(bars) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// EMA computes the exponential moving average of closes, seeded with the
// simple mean of the first period values.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return mean(closes)
	}
	k := 2.0 / float64(period+1)
	em := mean(closes[:period])
	for _, v := range closes[period:] {
		em = v*k + em*(1.0-k)
	}
	return em
}

// RSI computes the latest relative strength index value (0-100). Returns a
// neutral 50 when there is not enough history.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}
	var gains, losses float64
	start := len(closes) - period
	for i := start; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	avgG := gains / float64(period)
	avgL := losses / float64(period)
	if avgL == 0 {
		return 100
	}
	rs := avgG / avgL
	return 100 - 100/(1+rs)
}

// NormalizedCCI computes the commodity channel index on the last period bars
// and maps [-200,200] into [0,1], clamped.
func NormalizedCCI(bars []models.Bar, period int) float64 {
	if len(bars) < period {
		return 0.5
	}
	tp := make([]float64, period)
	start := len(bars) - period
	sum := 0.0
	for i := 0; i < period; i++ {
		b := bars[start+i]
		tp[i] = (b.High + b.Low + b.Close) / 3
		sum += tp[i]
	}
	ma := sum / float64(period)
	md := 0.0
	for _, v := range tp {
		md += math.Abs(v - ma)
	}
	md /= float64(period)
	if md == 0 {
		return 0.5
	}
	cci := (tp[period-1] - ma) / (0.015 * md)
	return clamp01((cci + 200) / 400)
}

// ADXProxy computes a normalized trend-strength proxy in [0,1] from mean
// directional movement over true range.
func ADXProxy(bars []models.Bar, period int) float64 {
	if len(bars) < period+1 {
		return 0.25
	}
	start := len(bars) - period
	var dmPlus, dmMinus, trSum float64
	for i := start; i < len(bars); i++ {
		if up := bars[i].High - bars[i-1].High; up > 0 {
			dmPlus += up
		}
		if down := bars[i-1].Low - bars[i].Low; down > 0 {
			dmMinus += down
		}
		trSum += trueRange(bars[i], bars[i-1])
	}
	atr := trSum / float64(period)
	if atr <= 0 {
		return 0.25
	}
	dip := dmPlus / float64(period) / atr
	dim := dmMinus / float64(period) / atr
	dx := math.Abs(dip-dim) / (dip + dim + 1e-9)
	if dx > 1 {
		return 1
	}
	return dx
}

// Closes extracts the close series from bars.
func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
