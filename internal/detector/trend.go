package detector

import (
	"LRRBrain/internal/domain/models"
)

// TrendClassifier grades trend direction from a fast/slow EMA cross and
// strength from the directional-movement proxy.
type TrendClassifier struct {
	fastPeriod   int
	slowPeriod   int
	strongCutoff float64
}

// NewTrendClassifier builds a classifier with production defaults.
func NewTrendClassifier() *TrendClassifier {
	return &TrendClassifier{
		fastPeriod:   8,
		slowPeriod:   21,
		strongCutoff: 0.30,
	}
}

// Classify returns the current trend state. Changed fires when the direction
// differs from the previous bar's direction and the new direction is not
// NEUTRAL.
func (t *TrendClassifier) Classify(bars []models.Bar) models.TrendState {
	cur := t.direction(bars)
	state := models.TrendState{Direction: cur, Strength: models.StrengthNormal}
	if cur == models.DirNeutral {
		return state
	}
	if ADXProxy(bars, 14) >= t.strongCutoff {
		state.Strength = models.StrengthStrong
	}
	if len(bars) > 1 {
		prev := t.direction(bars[:len(bars)-1])
		state.Changed = prev != cur
	}
	return state
}

func (t *TrendClassifier) direction(bars []models.Bar) models.Direction {
	if len(bars) < t.slowPeriod {
		return models.DirNeutral
	}
	closes := Closes(bars)
	fast := EMA(closes, t.fastPeriod)
	slow := EMA(closes, t.slowPeriod)
	switch {
	case fast > slow:
		return models.DirBuy
	case fast < slow:
		return models.DirSell
	default:
		return models.DirNeutral
	}
}

// MomentumFilter colors the market by close relative to a slow EMA.
type MomentumFilter struct {
	period int
}

// NewMomentumFilter builds a filter with the production period.
func NewMomentumFilter() *MomentumFilter {
	return &MomentumFilter{period: 34}
}

// Color returns the current momentum color and whether it just flipped.
func (m *MomentumFilter) Color(bars []models.Bar) models.MomentumState {
	cur := m.color(bars)
	state := models.MomentumState{Color: cur}
	if cur == models.ColorNeutral {
		return state
	}
	if len(bars) > 1 {
		prev := m.color(bars[:len(bars)-1])
		state.Changed = prev != models.ColorNeutral && prev != cur
	}
	return state
}

func (m *MomentumFilter) color(bars []models.Bar) models.MomentumColor {
	if len(bars) < m.period {
		return models.ColorNeutral
	}
	closes := Closes(bars)
	em := EMA(closes, m.period)
	close := closes[len(closes)-1]
	switch {
	case close > em:
		return models.ColorGreen
	case close < em:
		return models.ColorRed
	default:
		return models.ColorNeutral
	}
}
