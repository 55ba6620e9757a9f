package risk

import "LRRBrain/internal/domain/models"

// Sizing constants: base per-trade risk percent and its absolute cap, plus
// the spread discount ramp.
const (
	baseRiskPct = 0.40
	maxRiskPct  = 0.60

	spreadRef     = 0.30
	spreadPenalty = 0.25
	spreadMultMin = 0.50
	spreadMultMax = 1.00

	regimeHighCut  = 1.35
	regimeLowCut   = 0.85
	regimeHighMult = 0.55
	regimeLowMult  = 1.10
)

// ClassifyVolRegime grades the working ATR against the hourly ATR. An unknown
// baseline reads NORMAL.
func ClassifyVolRegime(atrM5, atrH1 float64) models.VolRegime {
	if atrM5 <= 0 || atrH1 <= 0 {
		return models.RegimeNormal
	}
	ratio := atrM5 / atrH1
	switch {
	case ratio >= regimeHighCut:
		return models.RegimeHigh
	case ratio < regimeLowCut:
		return models.RegimeLow
	default:
		return models.RegimeNormal
	}
}

func regimeMult(r models.VolRegime) float64 {
	switch r {
	case models.RegimeHigh:
		return regimeHighMult
	case models.RegimeLow:
		return regimeLowMult
	default:
		return 1.0
	}
}

// SpreadMult discounts size linearly as the spread widens past the reference,
// floored at half size.
func SpreadMult(spread float64) float64 {
	if spread <= 0 {
		return spreadMultMax
	}
	m := 1.0 - (spread/spreadRef)*spreadPenalty
	if m < spreadMultMin {
		return spreadMultMin
	}
	if m > spreadMultMax {
		return spreadMultMax
	}
	return m
}

// RiskPct computes the per-trade risk percent from the session tier, the
// volatility regime, and the live spread, capped at the absolute maximum.
func RiskPct(sessionMult float64, regime models.VolRegime, spread float64) float64 {
	risk := baseRiskPct * sessionMult * regimeMult(regime) * SpreadMult(spread)
	if risk > maxRiskPct {
		return maxRiskPct
	}
	if risk < 0 {
		return 0
	}
	return risk
}
