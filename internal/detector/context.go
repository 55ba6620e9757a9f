package detector

import (
	"math"

	"LRRBrain/internal/domain/models"
)

// ContextBuilder derives the normalized market regime from the working and
// higher timeframes. Session rank is assigned by the caller; everything else
// is computed here.
type ContextBuilder struct {
	atrPeriod     int
	smaPeriod     int
	dayWindow     int
	squeezeCutoff float64
	panicCutoff   float64
}

// NewContextBuilder builds a context builder with production defaults. The
// day window is 288 working-timeframe bars, one trading day of M5.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{
		atrPeriod:     14,
		smaPeriod:     20,
		dayWindow:     288,
		squeezeCutoff: 0.85,
		panicCutoff:   2.0,
	}
}

// Build computes the market context from the M5 and M15 series and the
// current tick. The M15 ATR is preferred; when M15 history is short the M5
// ATR stands in so the ratios stay defined.
func (b *ContextBuilder) Build(m5, m15 []models.Bar, tick models.Tick) models.MarketContext {
	ctx := models.MarketContext{
		VolatilityRatio: 1.0,
		VolState:        models.VolNormal,
	}
	if len(m5) == 0 {
		return ctx
	}
	close := m5[len(m5)-1].Close

	atr := ATR(m15, b.atrPeriod)
	if atr <= 0 {
		atr = ATR(m5, b.atrPeriod)
	}
	ctx.ATR = atr
	ctx.HTFATR = ATR(m15, b.atrPeriod)
	ctx.HTFSMA = SMA(m15, b.smaPeriod)

	if ctx.HTFSMA > 0 && atr > 0 {
		ctx.DistanceATRRatio = math.Abs(close-ctx.HTFSMA) / atr
		if close >= ctx.HTFSMA {
			ctx.DirectionVsSMA = "above"
		} else {
			ctx.DirectionVsSMA = "below"
		}
	}

	if spread := tick.Spread(); spread > 0 && atr > 0 {
		ctx.ATRToSpread = atr / spread
	}

	// The 24h baseline needs a full day of bars plus ATR warmup before the
	// ratio means anything; until then the regime reads NORMAL.
	if len(m5) >= b.dayWindow+b.atrPeriod+1 {
		baseline := ATR(m5, b.dayWindow)
		now := ATR(m5, b.atrPeriod)
		if baseline > 0 && now > 0 {
			ctx.VolatilityRatio = now / baseline
		}
	}
	switch {
	case ctx.VolatilityRatio >= b.panicCutoff:
		ctx.VolState = models.VolPanic
	case ctx.VolatilityRatio < b.squeezeCutoff:
		ctx.VolState = models.VolSqueeze
	default:
		ctx.VolState = models.VolNormal
	}
	return ctx
}
