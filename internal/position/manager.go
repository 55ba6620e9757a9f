package position

import (
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// Phase and override thresholds. A position graduates to PROTECT by age or
// by locked-in R multiple; overrides close regardless of phase.
const (
	protectAge      = 30 * time.Minute
	protectProfitR  = 1.0
	partialProfitR  = 0.8
	overextendRatio = 4.0
)

// Manager decides how an open position should be handled this cycle.
type Manager struct {
	log *logger.Logger
}

// NewManager builds a position manager.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{log: log}
}

// Assess returns the management action for one open position. Override
// conditions return immediately; otherwise the phase decides whether a
// partial take-profit is due.
func (m *Manager) Assess(pos models.Position, price float64, now time.Time,
	ctx models.MarketContext, trend models.TrendState, zone models.ZoneResult) models.ManagementAction {

	profitR := profitInR(pos, price)

	if reason, ok := m.override(pos, ctx, trend, zone); ok {
		m.log.Info("position override close",
			logger.String("side", string(pos.Side)), logger.String("reason", reason))
		return models.ManagementAction{
			Phase:          m.phase(pos, now, profitR),
			OverrideClose:  true,
			OverrideReason: reason,
		}
	}

	act := models.ManagementAction{Phase: m.phase(pos, now, profitR)}
	if act.Phase == models.PhaseProtect && profitR >= partialProfitR {
		act.PartialTP = true
		act.PartialReason = "protect_partial"
	}
	return act
}

func (m *Manager) phase(pos models.Position, now time.Time, profitR float64) models.Phase {
	if now.Sub(pos.OpenTime) >= protectAge || profitR >= protectProfitR {
		return models.PhaseProtect
	}
	return models.PhaseNurture
}

// override checks the three forced-exit conditions: an overextended market
// with no strong trend behind the position, a confirmed opposing level with
// the trend turned against the position, and panic volatility.
func (m *Manager) override(pos models.Position, ctx models.MarketContext,
	trend models.TrendState, zone models.ZoneResult) (string, bool) {

	if ctx.DistanceATRRatio >= overextendRatio && trend.Strength == models.StrengthNormal {
		return "overextended_weak_trend", true
	}
	if opposingZone(pos.Side, zone) && trend.Direction == pos.Side.Opposite() {
		return "opposing_zone_trend_reversal", true
	}
	if ctx.VolState == models.VolPanic {
		return "panic_volatility", true
	}
	return "", false
}

func opposingZone(side models.Direction, zone models.ZoneResult) bool {
	switch side {
	case models.DirBuy:
		return zone.ConfirmedResist
	case models.DirSell:
		return zone.ConfirmedSupport
	}
	return false
}

// profitInR converts open profit to R multiples using the position's initial
// stop distance. Unknown stop distance reads zero.
func profitInR(pos models.Position, price float64) float64 {
	if pos.StopDistance <= 0 {
		return 0
	}
	switch pos.Side {
	case models.DirBuy:
		return (price - pos.OpenPrice) / pos.StopDistance
	case models.DirSell:
		return (pos.OpenPrice - price) / pos.StopDistance
	}
	return 0
}
