package models

import "time"

// DetectorSnapshot is one complete bundle of detector outputs supplied by the
// external alert feed. It is replaced wholesale on every inbound alert and is
// either consumed in full (fresh) or ignored in full (stale); fields from a
// snapshot are never mixed with locally computed ones.
type DetectorSnapshot struct {
	ReceivedAt time.Time
	Symbol     string

	Classifier Classification
	Trend      TrendState
	Zone       ZoneResult
	Momentum   MomentumState

	DistanceATRRatio float64
	ATRToSpread      float64
	VolatilityRatio  float64
	VolState         VolState
	DirectionVsSMA   string
	HTFSMA           float64

	FVGTargets []float64
}

// Age returns the snapshot age at the given instant.
func (s *DetectorSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.ReceivedAt)
}

// AlertRequest is the inbound alert payload. Missing fields take safe typed
// defaults; enum-ish fields are validated so a malformed alert is rejected as
// a whole without touching the cached snapshot.
type AlertRequest struct {
	Time   string `json:"time"`
	Symbol string `json:"symbol"`

	LCDirection string  `json:"lc_direction" default:"NEUTRAL" validate:"oneof=BUY SELL NEUTRAL"`
	LCConf      float64 `json:"lc_conf" validate:"gte=0,lte=1"`

	QTrendDir     string `json:"qtrend_dir" default:"NEUTRAL" validate:"oneof=BUY SELL NEUTRAL"`
	QTrendStr     string `json:"qtrend_str" default:"NORMAL" validate:"oneof=STRONG NORMAL"`
	QTrendChanged bool   `json:"qtrend_changed"`

	ZoneType             string  `json:"zone_type" validate:"omitempty,oneof=SUPPORT RESIST"`
	ZonePrice            float64 `json:"zone_price" validate:"gte=0"`
	ZoneConfirmedSupport bool    `json:"zone_confirmed_support"`
	ZoneConfirmedResist  bool    `json:"zone_confirmed_resist"`
	ZoneTouching         bool    `json:"zone_touching"`
	ZoneStrength         int     `json:"zone_strength" validate:"gte=0"`

	OSGFCColor   string `json:"osgfc_color" default:"NEUTRAL" validate:"oneof=GREEN RED NEUTRAL"`
	OSGFCChanged bool   `json:"osgfc_changed"`

	DistanceATRRatio float64 `json:"distance_atr_ratio" validate:"gte=0"`
	ATRToSpread      float64 `json:"atr_to_spread" validate:"gte=0"`
	VolatilityRatio  float64 `json:"volatility_ratio" default:"1.0" validate:"gte=0"`
	VolState         string  `json:"vol_state" default:"NORMAL" validate:"oneof=NORMAL SQUEEZE PANIC"`
	DirectionVsSMA   string  `json:"direction_vs_sma" validate:"omitempty,oneof=above below"`
	SMA20            float64 `json:"sma20" validate:"gte=0"`

	FVGTargets []float64 `json:"fvg_targets"`
}

// Snapshot converts a validated alert into a DetectorSnapshot stamped with
// the receipt time.
func (r *AlertRequest) Snapshot(now time.Time) *DetectorSnapshot {
	targets := r.FVGTargets
	if len(targets) > 3 {
		targets = targets[:3]
	}
	return &DetectorSnapshot{
		ReceivedAt: now,
		Symbol:     r.Symbol,
		Classifier: Classification{
			Direction:  Direction(r.LCDirection),
			Confidence: r.LCConf,
		},
		Trend: TrendState{
			Direction: Direction(r.QTrendDir),
			Strength:  TrendStrength(r.QTrendStr),
			Changed:   r.QTrendChanged,
		},
		Zone: ZoneResult{
			ConfirmedSupport: r.ZoneConfirmedSupport,
			ConfirmedResist:  r.ZoneConfirmedResist,
			Touching:         r.ZoneTouching,
			Type:             ZoneType(r.ZoneType),
			Price:            r.ZonePrice,
			Strength:         r.ZoneStrength,
		},
		Momentum: MomentumState{
			Color:   MomentumColor(r.OSGFCColor),
			Changed: r.OSGFCChanged,
		},
		DistanceATRRatio: r.DistanceATRRatio,
		ATRToSpread:      r.ATRToSpread,
		VolatilityRatio:  r.VolatilityRatio,
		VolState:         VolState(r.VolState),
		DirectionVsSMA:   r.DirectionVsSMA,
		HTFSMA:           r.SMA20,
		FVGTargets:       targets,
	}
}
