package models

// Direction is a directional opinion shared by all detectors.
type Direction string

const (
	DirBuy     Direction = "BUY"
	DirSell    Direction = "SELL"
	DirNeutral Direction = "NEUTRAL"
)

// Opposite returns the counter direction; NEUTRAL maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case DirBuy:
		return DirSell
	case DirSell:
		return DirBuy
	default:
		return DirNeutral
	}
}

// TrendStrength grades the trend read-out.
type TrendStrength string

const (
	StrengthStrong TrendStrength = "STRONG"
	StrengthNormal TrendStrength = "NORMAL"
)

// MomentumColor is the momentum filter binary read-out.
type MomentumColor string

const (
	ColorGreen   MomentumColor = "GREEN"
	ColorRed     MomentumColor = "RED"
	ColorNeutral MomentumColor = "NEUTRAL"
)

// VolState classifies the volatility regime from the 24h ratio.
type VolState string

const (
	VolNormal  VolState = "NORMAL"
	VolSqueeze VolState = "SQUEEZE"
	VolPanic   VolState = "PANIC"
)

// VolRegime classifies working-vs-hourly ATR for sizing.
type VolRegime string

const (
	RegimeHigh   VolRegime = "HIGH"
	RegimeNormal VolRegime = "NORMAL"
	RegimeLow    VolRegime = "LOW"
)

// SessionRank is the time-of-day liquidity tier.
type SessionRank string

const (
	SessionS       SessionRank = "S"
	SessionA       SessionRank = "A"
	SessionB       SessionRank = "B"
	SessionInvalid SessionRank = "INVALID"
)

// Verdict is the Gate Keeper's final call for one evaluation.
type Verdict string

const (
	VerdictEnter      Verdict = "ENTER"
	VerdictSkip       Verdict = "SKIP"
	VerdictHardReject Verdict = "HARD_REJECT"
)

// Phase is the position-management mode.
type Phase string

const (
	PhaseNurture Phase = "NURTURE"
	PhaseProtect Phase = "PROTECT"
)

// ZoneType marks which side of price a structural zone sits on.
type ZoneType string

const (
	ZoneSupport ZoneType = "SUPPORT"
	ZoneResist  ZoneType = "RESIST"
	ZoneNone    ZoneType = ""
)

// MarketContext is the normalized regime snapshot recomputed every evaluation.
type MarketContext struct {
	DistanceATRRatio float64
	DirectionVsSMA   string // "above" | "below" | ""
	ATRToSpread      float64
	VolatilityRatio  float64
	VolState         VolState
	Session          SessionRank
	ATR              float64
	HTFATR           float64
	HTFSMA           float64
}

// Classification is the nearest-neighbor classifier output.
type Classification struct {
	Direction  Direction
	Confidence float64 // vote fraction in [0,1]
}

// TrendState is the trend classifier output for the latest bar.
type TrendState struct {
	Direction Direction
	Strength  TrendStrength
	Changed   bool // one-shot: direction flipped on this bar
}

// MomentumState is the momentum filter output for the latest bar.
type MomentumState struct {
	Color   MomentumColor
	Changed bool
}

// ZoneResult is the zone detector output.
type ZoneResult struct {
	ConfirmedSupport bool
	ConfirmedResist  bool
	Touching         bool
	Type             ZoneType
	Price            float64
	Strength         int // touch count
}

// SweepEvent is a confirmed liquidity sweep on the latest closed bar.
type SweepEvent struct {
	Action  Direction // counter to the sweep side
	Extreme float64   // wick tip, used by the counterpart for stop placement
}

// GateResult is the Gate Keeper verdict for one evaluation cycle.
// Multiplier is zero exactly when the verdict is not ENTER.
type GateResult struct {
	Verdict    Verdict
	Score      float64
	Multiplier float64
	Reason     string
	HardReject bool
}

// ManagementAction is the holding decision for one open position.
type ManagementAction struct {
	Phase          Phase
	OverrideClose  bool
	OverrideReason string
	PartialTP      bool
	PartialReason  string
}

// TradeSignal is the fully scored decision handed to the dispatcher.
type TradeSignal struct {
	Symbol       string
	Action       Direction
	SweepExtreme float64
	ATR          float64
	Confidence   float64 // 0-100
	Reason       string
	SessionRank  SessionRank
	VolRegime    VolRegime
	Multiplier   float64
}
