package gate

import (
	"strings"

	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// Score contributions. The additive block only runs when no hard-reject
// condition holds; traps subtract before confluence adds.
const (
	scoreMin = -100.0
	scoreMax = 150.0

	trapSqueeze     = -20.0
	trapOverextend  = -15.0
	trapThinATR     = -10.0
	lcStrongMatch   = 25.0
	lcMatch         = 15.0
	lcContra        = -20.0
	lcStrongConf    = 0.75
	trendStrong     = 30.0
	trendNormal     = 15.0
	trendFreshBonus = 10.0
	trendContra     = -25.0
	zoneConfirmed   = 20.0
	zoneBlocking    = -15.0
	zoneTouchFavor  = 5.0
	zoneTouchContra = -10.0
	htfTargetBonus  = 10.0
	workingFVGBonus = 5.0
	momoFreshMatch  = 15.0
	momoMatch       = 10.0
	momoContra      = -10.0

	enterCutoff    = 60.0
	reducedCutoff  = 30.0
	reducedFactor  = 0.8
	overextendSoft = 4.0
	overextendHard = 5.0
	thinATRSoft    = 15.0
	thinATRHard    = 10.0
)

var sessionScores = map[models.SessionRank]float64{
	models.SessionS:       10.0,
	models.SessionA:       0.0,
	models.SessionB:       -5.0,
	models.SessionInvalid: -50.0,
}

// EvalInput bundles everything the Keeper weighs for one candidate entry.
type EvalInput struct {
	Action     models.Direction
	Classifier models.Classification
	Trend      models.TrendState
	Zone       models.ZoneResult
	Momentum   models.MomentumState

	DistanceATRRatio float64
	ATRToSpread      float64
	VolState         models.VolState
	Session          models.SessionRank

	HTFTargets bool
	WorkingFVG bool
	MTFMult    float64
}

// Keeper scores a sweep signal against the full confluence stack and decides
// whether it may become an order.
type Keeper struct {
	log *logger.Logger
}

// NewKeeper builds the gate keeper.
func NewKeeper(log *logger.Logger) *Keeper {
	return &Keeper{log: log}
}

// Evaluate produces the verdict for one candidate. Hard rejects short-circuit
// with a zero multiplier; otherwise the summed score picks the size tier and
// the MTF multiplier scales it. The multiplier is positive exactly when the
// verdict is ENTER.
func (k *Keeper) Evaluate(in EvalInput) models.GateResult {
	if reason, rejected := k.hardReject(in); rejected {
		k.log.Debug("gate hard reject", logger.String("reason", reason))
		return models.GateResult{
			Verdict:    models.VerdictHardReject,
			Multiplier: 0,
			Reason:     reason,
			HardReject: true,
		}
	}

	score := 0.0
	var reasons []string
	add := func(delta float64, tag string) {
		score += delta
		reasons = append(reasons, tag)
	}

	// Trap conditions.
	if in.VolState == models.VolSqueeze {
		add(trapSqueeze, "squeeze")
	}
	if in.DistanceATRRatio >= overextendSoft {
		add(trapOverextend, "overextended")
	}
	if in.ATRToSpread > 0 && in.ATRToSpread < thinATRSoft {
		add(trapThinATR, "thin_atr")
	}

	// Classifier.
	switch in.Classifier.Direction {
	case in.Action:
		if in.Classifier.Confidence >= lcStrongConf {
			add(lcStrongMatch, "lc_strong")
		} else {
			add(lcMatch, "lc_match")
		}
	case in.Action.Opposite():
		add(lcContra, "lc_contra")
	}

	// Trend.
	switch in.Trend.Direction {
	case in.Action:
		if in.Trend.Strength == models.StrengthStrong {
			add(trendStrong, "trend_strong")
		} else {
			add(trendNormal, "trend_match")
		}
		if in.Trend.Changed {
			add(trendFreshBonus, "trend_fresh")
		}
	case in.Action.Opposite():
		add(trendContra, "trend_contra")
	}

	// Zones. A confirmed level on each side scores independently.
	favor, block := zoneSides(in.Action, in.Zone)
	if favor {
		add(zoneConfirmed, "zone_backing")
	}
	if block {
		add(zoneBlocking, "zone_blocking")
	}
	if in.Zone.Touching && in.Zone.Type != models.ZoneNone {
		if zoneFavors(in.Action, in.Zone.Type) {
			add(zoneTouchFavor, "zone_touch")
		} else {
			add(zoneTouchContra, "zone_touch_contra")
		}
	}

	// Imbalance targets.
	if in.HTFTargets {
		add(htfTargetBonus, "htf_targets")
	}
	if in.WorkingFVG {
		add(workingFVGBonus, "fvg")
	}

	// Momentum.
	switch momentumDirection(in.Momentum.Color) {
	case in.Action:
		if in.Momentum.Changed {
			add(momoFreshMatch, "momo_fresh")
		} else {
			add(momoMatch, "momo_match")
		}
	case in.Action.Opposite():
		add(momoContra, "momo_contra")
	}

	// Session tier.
	if delta, ok := sessionScores[in.Session]; ok && delta != 0 {
		add(delta, "session_"+strings.ToLower(string(in.Session)))
	}

	if score < scoreMin {
		score = scoreMin
	}
	if score > scoreMax {
		score = scoreMax
	}

	mult := 0.0
	switch {
	case score >= enterCutoff:
		mult = in.MTFMult
	case score >= reducedCutoff:
		mult = in.MTFMult * reducedFactor
	}

	res := models.GateResult{
		Score:      score,
		Multiplier: mult,
		Reason:     strings.Join(reasons, ","),
	}
	if mult > 0 {
		res.Verdict = models.VerdictEnter
	} else {
		res.Verdict = models.VerdictSkip
	}
	return res
}

func (k *Keeper) hardReject(in EvalInput) (string, bool) {
	if in.ATRToSpread > 0 && in.ATRToSpread < thinATRHard {
		return "spread_dominates_atr", true
	}
	if in.DistanceATRRatio >= overextendHard {
		return "parabolic_distance", true
	}
	if in.VolState == models.VolPanic {
		return "panic_volatility", true
	}
	return "", false
}

// zoneSides reports whether a confirmed zone backs the trade and whether one
// blocks it. For a BUY, confirmed support backs and confirmed resistance
// blocks; mirrored for a SELL.
func zoneSides(action models.Direction, z models.ZoneResult) (favor, block bool) {
	switch action {
	case models.DirBuy:
		return z.ConfirmedSupport, z.ConfirmedResist
	case models.DirSell:
		return z.ConfirmedResist, z.ConfirmedSupport
	}
	return false, false
}

func zoneFavors(action models.Direction, typ models.ZoneType) bool {
	return (action == models.DirBuy && typ == models.ZoneSupport) ||
		(action == models.DirSell && typ == models.ZoneResist)
}

func momentumDirection(c models.MomentumColor) models.Direction {
	switch c {
	case models.ColorGreen:
		return models.DirBuy
	case models.ColorRed:
		return models.DirSell
	default:
		return models.DirNeutral
	}
}
