package gate

import "LRRBrain/internal/domain/models"

// Confidence calibration. The gate score is normalized onto 0-100 and blended
// with a coarse heuristic read so the reported number stays comparable with
// older journal rows.
const (
	normShift  = 30.0
	normRange  = 180.0
	normWeight = 0.70
)

// CalibrateConfidence maps a gate result plus context onto a 0-100 confidence.
func CalibrateConfidence(gr models.GateResult, session models.SessionRank, regime models.VolRegime, fvgFound bool, mtfMult float64) float64 {
	norm := (gr.Score + normShift) / normRange * 100
	if norm < 0 {
		norm = 0
	}
	if norm > 100 {
		norm = 100
	}
	legacy := legacyConfidence(session, regime, fvgFound, mtfMult)
	final := normWeight*norm + (1-normWeight)*legacy
	if final < 0 {
		return 0
	}
	if final > 100 {
		return 100
	}
	return final
}

func legacyConfidence(session models.SessionRank, regime models.VolRegime, fvgFound bool, mtfMult float64) float64 {
	conf := 50.0

	switch session {
	case models.SessionS:
		conf += 20
	case models.SessionA:
		conf += 10
	case models.SessionB:
		conf -= 10
	default:
		conf -= 30
	}

	switch regime {
	case models.RegimeNormal:
		conf += 10
	case models.RegimeLow:
		conf += 5
	case models.RegimeHigh:
		conf -= 10
	}

	if fvgFound {
		conf += 15
	} else {
		conf -= 5
	}

	switch {
	case mtfMult >= 1.0:
		conf += 10
	case mtfMult >= 0.7:
		conf -= 5
	default:
		conf -= 20
	}

	return conf
}
