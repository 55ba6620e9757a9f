package risk

// SpreadGuard tracks a running spread median with a sign-step estimator and
// blocks entries when the current spread is out of line with the median, the
// hard cap, or the prevailing ATR.
type SpreadGuard struct {
	step      float64
	hardCap   float64
	medianMax float64
	atrFrac   float64

	median float64
}

// SpreadOption configures a SpreadGuard.
type SpreadOption func(*SpreadGuard)

func WithHardCap(cap float64) SpreadOption {
	return func(g *SpreadGuard) { g.hardCap = cap }
}

func WithMedianStep(step float64) SpreadOption {
	return func(g *SpreadGuard) { g.step = step }
}

func WithMedianSeed(seed float64) SpreadOption {
	return func(g *SpreadGuard) { g.median = seed }
}

// NewSpreadGuard builds a guard with production defaults for gold. The median
// starts at a fixed prior rather than the first sample, so a spiky first
// quote cannot anchor the estimate.
func NewSpreadGuard(opts ...SpreadOption) *SpreadGuard {
	g := &SpreadGuard{
		step:      0.03,
		hardCap:   0.50,
		medianMax: 2.5,
		atrFrac:   0.18,
		median:    0.20,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe feeds one spread sample into the median estimator. The estimator
// moves a fixed step toward each sample, so the tracked value converges on
// the median without keeping history.
func (g *SpreadGuard) Observe(spread float64) {
	if spread <= 0 {
		return
	}
	switch {
	case spread > g.median:
		g.median += g.step
	case spread < g.median:
		g.median -= g.step
	}
	if g.median < 0 {
		g.median = 0
	}
}

// Median returns the current estimate, starting at the seed prior.
func (g *SpreadGuard) Median() float64 { return g.median }

// Allow reports whether an entry is permitted at the given spread and ATR,
// with a reason tag on rejection.
func (g *SpreadGuard) Allow(spread, atr float64) (bool, string) {
	if spread <= 0 {
		return true, ""
	}
	if spread > g.hardCap {
		return false, "spread_hard_cap"
	}
	if g.median > 0 && spread > g.medianMax*g.median {
		return false, "spread_vs_median"
	}
	if atr > 0 && spread > g.atrFrac*atr {
		return false, "spread_vs_atr"
	}
	return true, ""
}
