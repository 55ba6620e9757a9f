package engine

import (
	"time"

	"LRRBrain/internal/detector"
	"LRRBrain/internal/domain/models"
	"LRRBrain/pkg/logger"
)

// Resolved is one complete detector read-out for an evaluation cycle. Source
// tells where it came from; the fields are never a mix of both.
type Resolved struct {
	Source string // "snapshot" | "local"

	Classifier models.Classification
	Trend      models.TrendState
	Zone       models.ZoneResult
	Momentum   models.MomentumState
	Context    models.MarketContext
	FVGTargets []float64
}

const (
	sourceSnapshot = "snapshot"
	sourceLocal    = "local"
)

// Resolver picks between a fresh external snapshot and a full local
// recomputation. Whichever wins supplies every detector output for the
// cycle.
type Resolver struct {
	freshFor time.Duration

	cache      *SnapshotCache
	classifier *detector.LorentzianClassifier
	trend      *detector.TrendClassifier
	momentum   *detector.MomentumFilter
	zones      *detector.ZoneDetector
	context    *detector.ContextBuilder

	log *logger.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

func WithFreshness(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.freshFor = d }
}

// NewResolver builds a resolver over the local detector set.
func NewResolver(
	cache *SnapshotCache,
	classifier *detector.LorentzianClassifier,
	trend *detector.TrendClassifier,
	momentum *detector.MomentumFilter,
	zones *detector.ZoneDetector,
	context *detector.ContextBuilder,
	log *logger.Logger,
	opts ...ResolverOption,
) *Resolver {
	r := &Resolver{
		freshFor:   60 * time.Second,
		cache:      cache,
		classifier: classifier,
		trend:      trend,
		momentum:   momentum,
		zones:      zones,
		context:    context,
		log:        log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the detector bundle for this cycle.
func (r *Resolver) Resolve(now time.Time, m5, m15 []models.Bar, tick models.Tick) Resolved {
	if snap := r.cache.Latest(); snap != nil {
		age := snap.Age(now)
		if age <= r.freshFor {
			return r.fromSnapshot(snap, m5, m15, tick)
		}
		r.log.Debug("alert snapshot stale, recomputing locally",
			logger.Duration("age", age))
	}
	return r.local(m5, m15, tick)
}

// fromSnapshot adopts the external bundle wholesale. ATR values stay local:
// they come straight from bars, feed sizing and the order payload, and are
// not detector opinions.
func (r *Resolver) fromSnapshot(snap *models.DetectorSnapshot, m5, m15 []models.Bar, tick models.Tick) Resolved {
	base := r.context.Build(m5, m15, tick)
	return Resolved{
		Source:     sourceSnapshot,
		Classifier: snap.Classifier,
		Trend:      snap.Trend,
		Zone:       snap.Zone,
		Momentum:   snap.Momentum,
		Context: models.MarketContext{
			DistanceATRRatio: snap.DistanceATRRatio,
			DirectionVsSMA:   snap.DirectionVsSMA,
			ATRToSpread:      snap.ATRToSpread,
			VolatilityRatio:  snap.VolatilityRatio,
			VolState:         snap.VolState,
			ATR:              base.ATR,
			HTFATR:           base.HTFATR,
			HTFSMA:           snap.HTFSMA,
		},
		FVGTargets: snap.FVGTargets,
	}
}

func (r *Resolver) local(m5, m15 []models.Bar, tick models.Tick) Resolved {
	return Resolved{
		Source:     sourceLocal,
		Classifier: r.classifier.Classify(m5),
		Trend:      r.trend.Classify(m5),
		Zone:       r.zones.Detect(m5, detector.ATR(m5, 14)),
		Momentum:   r.momentum.Color(m5),
		Context:    r.context.Build(m5, m15, tick),
	}
}
