package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LRRBrain/internal/detector"
	"LRRBrain/internal/domain/models"
	"LRRBrain/internal/domain/repository"
	"LRRBrain/internal/gate"
	"LRRBrain/internal/position"
	"LRRBrain/internal/risk"
	"LRRBrain/pkg/logger"
)

// Engine is the main decision loop. Single-threaded: all detector work, the
// Gate Keeper, risk counters, and bar-dedupe state live here. The heartbeat
// monitor and the snapshot cache are fed by other goroutines and read
// through their own locks.
type Engine struct {
	symbol      string
	interval    time.Duration
	minSleep    time.Duration
	haltSleep   int
	remoteSleep int
	barCount    int
	htfCount    int
	h1Count     int
	callTimeout time.Duration

	market  repository.MarketData
	channel repository.SignalChannel
	store   repository.StateStore
	journal repository.DecisionJournal
	metrics repository.Metrics

	structure *detector.StructureDetector
	resolver  *Resolver
	keeper    *gate.Keeper
	sessions  *gate.SessionTable
	tracker   *risk.Tracker
	spread    *risk.SpreadGuard
	positions *position.Manager
	heartbeat *Monitor
	news      *NewsFilter

	log *logger.Logger

	lastSignalBar time.Time
	openProfits   map[int64]float64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithSymbol(symbol string) EngineOption {
	return func(e *Engine) { e.symbol = symbol }
}

func WithInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.interval = d }
}

func WithBarCounts(working, htf, hourly int) EngineOption {
	return func(e *Engine) { e.barCount, e.htfCount, e.h1Count = working, htf, hourly }
}

func WithCallTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.callTimeout = d }
}

// Deps bundles the engine's collaborators for construction.
type Deps struct {
	Market  repository.MarketData
	Channel repository.SignalChannel
	Store   repository.StateStore
	Journal repository.DecisionJournal
	Metrics repository.Metrics

	Structure *detector.StructureDetector
	Resolver  *Resolver
	Keeper    *gate.Keeper
	Sessions  *gate.SessionTable
	Tracker   *risk.Tracker
	Spread    *risk.SpreadGuard
	Positions *position.Manager
	Heartbeat *Monitor
	News      *NewsFilter

	Log *logger.Logger
}

// New builds the engine with production defaults.
func New(deps Deps, opts ...EngineOption) *Engine {
	e := &Engine{
		symbol:      "XAUUSD",
		interval:    2 * time.Second,
		minSleep:    100 * time.Millisecond,
		haltSleep:   5,
		remoteSleep: 3,
		barCount:    320,
		htfCount:    60,
		h1Count:     30,
		callTimeout: 1500 * time.Millisecond,

		market:  deps.Market,
		channel: deps.Channel,
		store:   deps.Store,
		journal: deps.Journal,
		metrics: deps.Metrics,

		structure: deps.Structure,
		resolver:  deps.Resolver,
		keeper:    deps.Keeper,
		sessions:  deps.Sessions,
		tracker:   deps.Tracker,
		spread:    deps.Spread,
		positions: deps.Positions,
		heartbeat: deps.Heartbeat,
		news:      deps.News,

		log:         deps.Log,
		openProfits: make(map[int64]float64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run connects the gateway, restores the day state, and polls until the
// context is cancelled. A failed gateway connect is fatal.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.market.Connect(ctx); err != nil {
		return fmt.Errorf("gateway connect: %w", err)
	}
	e.restoreDayState(ctx)
	e.log.Info("engine started",
		logger.String("symbol", e.symbol),
		logger.Duration("interval", e.interval))

	for {
		start := time.Now()
		mult := e.cycle(ctx)
		e.metrics.RecordCycle(time.Since(start).Seconds())

		sleep := time.Duration(mult)*e.interval - time.Since(start)
		if sleep < e.minSleep {
			sleep = e.minSleep
		}
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return nil
		case <-time.After(sleep):
		}
	}
}

// cycle runs one evaluation pass and returns the sleep multiplier: halted
// states back off harder than a normal tick.
func (e *Engine) cycle(ctx context.Context) int {
	now := time.Now()

	hb, _, hasHB := e.heartbeat.Snapshot()
	e.heartbeat.CheckStale(now)

	equity := hb.Equity
	if !hasHB {
		if acc, err := e.fetchAccount(ctx); err == nil {
			equity = acc.Equity
		}
	}

	if e.tracker.Roll(e.sessions.LocalDate(now), equity) {
		e.persistDay(ctx)
	}
	if hasHB {
		e.tracker.ReconcileEntries(hb.DailyEntries)
		e.tracker.UpdateEquity(hb.Equity)
	}
	if e.tracker.Halted() {
		return e.haltSleep
	}
	if halted, reason := e.heartbeat.CounterpartHalted(); halted {
		e.log.Debug("counterpart halted", logger.String("reason", reason))
		return e.remoteSleep
	}

	if changed, blocked, name := e.news.Sync(now); changed {
		e.sendNewsBlock(ctx, blocked, name, now)
	}

	m5, m15, h1, tick, err := e.fetchMarket(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrDataNotReady) {
			e.metrics.RecordError("market_data")
			e.log.Warn("market data fetch failed", logger.Error(err))
		}
		return 1
	}

	e.spread.Observe(tick.Spread())
	e.metrics.RecordSpreadMedian(e.spread.Median())

	res := e.resolver.Resolve(now, m5, m15, tick)
	rank, sessionMult := e.sessions.Rank(now)
	res.Context.Session = rank

	e.managePositions(ctx, now, tick, res)

	// One decision per closed bar, no matter how often we poll.
	if len(m5) < 2 {
		return 1
	}
	signalBar := m5[len(m5)-2].Time
	if !signalBar.After(e.lastSignalBar) {
		return 1
	}
	e.lastSignalBar = signalBar

	e.evaluate(ctx, now, m5, m15, h1, tick, res, rank, sessionMult)
	return 1
}

// evaluate runs the entry pipeline for a freshly closed bar.
func (e *Engine) evaluate(ctx context.Context, now time.Time,
	m5, m15, h1 []models.Bar, tick models.Tick,
	res Resolved, rank models.SessionRank, sessionMult float64) {

	atr := res.Context.ATR
	sweep, ok := e.structure.DetectSweep(m5, atr)
	if !ok {
		return
	}
	e.log.Info("sweep detected",
		logger.String("action", string(sweep.Action)),
		logger.Float64("extreme", sweep.Extreme),
		logger.String("source", res.Source))

	if !e.structure.VolumeFilter(m5) {
		e.journalDecision(ctx, now, sweep.Action, models.VerdictSkip, 0, 0, "volume_filter", res, false)
		return
	}

	if blocked, name := e.news.Blocked(now); blocked {
		e.sendHold(ctx, "news_"+name, now)
		return
	}
	if allowed, reason := e.spread.Allow(tick.Spread(), atr); !allowed {
		e.sendHold(ctx, reason, now)
		return
	}
	if allowed, reason := e.tracker.CanEnter(); !allowed {
		e.sendHold(ctx, reason, now)
		return
	}

	mtfMult, _ := e.structure.MTFAlignment(m15, sweep.Action)
	_, fvgFound := e.structure.FindFVG(m5, sweep.Action)
	price := m5[len(m5)-1].Close
	targets := res.FVGTargets
	if res.Source == sourceLocal {
		targets = e.structure.FVGTargets(m15, sweep.Action, price)
	}

	gr := e.keeper.Evaluate(gate.EvalInput{
		Action:           sweep.Action,
		Classifier:       res.Classifier,
		Trend:            res.Trend,
		Zone:             res.Zone,
		Momentum:         res.Momentum,
		DistanceATRRatio: res.Context.DistanceATRRatio,
		ATRToSpread:      res.Context.ATRToSpread,
		VolState:         res.Context.VolState,
		Session:          rank,
		HTFTargets:       len(targets) > 0,
		WorkingFVG:       fvgFound,
		MTFMult:          mtfMult,
	})
	e.metrics.RecordVerdict(string(gr.Verdict))
	e.metrics.RecordGateScore(gr.Score)

	regime := risk.ClassifyVolRegime(detector.ATR(m5, 14), detector.ATR(h1, 14))
	conf := gate.CalibrateConfidence(gr, rank, regime, fvgFound, mtfMult)

	e.log.Info("gate verdict",
		logger.String("verdict", string(gr.Verdict)),
		logger.Float64("score", gr.Score),
		logger.Float64("multiplier", gr.Multiplier),
		logger.String("reason", gr.Reason))

	if gr.Verdict != models.VerdictEnter {
		e.journalDecision(ctx, now, sweep.Action, gr.Verdict, gr.Score, gr.Multiplier, gr.Reason, res, false)
		return
	}

	signal := &models.TradeSignal{
		Symbol:       e.symbol,
		Action:       sweep.Action,
		SweepExtreme: sweep.Extreme,
		ATR:          atr,
		Confidence:   conf,
		Reason:       gr.Reason,
		SessionRank:  rank,
		VolRegime:    regime,
		Multiplier:   gr.Multiplier,
	}
	dispatched := e.dispatchOrder(ctx, signal, now)
	if dispatched {
		e.tracker.RecordEntry(risk.RiskPct(sessionMult, regime, tick.Spread()))
		e.persistDay(ctx)
	}
	e.journalDecision(ctx, now, sweep.Action, gr.Verdict, gr.Score, gr.Multiplier, gr.Reason, res, dispatched)
}

// managePositions runs the phase/override pass over every open position and
// retires the loss-run counter entries of positions that closed since the
// last cycle.
func (e *Engine) managePositions(ctx context.Context, now time.Time, tick models.Tick, res Resolved) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	open, err := e.market.Positions(callCtx)
	cancel()
	if err != nil {
		if !errors.Is(err, repository.ErrDataNotReady) {
			e.metrics.RecordError("positions")
			e.log.Warn("positions fetch failed", logger.Error(err))
		}
		return
	}

	price := (tick.Bid + tick.Ask) / 2
	seen := make(map[int64]struct{}, len(open))
	for _, pos := range open {
		key := pos.OpenTime.UnixNano()
		seen[key] = struct{}{}
		e.openProfits[key] = pos.Profit

		act := e.positions.Assess(pos, price, now, res.Context, res.Trend, res.Zone)
		if act.OverrideClose {
			e.log.Warn("position override close suggested",
				logger.String("side", string(pos.Side)),
				logger.String("reason", act.OverrideReason))
		} else if act.PartialTP {
			e.log.Info("partial take-profit suggested",
				logger.String("side", string(pos.Side)),
				logger.String("phase", string(act.Phase)))
		}
	}

	for key, profit := range e.openProfits {
		if _, stillOpen := seen[key]; stillOpen {
			continue
		}
		e.tracker.RecordResult(profit)
		e.persistDay(ctx)
		delete(e.openProfits, key)
	}
}

func (e *Engine) fetchMarket(ctx context.Context) (m5, m15, h1 []models.Bar, tick models.Tick, err error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	if m5, err = e.market.Bars(callCtx, repository.TFM5, e.barCount); err != nil {
		return nil, nil, nil, tick, err
	}
	if m15, err = e.market.Bars(callCtx, repository.TFM15, e.htfCount); err != nil {
		return nil, nil, nil, tick, err
	}
	if h1, err = e.market.Bars(callCtx, repository.TFH1, e.h1Count); err != nil {
		return nil, nil, nil, tick, err
	}
	if tick, err = e.market.Tick(callCtx); err != nil {
		return nil, nil, nil, tick, err
	}
	return m5, m15, h1, tick, nil
}

func (e *Engine) fetchAccount(ctx context.Context) (models.Account, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.market.Account(callCtx)
}

func (e *Engine) dispatchOrder(ctx context.Context, sig *models.TradeSignal, now time.Time) bool {
	blocked, _ := e.news.Blocked(now)
	msg := &models.OrderMessage{
		Type:         models.MsgTypeOrder,
		Symbol:       sig.Symbol,
		Action:       sig.Action,
		SweepExtreme: sig.SweepExtreme,
		ATR:          sig.ATR,
		Confidence:   sig.Confidence,
		Reason:       sig.Reason,
		SessionRank:  string(sig.SessionRank),
		VolRegime:    string(sig.VolRegime),
		Multiplier:   sig.Multiplier,
		TS:           now.Unix(),
		NewsBlock:    blocked,
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	err := e.channel.SendOrder(callCtx, msg)
	e.metrics.RecordDispatch(models.MsgTypeOrder, err == nil)
	if err != nil {
		e.log.Error("order send failed", logger.Error(err))
		return false
	}
	e.log.Info("order dispatched",
		logger.String("action", string(sig.Action)),
		logger.Float64("confidence", sig.Confidence),
		logger.Float64("multiplier", sig.Multiplier))
	return true
}

func (e *Engine) sendHold(ctx context.Context, reason string, now time.Time) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	err := e.channel.SendHold(callCtx, &models.HoldMessage{
		Type:   models.MsgTypeHold,
		Reason: reason,
		TS:     now.Unix(),
	})
	e.metrics.RecordDispatch(models.MsgTypeHold, err == nil)
	if err != nil {
		e.log.Error("hold send failed", logger.Error(err), logger.String("reason", reason))
	}
}

func (e *Engine) sendNewsBlock(ctx context.Context, blocked bool, name string, now time.Time) {
	e.log.Info("news block state changed",
		logger.Bool("blocked", blocked), logger.String("event", name))
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	err := e.channel.SendNewsBlock(callCtx, &models.NewsBlockMessage{
		Type:      models.MsgTypeNewsBlock,
		NewsBlock: blocked,
		TS:        now.Unix(),
	})
	e.metrics.RecordDispatch(models.MsgTypeNewsBlock, err == nil)
	if err != nil {
		e.log.Error("news block send failed", logger.Error(err))
	}
}

func (e *Engine) journalDecision(ctx context.Context, now time.Time,
	action models.Direction, verdict models.Verdict, score, mult float64,
	reason string, res Resolved, dispatched bool) {

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	err := e.journal.Record(callCtx, &models.DecisionRecord{
		TS:               now.Unix(),
		Symbol:           e.symbol,
		Action:           action,
		Verdict:          verdict,
		Score:            score,
		Multiplier:       mult,
		Reason:           reason,
		Source:           res.Source,
		DistanceATRRatio: res.Context.DistanceATRRatio,
		ATRToSpread:      res.Context.ATRToSpread,
		VolatilityRatio:  res.Context.VolatilityRatio,
		VolState:         res.Context.VolState,
		Session:          res.Context.Session,
		Dispatched:       dispatched,
	})
	if err != nil {
		e.metrics.RecordError("journal")
		e.log.Warn("decision journal write failed", logger.Error(err))
	}
}

func (e *Engine) persistDay(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	if err := e.store.SaveDay(callCtx, e.tracker.Snapshot()); err != nil {
		e.metrics.RecordError("state_store")
		e.log.Warn("day state persist failed", logger.Error(err))
	}
}

func (e *Engine) restoreDayState(ctx context.Context) {
	today := e.sessions.LocalDate(time.Now())
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	snap, err := e.store.LoadDay(callCtx, today)
	if err != nil {
		e.log.Warn("day state load failed", logger.Error(err))
		return
	}
	if snap != nil {
		e.tracker.Restore(snap, today)
		e.log.Info("day state restored",
			logger.String("date", snap.Date),
			logger.Int("entries", snap.EntryCount),
			logger.Bool("halted", snap.Halted))
	}
}
