package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"LRRBrain/internal/domain/models"
	domrepo "LRRBrain/internal/domain/repository"
	pkgch "LRRBrain/pkg/clickhouse"
	applogger "LRRBrain/pkg/logger"
)

// CHDecisionJournal appends Gate Keeper evaluations to ClickHouse for
// offline audit. Write failures are surfaced but never block the engine.
type CHDecisionJournal struct {
	db *sql.DB
	l  *applogger.Logger
}

// NewCHDecisionJournal creates the journal over an established client.
func NewCHDecisionJournal(ch *pkgch.Client, l *applogger.Logger) domrepo.DecisionJournal {
	return &CHDecisionJournal{db: ch.DB(), l: l}
}

// JournalSchema returns the DDL for the decisions table, applied at startup
// through the client's InitSchema.
func JournalSchema() []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS lrrbrain",
		`
        CREATE TABLE IF NOT EXISTS lrrbrain.decisions (
            ts               DateTime,
            symbol           LowCardinality(String),
            action           LowCardinality(String),
            verdict          LowCardinality(String),
            score            Float64,
            multiplier       Float64,
            reason           String,
            source           LowCardinality(String),
            distance_atr     Float64,
            atr_to_spread    Float64,
            volatility_ratio Float64,
            vol_state        LowCardinality(String),
            session          LowCardinality(String),
            dispatched       UInt8
        ) ENGINE = MergeTree()
        PARTITION BY toYYYYMM(ts)
        ORDER BY (symbol, ts)
        TTL ts + INTERVAL 180 DAY
    `}
}

func (j *CHDecisionJournal) Record(ctx context.Context, rec *models.DecisionRecord) error {
	start := time.Now()
	const q = `
        INSERT INTO lrrbrain.decisions
            (ts, symbol, action, verdict, score, multiplier, reason, source,
             distance_atr, atr_to_spread, volatility_ratio, vol_state, session, dispatched)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	dispatched := uint8(0)
	if rec.Dispatched {
		dispatched = 1
	}
	_, err := j.db.ExecContext(ctx, q,
		time.Unix(rec.TS, 0).UTC(),
		rec.Symbol,
		string(rec.Action),
		string(rec.Verdict),
		rec.Score,
		rec.Multiplier,
		rec.Reason,
		rec.Source,
		rec.DistanceATRRatio,
		rec.ATRToSpread,
		rec.VolatilityRatio,
		string(rec.VolState),
		string(rec.Session),
		dispatched,
	)
	if err != nil {
		j.l.Error("clickhouse decision insert error",
			applogger.String("verdict", string(rec.Verdict)),
			applogger.Error(err))
		return fmt.Errorf("record decision: %w", err)
	}
	j.l.Debug("decision journaled",
		applogger.String("verdict", string(rec.Verdict)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

func (j *CHDecisionJournal) Close() error { return nil }
