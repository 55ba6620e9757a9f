package repository

import (
	"context"
	"errors"

	"LRRBrain/internal/domain/models"
)

// ErrDataNotReady marks the expected "insufficient bars / no tick yet"
// condition. The engine skips the cycle silently; it is never a fault.
var ErrDataNotReady = errors.New("market data not ready")

// MarketData is the broker/market-data gateway.
type MarketData interface {
	Connect(ctx context.Context) error
	Bars(ctx context.Context, tf Timeframe, count int) ([]models.Bar, error)
	Tick(ctx context.Context) (models.Tick, error)
	Symbol(ctx context.Context) (models.SymbolInfo, error)
	Account(ctx context.Context) (models.Account, error)
	Positions(ctx context.Context) ([]models.Position, error)
	Close() error
}

// SignalChannel is the one-way push channel to the execution counterpart.
// Sends are best-effort with bounded timeouts; a failed send is dropped.
type SignalChannel interface {
	SendOrder(ctx context.Context, m *models.OrderMessage) error
	SendHold(ctx context.Context, m *models.HoldMessage) error
	SendNewsBlock(ctx context.Context, m *models.NewsBlockMessage) error
	Close() error
}

// StateStore persists the daily risk state across restarts.
type StateStore interface {
	LoadDay(ctx context.Context, date string) (*models.DaySnapshot, error)
	SaveDay(ctx context.Context, snap *models.DaySnapshot) error
	Close() error
}

// DecisionJournal appends evaluated decisions for offline audit.
type DecisionJournal interface {
	Record(ctx context.Context, rec *models.DecisionRecord) error
	Close() error
}

// Metrics abstracts the operational metrics recorder.
type Metrics interface {
	RecordVerdict(verdict string)
	RecordGateScore(score float64)
	RecordDispatch(msgType string, ok bool)
	RecordSpreadMedian(v float64)
	RecordHeartbeatAge(seconds float64)
	RecordCycle(seconds float64)
	RecordError(kind string)
}
