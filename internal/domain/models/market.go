package models

import "time"

// Bar is one OHLCV candle. Immutable once the bar has closed.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Body returns the absolute open-close distance.
func (b Bar) Body() float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}

// UpperWick returns the distance from the bar high to the body top.
func (b Bar) UpperWick() float64 {
	top := b.Open
	if b.Close > top {
		top = b.Close
	}
	return b.High - top
}

// LowerWick returns the distance from the body bottom to the bar low.
func (b Bar) LowerWick() float64 {
	bottom := b.Open
	if b.Close < bottom {
		bottom = b.Close
	}
	return bottom - b.Low
}

// Tick is the current top-of-book quote.
type Tick struct {
	Bid  float64
	Ask  float64
	Time time.Time
}

// Spread returns the non-negative bid/ask spread.
func (t Tick) Spread() float64 {
	if t.Ask <= t.Bid {
		return 0
	}
	return t.Ask - t.Bid
}

// SymbolInfo carries instrument metadata.
type SymbolInfo struct {
	Name  string
	Point float64
}

// Account is the counterpart account snapshot.
type Account struct {
	Equity float64
}

// Position is an open position reported by the gateway.
type Position struct {
	Side      Direction
	Volume    float64
	OpenPrice float64
	OpenTime  time.Time
	Profit    float64
	// StopDistance is the initial stop distance in price units; used as the
	// risk unit (1R) for phase classification. Zero when unknown.
	StopDistance float64
}
