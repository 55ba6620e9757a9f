package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/internal/domain/repository"
	"LRRBrain/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements the MarketData gateway over a request/response WebSocket
// RPC. One request is in flight at a time; the mutex serializes callers so a
// reply is always matched to its request.
type Client struct {
	url            string
	symbol         string
	callTimeout    time.Duration
	reconnectDelay time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64

	log *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithCallTimeout(d time.Duration) Option {
	return func(c *Client) { c.callTimeout = d }
}

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) { c.reconnectDelay = d }
}

// New creates a market-data gateway client.
func New(url, symbol string, log *logger.Logger, opts ...Option) repository.MarketData {
	c := &Client{
		url:            url,
		symbol:         symbol,
		callTimeout:    2 * time.Second,
		reconnectDelay: time.Second,
		log:            log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wsRequest struct {
	ID     int64  `json:"id"`
	Op     string `json:"op"`
	Symbol string `json:"symbol"`
	TF     string `json:"tf,omitempty"`
	Count  int    `json:"count,omitempty"`
}

type wsBar struct {
	TS int64   `json:"ts"`
	O  float64 `json:"o"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	C  float64 `json:"c"`
	V  float64 `json:"v"`
}

type wsTick struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
	TS  int64   `json:"ts"`
}

type wsSymbol struct {
	Name  string  `json:"name"`
	Point float64 `json:"point"`
}

type wsAccount struct {
	Equity float64 `json:"equity"`
}

type wsPosition struct {
	Side         string  `json:"side"`
	Volume       float64 `json:"volume"`
	OpenPrice    float64 `json:"open_price"`
	OpenTS       int64   `json:"open_ts"`
	Profit       float64 `json:"profit"`
	StopDistance float64 `json:"stop_distance"`
}

type wsResponse struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	Bars      []wsBar      `json:"bars,omitempty"`
	Tick      *wsTick      `json:"tick,omitempty"`
	Symbol    *wsSymbol    `json:"symbol,omitempty"`
	Account   *wsAccount   `json:"account,omitempty"`
	Positions []wsPosition `json:"positions,omitempty"`
}

// errNotReady is the gateway's wire code for "insufficient history / no tick".
const errNotReady = "not_ready"

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked(ctx)
}

func (c *Client) dialLocked(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("gateway connect: %w", err)
	}
	c.conn = conn
	c.log.Info("gateway connected", logger.String("url", c.url))
	return nil
}

func (c *Client) dropLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// call performs one request/response exchange. A transport error drops the
// connection; the next call redials after the reconnect delay.
func (c *Client) call(ctx context.Context, req wsRequest, out *wsResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		time.Sleep(c.reconnectDelay)
		if err := c.dialLocked(ctx); err != nil {
			return err
		}
	}

	c.nextID++
	req.ID = c.nextID
	req.Symbol = c.symbol

	deadline := time.Now().Add(c.callTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		c.dropLocked()
		return fmt.Errorf("gateway write %s: %w", req.Op, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		var resp wsResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.dropLocked()
			return fmt.Errorf("gateway read %s: %w", req.Op, err)
		}
		if resp.ID != req.ID {
			// reply to an earlier timed-out request
			continue
		}
		if !resp.OK {
			if resp.Error == errNotReady {
				return repository.ErrDataNotReady
			}
			return fmt.Errorf("gateway %s: %s", req.Op, resp.Error)
		}
		*out = resp
		return nil
	}
}

// Bars fetches the most recent closed candles, oldest first.
func (c *Client) Bars(ctx context.Context, tf repository.Timeframe, count int) ([]models.Bar, error) {
	var resp wsResponse
	if err := c.call(ctx, wsRequest{Op: "bars", TF: string(tf), Count: count}, &resp); err != nil {
		return nil, err
	}
	bars := make([]models.Bar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		bars = append(bars, models.Bar{
			Time:   time.Unix(b.TS, 0).UTC(),
			Open:   b.O,
			High:   b.H,
			Low:    b.L,
			Close:  b.C,
			Volume: b.V,
		})
	}
	return bars, nil
}

// Tick fetches the current top-of-book quote.
func (c *Client) Tick(ctx context.Context) (models.Tick, error) {
	var resp wsResponse
	if err := c.call(ctx, wsRequest{Op: "tick"}, &resp); err != nil {
		return models.Tick{}, err
	}
	if resp.Tick == nil {
		return models.Tick{}, repository.ErrDataNotReady
	}
	return models.Tick{
		Bid:  resp.Tick.Bid,
		Ask:  resp.Tick.Ask,
		Time: time.Unix(resp.Tick.TS, 0).UTC(),
	}, nil
}

// Symbol fetches instrument metadata.
func (c *Client) Symbol(ctx context.Context) (models.SymbolInfo, error) {
	var resp wsResponse
	if err := c.call(ctx, wsRequest{Op: "symbol"}, &resp); err != nil {
		return models.SymbolInfo{}, err
	}
	if resp.Symbol == nil {
		return models.SymbolInfo{}, repository.ErrDataNotReady
	}
	return models.SymbolInfo{Name: resp.Symbol.Name, Point: resp.Symbol.Point}, nil
}

// Account fetches the counterpart account snapshot.
func (c *Client) Account(ctx context.Context) (models.Account, error) {
	var resp wsResponse
	if err := c.call(ctx, wsRequest{Op: "account"}, &resp); err != nil {
		return models.Account{}, err
	}
	if resp.Account == nil {
		return models.Account{}, repository.ErrDataNotReady
	}
	return models.Account{Equity: resp.Account.Equity}, nil
}

// Positions fetches open positions for the configured symbol.
func (c *Client) Positions(ctx context.Context) ([]models.Position, error) {
	var resp wsResponse
	if err := c.call(ctx, wsRequest{Op: "positions"}, &resp); err != nil {
		return nil, err
	}
	positions := make([]models.Position, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		positions = append(positions, models.Position{
			Side:         models.Direction(p.Side),
			Volume:       p.Volume,
			OpenPrice:    p.OpenPrice,
			OpenTime:     time.Unix(p.OpenTS, 0).UTC(),
			Profit:       p.Profit,
			StopDistance: p.StopDistance,
		})
	}
	return positions, nil
}

// Close closes the WebSocket connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
