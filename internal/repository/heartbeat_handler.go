package repository

import (
	"context"
	"encoding/json"
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/internal/engine"
	applogger "LRRBrain/pkg/logger"
)

// HeartbeatHandler consumes counterpart heartbeats from Kafka and feeds the
// liveness monitor. Implements kafka.MessageHandler.
type HeartbeatHandler struct {
	topic   string
	monitor *engine.Monitor
	l       *applogger.Logger
}

// HeartbeatOption configures the handler.
type HeartbeatOption func(*HeartbeatHandler)

func WithHeartbeatTopic(topic string) HeartbeatOption {
	return func(h *HeartbeatHandler) { h.topic = topic }
}

// NewHeartbeatHandler creates a heartbeat consumer handler.
func NewHeartbeatHandler(monitor *engine.Monitor, l *applogger.Logger, opts ...HeartbeatOption) *HeartbeatHandler {
	h := &HeartbeatHandler{
		topic:   "lrr.heartbeat",
		monitor: monitor,
		l:       l,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HeartbeatHandler) Topic() string { return h.topic }

// Handle decodes one heartbeat. A malformed payload is logged and skipped;
// retrying it cannot make it parse, and the stream must keep flowing. A valid
// one always updates the monitor.
func (h *HeartbeatHandler) Handle(ctx context.Context, data []byte) error {
	var hb models.Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		h.l.Warn("malformed heartbeat skipped", applogger.Error(err))
		return nil
	}
	h.monitor.Update(hb, time.Now())
	h.l.Debug("heartbeat received",
		applogger.Float64("equity", hb.Equity),
		applogger.Int("positions", hb.Positions),
		applogger.Bool("halt", hb.Halt))
	return nil
}
