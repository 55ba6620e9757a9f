package api

import (
	"net/http"
	"time"

	"LRRBrain/internal/domain/models"
	"LRRBrain/internal/engine"
	"LRRBrain/internal/service/ratelimit"
	xhttp "LRRBrain/pkg/http"
	xlogger "LRRBrain/pkg/logger"
	"LRRBrain/pkg/util"

	"github.com/labstack/echo/v4"
)

// AlertsHandler accepts external detector alerts and exposes liveness.
type AlertsHandler struct {
	logger  *xlogger.Logger
	cache   *engine.SnapshotCache
	monitor *engine.Monitor
	limiter *ratelimit.Limiter
}

func NewAlertsHandler(logger *xlogger.Logger, cache *engine.SnapshotCache, monitor *engine.Monitor) *AlertsHandler {
	return &AlertsHandler{logger: logger, cache: cache, monitor: monitor, limiter: ratelimit.New()}
}

func (h *AlertsHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhook", h.Webhook)
	e.GET("/healthz", h.Healthz)
}

// Webhook ingests one detector alert. A malformed alert is rejected as a
// whole; the cached snapshot is only ever replaced by a fully valid bundle.
func (h *AlertsHandler) Webhook(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), 20, 10) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.AlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.logger.Warn("alert rejected", xlogger.Any("errors", verr))
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	snap := req.Snapshot(now)
	h.cache.Put(snap)

	// Freshness is judged from receipt; the sender's stamp only tells us how
	// late the alert arrived.
	lag := time.Duration(0)
	if sent, ok := util.ParseTime(req.Time); ok {
		lag = now.Sub(sent)
	}
	h.logger.Info("alert snapshot cached",
		xlogger.String("symbol", snap.Symbol),
		xlogger.String("lc_direction", string(snap.Classifier.Direction)),
		xlogger.String("vol_state", string(snap.VolState)),
		xlogger.Duration("lag", lag))

	return xhttp.SuccessResponse(c, map[string]string{"result": "cached"})
}

// HealthStatus is the liveness read-out.
type HealthStatus struct {
	Status              string   `json:"status"`
	SnapshotAgeSeconds  *float64 `json:"snapshot_age_seconds"`
	HeartbeatAgeSeconds *float64 `json:"heartbeat_age_seconds"`
}

// Healthz reports process liveness with the age of the latest alert snapshot
// and counterpart heartbeat. Both ages are null until first contact.
func (h *AlertsHandler) Healthz(c echo.Context) error {
	now := time.Now()
	st := HealthStatus{Status: "ok"}

	if age, ok := h.cache.Age(now); ok {
		s := age.Seconds()
		st.SnapshotAgeSeconds = &s
	}
	if _, at, ok := h.monitor.Snapshot(); ok {
		s := now.Sub(at).Seconds()
		st.HeartbeatAgeSeconds = &s
	}

	return xhttp.SuccessResponse(c, st)
}
