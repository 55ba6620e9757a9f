package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	verdicts     *prometheus.CounterVec
	gateScore    prometheus.Histogram
	dispatches   *prometheus.CounterVec
	spreadMedian prometheus.Gauge
	heartbeatAge prometheus.Gauge
	cycleSeconds prometheus.Histogram
	errorsTotal  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		verdicts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lrrbrain_verdicts_total",
				Help: "Gate Keeper verdicts by outcome",
			},
			[]string{"verdict"},
		),
		gateScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lrrbrain_gate_score",
				Help:    "Gate Keeper confluence score distribution",
				Buckets: prometheus.LinearBuckets(-100, 25, 11),
			},
		),
		dispatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lrrbrain_dispatches_total",
				Help: "Outbound messages by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		spreadMedian: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lrrbrain_spread_median",
				Help: "Adaptive spread median in price units",
			},
		),
		heartbeatAge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lrrbrain_heartbeat_age_seconds",
				Help: "Age of the last counterpart heartbeat",
			},
		),
		cycleSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lrrbrain_cycle_duration_seconds",
				Help:    "Duration of one engine evaluation cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lrrbrain_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordVerdict counts one Gate Keeper verdict.
func (r *Recorder) RecordVerdict(verdict string) {
	r.verdicts.WithLabelValues(verdict).Inc()
}

// RecordGateScore observes one confluence score.
func (r *Recorder) RecordGateScore(score float64) {
	r.gateScore.Observe(score)
}

// RecordDispatch counts one outbound send attempt.
func (r *Recorder) RecordDispatch(msgType string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.dispatches.WithLabelValues(msgType, outcome).Inc()
}

// RecordSpreadMedian sets the current adaptive median.
func (r *Recorder) RecordSpreadMedian(v float64) {
	r.spreadMedian.Set(v)
}

// RecordHeartbeatAge sets the heartbeat age gauge.
func (r *Recorder) RecordHeartbeatAge(seconds float64) {
	r.heartbeatAge.Set(seconds)
}

// RecordCycle observes one cycle duration.
func (r *Recorder) RecordCycle(seconds float64) {
	r.cycleSeconds.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
