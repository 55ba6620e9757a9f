package models

// Outbound message type tags.
const (
	MsgTypeOrder     = "ORDER"
	MsgTypeHold      = "HOLD"
	MsgTypeNewsBlock = "NEWS_BLOCK"
)

// OrderMessage is a directional trade command pushed to the execution
// counterpart.
type OrderMessage struct {
	Type         string    `json:"type"`
	Symbol       string    `json:"symbol"`
	Action       Direction `json:"action"`
	SweepExtreme float64   `json:"sweep_extreme"`
	ATR          float64   `json:"atr"`
	Confidence   float64   `json:"confidence"`
	Reason       string    `json:"reason"`
	SessionRank  string    `json:"session_rank"`
	VolRegime    string    `json:"vol_regime"`
	Multiplier   float64   `json:"multiplier"`
	TS           int64     `json:"ts"`
	NewsBlock    bool      `json:"news_block"`
}

// HoldMessage tells the counterpart no entry is allowed right now.
type HoldMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	TS     int64  `json:"ts"`
}

// NewsBlockMessage notifies the counterpart of a news-window state change.
type NewsBlockMessage struct {
	Type      string `json:"type"`
	NewsBlock bool   `json:"news_block"`
	TS        int64  `json:"ts"`
}

// Heartbeat is the liveness message pulled from the counterpart.
type Heartbeat struct {
	TS              int64   `json:"ts"`
	Equity          float64 `json:"equity"`
	Positions       int     `json:"positions"`
	Halt            bool    `json:"halt"`
	EmergencySystem string  `json:"emergency_system"`
	DailyEntries    int     `json:"daily_entries"`
}

// DaySnapshot is the persisted daily risk state. Halted is monotonic within
// one trading day.
type DaySnapshot struct {
	Date           string  `json:"date"`
	EntryCount     int     `json:"entry_count"`
	ConsecLosses   int     `json:"consec_losses"`
	RiskUsed       float64 `json:"risk_used"`
	DayStartEquity float64 `json:"day_start_equity"`
	Halted         bool    `json:"halted"`
	HaltReason     string  `json:"halt_reason"`
}

// DecisionRecord is one journaled Gate Keeper evaluation.
type DecisionRecord struct {
	TS               int64
	Symbol           string
	Action           Direction
	Verdict          Verdict
	Score            float64
	Multiplier       float64
	Reason           string
	Source           string // "snapshot" | "local"
	DistanceATRRatio float64
	ATRToSpread      float64
	VolatilityRatio  float64
	VolState         VolState
	Session          SessionRank
	Dispatched       bool
}
