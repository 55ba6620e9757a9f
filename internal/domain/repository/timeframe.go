package repository

import "time"

// Timeframe identifies a bar series granularity.
type Timeframe string

const (
	TFM5  Timeframe = "M5"
	TFM15 Timeframe = "M15"
	TFH1  Timeframe = "H1"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFM5, TFM15, TFH1:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the engine's working timeframe.
func DefaultTimeframe() Timeframe { return TFM5 }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Duration returns the bar duration for the timeframe.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TFM5:
		return 5 * time.Minute
	case TFM15:
		return 15 * time.Minute
	case TFH1:
		return time.Hour
	default:
		return 5 * time.Minute
	}
}
