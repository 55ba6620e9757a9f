package gate

import (
	"time"

	"LRRBrain/internal/domain/models"
)

// SessionBand maps a minute-of-day range (inclusive) to a liquidity rank and
// risk multiplier. Bands are checked in order; the first match wins.
type SessionBand struct {
	FromMin int
	ToMin   int
	Rank    models.SessionRank
	Mult    float64
}

// SessionTable resolves the time-of-day liquidity tier in a fixed location.
type SessionTable struct {
	loc    *time.Location
	bands  []SessionBand
	defAlt SessionBand
}

// SessionOption configures a SessionTable.
type SessionOption func(*SessionTable)

func WithLocation(loc *time.Location) SessionOption {
	return func(s *SessionTable) { s.loc = loc }
}

func WithBands(bands []SessionBand) SessionOption {
	return func(s *SessionTable) { s.bands = bands }
}

// NewSessionTable builds the production session map. Minutes are local to
// the table's location, Tokyo time by default: the dead midday block, the
// London/NY overlap prime window, the open windows, and the thin Asian
// early-morning tier.
func NewSessionTable(opts ...SessionOption) *SessionTable {
	s := &SessionTable{
		loc: time.FixedZone("JST", 9*60*60),
		bands: []SessionBand{
			{FromMin: 720, ToMin: 1019, Rank: models.SessionInvalid, Mult: 0.0},
			{FromMin: 1340, ToMin: 1380, Rank: models.SessionS, Mult: 1.5},
			{FromMin: 1020, ToMin: 1110, Rank: models.SessionA, Mult: 1.0},
			{FromMin: 1320, ToMin: 1339, Rank: models.SessionA, Mult: 1.0},
			{FromMin: 180, ToMin: 239, Rank: models.SessionB, Mult: 0.7},
		},
		defAlt: SessionBand{Rank: models.SessionA, Mult: 1.0},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rank returns the session tier and risk multiplier at the given instant.
func (s *SessionTable) Rank(at time.Time) (models.SessionRank, float64) {
	local := at.In(s.loc)
	minute := local.Hour()*60 + local.Minute()
	for _, b := range s.bands {
		if minute >= b.FromMin && minute <= b.ToMin {
			return b.Rank, b.Mult
		}
	}
	return s.defAlt.Rank, s.defAlt.Mult
}

// LocalDate returns the trading-day key (YYYY-MM-DD) in the table's
// location, used for daily-state rollover.
func (s *SessionTable) LocalDate(at time.Time) string {
	return at.In(s.loc).Format("2006-01-02")
}

// Location exposes the table's timezone.
func (s *SessionTable) Location() *time.Location { return s.loc }
