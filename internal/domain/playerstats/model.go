package playerstats

import (
	"time"

	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
)

// PlayerStats is the durable per-(player, matchday, season) record of raw
// match statistics and the computed fantasy score. It doubles as a
// read-through cache over the football-data provider: once written it is
// served as-is unless a refresh is forced.
type PlayerStats struct {
	PlayerID    int64
	Matchday    int
	Season      string
	FixtureID   int64
	TeamID      int64
	Raw         scoring.RawStats
	TotalPoints int
	Breakdown   []scoring.BreakdownEntry
	UpdatedAt   time.Time
}

func (s PlayerStats) Key() Key {
	return Key{PlayerID: s.PlayerID, Matchday: s.Matchday, Season: s.Season}
}

type Key struct {
	PlayerID int64
	Matchday int
	Season   string
}
