package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "NS"
	StatusFullTime  = "FT"
	StatusExtraTime = "AET"
	StatusPenalties = "PEN"
	StatusPostponed = "PST"
	StatusCancelled = "CANC"
)

// Result is one match as reported by the football-data provider.
type Result struct {
	FixtureID    int64
	Matchday     int
	Season       string
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	HomeGoals    int
	AwayGoals    int
	Status       string
	KickoffAt    time.Time
}

func (r Result) TotalGoals() int {
	return r.HomeGoals + r.AwayGoals
}

// Finished reports whether the match reached a settleable terminal state.
func (r Result) Finished() bool {
	return IsFinishedStatus(r.Status)
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFullTime, StatusExtraTime, StatusPenalties, "FINISHED":
		return true
	default:
		return false
	}
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "1H", "2H", "HT", "ET", "LIVE", "IN_PLAY":
		return true
	default:
		return false
	}
}

// TeamStats holds the per-team aggregates used by corner/card markets.
type TeamStats struct {
	TeamID      int64
	Corners     int
	YellowCards int
	RedCards    int
}

// Stats is the statistics payload of one fixture.
type Stats struct {
	FixtureID int64
	Home      TeamStats
	Away      TeamStats
}

func (s Stats) TotalCorners() int {
	return s.Home.Corners + s.Away.Corners
}

func (s Stats) TotalCards() int {
	return s.Home.YellowCards + s.Home.RedCards + s.Away.YellowCards + s.Away.RedCards
}

const (
	EventTypeGoal         = "Goal"
	EventTypeCard         = "Card"
	EventTypeSubstitution = "subst"
)

// Event is a timeline entry; substitutions drive minute normalization.
type Event struct {
	FixtureID   int64
	TeamID      int64
	PlayerID    int64
	AssistID    int64
	Type        string
	Detail      string
	Minute      int
	ExtraMinute int
}

func (e Event) IsSubstitution() bool {
	return strings.EqualFold(strings.TrimSpace(e.Type), EventTypeSubstitution)
}
