package league

import "fmt"

// MatchdayStatus says whether members may currently place bets and edit
// squads. The old backend called the locked state "open" (as in "the jornada
// is underway"); states here are named by what they permit instead.
type MatchdayStatus string

const (
	// MatchdayOpen: betting and squad edits are permitted.
	MatchdayOpen MatchdayStatus = "open"
	// MatchdayLocked: the round is underway or being settled; no bet or squad
	// mutation is allowed.
	MatchdayLocked MatchdayStatus = "locked"
)

const TotalMatchdays = 38

// League is a private competition a group of users bets in, pinned to one
// real football competition and season.
type League struct {
	ID               string
	Name             string
	JoinCode         string
	LeaderUserID     string
	Season           string
	CompetitionRefID int64
	CurrentMatchday  int
	MatchdayStatus   MatchdayStatus
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CurrentMatchday < 1 || l.CurrentMatchday > TotalMatchdays {
		return fmt.Errorf("league current matchday out of range: %d", l.CurrentMatchday)
	}
	switch l.MatchdayStatus {
	case MatchdayOpen, MatchdayLocked:
	default:
		return fmt.Errorf("invalid matchday status: %s", l.MatchdayStatus)
	}

	return nil
}

// Member is one user's standing inside a league. Budget is the persistent
// squad-market currency; BettingBudget is the per-matchday wager allowance
// reset to a fixed constant on every settlement.
type Member struct {
	LeagueID         string
	UserID           string
	Points           int
	Budget           int
	InitialBudget    int
	BettingBudget    int
	PointsByMatchday map[int]int
}

// NewMember builds a member with the per-matchday points map preinitialized
// for the whole season.
func NewMember(leagueID, userID string, budget, bettingBudget int) Member {
	points := make(map[int]int, TotalMatchdays)
	for matchday := 1; matchday <= TotalMatchdays; matchday++ {
		points[matchday] = 0
	}

	return Member{
		LeagueID:         leagueID,
		UserID:           userID,
		Budget:           budget,
		InitialBudget:    budget,
		BettingBudget:    bettingBudget,
		PointsByMatchday: points,
	}
}
