package bet

import (
	"fmt"
	"math"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Bet is a single wager on one fixture of a matchday. Label keeps the
// human-readable wire format the mobile client renders; evaluation parses it
// once into a Selection at the boundary.
type Bet struct {
	ID           string
	LeagueID     string
	UserID       string
	Matchday     int
	FixtureID    int64
	Market       string
	Label        string
	Odd          float64
	Amount       int
	PotentialWin int
	Status       Status
	// CombiID links the bet into a parlay; legs carry Amount=0 and do not
	// consume betting budget individually.
	CombiID string
}

// Combi is a parlay owning 1..N legs via Bet.CombiID. It wins only when every
// leg won.
type Combi struct {
	ID           string
	LeagueID     string
	UserID       string
	Matchday     int
	TotalOdd     float64
	Amount       int
	PotentialWin int
	Status       Status
}

// PotentialWin is the gross payout for a stake at the given odd.
func PotentialWin(amount int, odd float64) int {
	return int(math.Round(float64(amount) * odd))
}

// Profit is the net balance movement once a bet settles: winnings minus the
// stake for a won bet, the lost stake otherwise. Pending bets move nothing.
func (b Bet) Profit() int {
	switch b.Status {
	case StatusWon:
		return PotentialWin(b.Amount, b.Odd) - b.Amount
	case StatusLost:
		return -b.Amount
	default:
		return 0
	}
}

func (b Bet) Settled() bool {
	return b.Status == StatusWon || b.Status == StatusLost
}

// Profit is the parlay's net balance movement once it settles. The gross
// payout is the precomputed PotentialWin; leg odds were multiplied into
// TotalOdd at placement.
func (c Combi) Profit() int {
	switch c.Status {
	case StatusWon:
		return c.PotentialWin - c.Amount
	case StatusLost:
		return -c.Amount
	default:
		return 0
	}
}

func (c Combi) Settled() bool {
	return c.Status == StatusWon || c.Status == StatusLost
}

func (b Bet) Validate() error {
	if b.LeagueID == "" {
		return fmt.Errorf("bet league id is required")
	}
	if b.UserID == "" {
		return fmt.Errorf("bet user id is required")
	}
	if b.Matchday <= 0 {
		return fmt.Errorf("bet matchday must be greater than zero")
	}
	if b.FixtureID <= 0 {
		return fmt.Errorf("bet fixture id must be greater than zero")
	}
	if b.Odd <= 1 {
		return fmt.Errorf("bet odd must be greater than one")
	}
	if b.Amount < 0 {
		return fmt.Errorf("bet amount cannot be negative")
	}

	return nil
}
