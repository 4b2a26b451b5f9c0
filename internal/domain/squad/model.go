package squad

import (
	"fmt"

	"github.com/marcosfdz/jornadabet/internal/domain/player"
)

// MinPlayersForPoints: a lineup below this size scores zero for the matchday
// regardless of individual player performances.
const MinPlayersForPoints = 11

type SquadPlayer struct {
	Slot     int
	PlayerID int64
	Role     player.Position
	Price    int64
}

// Squad is one member's lineup in a league. Cleared after every settlement.
type Squad struct {
	LeagueID        string
	UserID          string
	Formation       string
	CaptainPlayerID int64
	Players         []SquadPlayer
}

func (s Squad) Complete() bool {
	return len(s.Players) >= MinPlayersForPoints
}

func (s Squad) Validate() error {
	if s.LeagueID == "" {
		return fmt.Errorf("squad league id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("squad user id is required")
	}

	seen := make(map[int64]struct{}, len(s.Players))
	for _, sp := range s.Players {
		if sp.PlayerID <= 0 {
			return fmt.Errorf("squad player id must be greater than zero")
		}
		if _, dup := seen[sp.PlayerID]; dup {
			return fmt.Errorf("duplicate player in squad: %d", sp.PlayerID)
		}
		seen[sp.PlayerID] = struct{}{}
		if _, ok := player.AllPositions[sp.Role]; !ok {
			return fmt.Errorf("invalid squad player role: %s", sp.Role)
		}
	}

	return nil
}
