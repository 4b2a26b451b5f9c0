package player

import (
	"fmt"
	"strings"
)

// Position represents the four canonical fantasy roles.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// NormalizePosition maps the provider's free-text position strings onto the
// canonical roles. Unrecognized values fall back to midfielder, which is the
// least damaging default for scoring.
func NormalizePosition(raw string) Position {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(value, "goal"), strings.Contains(value, "keeper"),
		value == "g", value == "gk", value == "portero":
		return PositionGoalkeeper
	case strings.Contains(value, "defen"), strings.Contains(value, "back"), strings.Contains(value, "defensa"):
		return PositionDefender
	case strings.Contains(value, "midfield"), strings.Contains(value, "centrocampista"), strings.Contains(value, "medio"):
		return PositionMidfielder
	case strings.Contains(value, "attack"), strings.Contains(value, "forward"),
		strings.Contains(value, "striker"), strings.Contains(value, "wing"),
		strings.Contains(value, "delantero"):
		return PositionForward
	default:
		return PositionMidfielder
	}
}

// Player is a selectable athlete. The ID is the football-data provider's
// player id; Price is curated by hand and must never be overwritten by sync.
type Player struct {
	ID                 int64
	Name               string
	Position           Position
	TeamID             int64
	TeamName           string
	Price              int64
	LastMatchdayPoints int
	LastMatchdayNumber int
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}

// NormalizeName lowers and strips a display name for fuzzy provider lookups.
func NormalizeName(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u",
		"ä", "a", "ë", "e", "ï", "i", "ö", "o", "ü", "u",
		"ñ", "n", "ç", "c", "-", " ", ".", "",
	)
	value = replacer.Replace(value)
	return strings.Join(strings.Fields(value), " ")
}
