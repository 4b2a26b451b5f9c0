package scoring

// RawStats are the per-match statistics a points calculation is fed with.
// GoalsConceded is the player's own figure for goalkeepers; for defenders the
// caller substitutes the team's conceded count before calling Calculate (the
// clean-sheet rule is a team property for outfield players).
type RawStats struct {
	MinutesPlayed      int
	Goals              int
	Assists            int
	GoalsConceded      int
	Saves              int
	PenaltiesSaved     int
	PenaltiesWon       int
	PenaltiesCommitted int
	PenaltiesScored    int
	PenaltiesMissed    int
	YellowCards        int
	RedCards           int
	ShotsOnTarget      int
	KeyPasses          int
	DuelsWon           int
	Interceptions      int
	DribblesSucceeded  int
	FoulsDrawn         int
	Rating             float64
}

// BreakdownEntry itemizes one rule's contribution for UI transparency.
type BreakdownEntry struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
	Points int    `json:"points"`
}

// Score is the result of one calculation.
type Score struct {
	Total     int
	Breakdown []BreakdownEntry
}
