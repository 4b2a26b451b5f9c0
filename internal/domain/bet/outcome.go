package bet

import (
	"strings"

	"github.com/marcosfdz/jornadabet/internal/domain/fixture"
)

// Outcome is the verdict of evaluating one bet against a fixture. When the
// fixture has not finished, Resolved is false and the caller must not settle.
// NeedsReview marks label/market combinations the parser could not map; those
// conservatively resolve to lost rather than crashing the batch.
type Outcome struct {
	Resolved    bool
	Won         bool
	NeedsReview bool
}

// Evaluate parses the bet's wire label and scores it against the fixture
// result and statistics. It never panics regardless of label contents.
func Evaluate(b Bet, result fixture.Result, stats fixture.Stats) Outcome {
	if !result.Finished() {
		return Outcome{Resolved: false}
	}

	sel, err := ParseSelection(b.Market, b.Label)
	if err != nil {
		return Outcome{Resolved: true, Won: false, NeedsReview: true}
	}

	return EvaluateSelection(sel, result, stats)
}

// EvaluateSelection scores an already-parsed selection. The fixture must be
// finished; callers go through Evaluate unless they checked themselves.
func EvaluateSelection(sel Selection, result fixture.Result, stats fixture.Stats) Outcome {
	switch sel.Kind {
	case KindWinner:
		return Outcome{Resolved: true, Won: winnerHit(sel, result)}
	case KindOverUnder:
		value, ok := statValue(sel.Stat, result, stats)
		if !ok {
			return Outcome{Resolved: true, Won: false, NeedsReview: true}
		}
		if sel.Direction == DirectionOver {
			return Outcome{Resolved: true, Won: float64(value) > sel.Threshold}
		}
		return Outcome{Resolved: true, Won: float64(value) < sel.Threshold}
	case KindExactCount:
		value, ok := statValue(sel.Stat, result, stats)
		if !ok {
			return Outcome{Resolved: true, Won: false, NeedsReview: true}
		}
		return Outcome{Resolved: true, Won: value == sel.Count}
	case KindParity:
		even := result.TotalGoals()%2 == 0
		return Outcome{Resolved: true, Won: even == sel.EvenGoal}
	case KindBothScore:
		both := result.HomeGoals > 0 && result.AwayGoals > 0
		return Outcome{Resolved: true, Won: both == sel.BothYes}
	default:
		return Outcome{Resolved: true, Won: false, NeedsReview: true}
	}
}

func winnerHit(sel Selection, result fixture.Result) bool {
	if sel.Draw {
		return result.HomeGoals == result.AwayGoals
	}

	team := normalizeText(sel.Team)
	home := normalizeText(result.HomeTeamName)
	away := normalizeText(result.AwayTeamName)

	switch {
	case teamMatches(team, home):
		return result.HomeGoals > result.AwayGoals
	case teamMatches(team, away):
		return result.AwayGoals > result.HomeGoals
	default:
		return false
	}
}

func teamMatches(candidate, official string) bool {
	if candidate == "" || official == "" {
		return false
	}
	return strings.Contains(official, candidate) || strings.Contains(candidate, official)
}

func statValue(stat StatKind, result fixture.Result, stats fixture.Stats) (int, bool) {
	switch stat {
	case StatGoals:
		return result.TotalGoals(), true
	case StatCorners:
		return stats.TotalCorners(), true
	case StatCards:
		return stats.TotalCards(), true
	default:
		return 0, false
	}
}
