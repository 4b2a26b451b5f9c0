package scoring

import (
	"github.com/marcosfdz/jornadabet/internal/domain/player"
)

const cleanSheetMinMinutes = 60

// Config tunes the scoring variants that differed between historical
// implementations. The goalkeeper clean-sheet bonus is canonically 5; the
// rating bonus is off unless explicitly enabled.
type Config struct {
	GoalkeeperCleanSheetBonus int
	RatingBonusEnabled        bool
}

func DefaultConfig() Config {
	return Config{
		GoalkeeperCleanSheetBonus: 5,
		RatingBonusEnabled:        false,
	}
}

// Calculator maps raw match statistics and a role to a fantasy point total
// with an itemized breakdown. Pure and deterministic; no I/O.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	if cfg.GoalkeeperCleanSheetBonus <= 0 {
		cfg.GoalkeeperCleanSheetBonus = DefaultConfig().GoalkeeperCleanSheetBonus
	}
	return Calculator{cfg: cfg}
}

func (c Calculator) Calculate(stats RawStats, role player.Position) Score {
	var out Score

	out.add("Minutos jugados", stats.MinutesPlayed, minutesPoints(stats.MinutesPlayed))

	out.add("Asistencias", stats.Assists, stats.Assists*3)
	out.add("Tarjetas amarillas", stats.YellowCards, stats.YellowCards*-1)
	out.add("Tarjetas rojas", stats.RedCards, stats.RedCards*-3)
	out.add("Penaltis provocados", stats.PenaltiesWon, stats.PenaltiesWon*2)
	out.add("Penaltis cometidos", stats.PenaltiesCommitted, stats.PenaltiesCommitted*-2)
	out.add("Penaltis marcados", stats.PenaltiesScored, stats.PenaltiesScored*3)
	out.add("Penaltis fallados", stats.PenaltiesMissed, stats.PenaltiesMissed*-2)

	switch role {
	case player.PositionGoalkeeper:
		out.add("Goles", stats.Goals, stats.Goals*10)
		out.add("Paradas", stats.Saves, stats.Saves)
		out.add("Penaltis parados", stats.PenaltiesSaved, stats.PenaltiesSaved*5)
		out.add("Goles encajados", stats.GoalsConceded, stats.GoalsConceded*-2)
		if cleanSheet(stats) {
			out.add("Portería a cero", 1, c.cfg.GoalkeeperCleanSheetBonus)
		}
	case player.PositionDefender:
		out.add("Goles", stats.Goals, stats.Goals*6)
		if cleanSheet(stats) {
			out.add("Portería a cero", 1, 4)
		}
		out.add("Duelos ganados", stats.DuelsWon, stats.DuelsWon/2)
		out.add("Intercepciones", stats.Interceptions, stats.Interceptions/5)
		out.add("Tiros a puerta", stats.ShotsOnTarget, stats.ShotsOnTarget)
		out.add("Goles encajados", stats.GoalsConceded, stats.GoalsConceded*-1)
	case player.PositionMidfielder:
		out.add("Goles", stats.Goals, stats.Goals*5)
		if cleanSheet(stats) {
			out.add("Portería a cero", 1, 1)
		}
		out.add("Pases clave", stats.KeyPasses, stats.KeyPasses)
		out.add("Regates", stats.DribblesSucceeded, stats.DribblesSucceeded/2)
		out.add("Faltas recibidas", stats.FoulsDrawn, stats.FoulsDrawn/3)
		out.add("Intercepciones", stats.Interceptions, stats.Interceptions/3)
		out.add("Tiros a puerta", stats.ShotsOnTarget, stats.ShotsOnTarget)
		out.add("Goles encajados", stats.GoalsConceded, -(stats.GoalsConceded / 2))
	case player.PositionForward:
		out.add("Goles", stats.Goals, stats.Goals*4)
		out.add("Pases clave", stats.KeyPasses, stats.KeyPasses)
		out.add("Faltas recibidas", stats.FoulsDrawn, stats.FoulsDrawn/3)
		out.add("Regates", stats.DribblesSucceeded, stats.DribblesSucceeded/2)
		out.add("Tiros a puerta", stats.ShotsOnTarget, stats.ShotsOnTarget)
	}

	if c.cfg.RatingBonusEnabled {
		out.add("Valoración", int(stats.Rating), ratingBonus(stats.Rating))
	}

	return out
}

func minutesPoints(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 45:
		return 1
	default:
		return 2
	}
}

func cleanSheet(stats RawStats) bool {
	return stats.MinutesPlayed >= cleanSheetMinMinutes && stats.GoalsConceded == 0
}

func ratingBonus(rating float64) int {
	switch {
	case rating >= 9:
		return 3
	case rating >= 8:
		return 2
	case rating >= 7:
		return 1
	default:
		return 0
	}
}

// add appends a breakdown entry when the rule produced points or the amount
// itself is informative (minutes are always listed when the player appeared).
func (s *Score) add(label string, amount, points int) {
	if points == 0 && !(label == "Minutos jugados" && amount > 0) {
		return
	}
	s.Breakdown = append(s.Breakdown, BreakdownEntry{Label: label, Amount: amount, Points: points})
	s.Total += points
}
