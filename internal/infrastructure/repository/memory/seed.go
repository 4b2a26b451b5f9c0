package memory

import (
	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/squad"
)

const (
	LeagueIDPenya        = "penya-la-caverna-2025"
	LeagueIDOficina      = "porra-oficina-2025"
	SeedSeason           = "2025"
	SeedCompetitionRefID = 140 // LaLiga
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:               LeagueIDPenya,
			Name:             "La Caverna",
			JoinCode:         "CAVERNA",
			LeaderUserID:     "user-marcos",
			Season:           SeedSeason,
			CompetitionRefID: SeedCompetitionRefID,
			CurrentMatchday:  1,
			MatchdayStatus:   league.MatchdayOpen,
		},
		{
			ID:               LeagueIDOficina,
			Name:             "Porra de la Oficina",
			JoinCode:         "OFICINA",
			LeaderUserID:     "user-lucia",
			Season:           SeedSeason,
			CompetitionRefID: SeedCompetitionRefID,
			CurrentMatchday:  1,
			MatchdayStatus:   league.MatchdayOpen,
		},
	}
}

func SeedMembers() []league.Member {
	out := make([]league.Member, 0, 5)
	for _, userID := range []string{"user-marcos", "user-javi", "user-sergio"} {
		out = append(out, league.NewMember(LeagueIDPenya, userID, 500, 250))
	}
	for _, userID := range []string{"user-lucia", "user-marcos"} {
		out = append(out, league.NewMember(LeagueIDOficina, userID, 500, 250))
	}
	return out
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: 730, Name: "Thibaut Courtois", Position: player.PositionGoalkeeper, TeamID: 541, TeamName: "Real Madrid", Price: 95},
		{ID: 2273, Name: "Antonio Rüdiger", Position: player.PositionDefender, TeamID: 541, TeamName: "Real Madrid", Price: 88},
		{ID: 748, Name: "Dani Carvajal", Position: player.PositionDefender, TeamID: 541, TeamName: "Real Madrid", Price: 84},
		{ID: 759, Name: "Federico Valverde", Position: player.PositionMidfielder, TeamID: 541, TeamName: "Real Madrid", Price: 102},
		{ID: 1496, Name: "Vinícius Júnior", Position: player.PositionForward, TeamID: 541, TeamName: "Real Madrid", Price: 115},
		{ID: 18907, Name: "Marc-André ter Stegen", Position: player.PositionGoalkeeper, TeamID: 529, TeamName: "Barcelona", Price: 90},
		{ID: 141, Name: "Jules Koundé", Position: player.PositionDefender, TeamID: 529, TeamName: "Barcelona", Price: 89},
		{ID: 129718, Name: "Pau Cubarsí", Position: player.PositionDefender, TeamID: 529, TeamName: "Barcelona", Price: 82},
		{ID: 328, Name: "Pedri", Position: player.PositionMidfielder, TeamID: 529, TeamName: "Barcelona", Price: 104},
		{ID: 386828, Name: "Lamine Yamal", Position: player.PositionForward, TeamID: 529, TeamName: "Barcelona", Price: 118},
		{ID: 1100, Name: "Jan Oblak", Position: player.PositionGoalkeeper, TeamID: 530, TeamName: "Atlético Madrid", Price: 92},
		{ID: 443, Name: "José María Giménez", Position: player.PositionDefender, TeamID: 530, TeamName: "Atlético Madrid", Price: 85},
		{ID: 46741, Name: "Pablo Barrios", Position: player.PositionMidfielder, TeamID: 530, TeamName: "Atlético Madrid", Price: 86},
		{ID: 1117, Name: "Antoine Griezmann", Position: player.PositionForward, TeamID: 530, TeamName: "Atlético Madrid", Price: 106},
		{ID: 47431, Name: "Unai Simón", Position: player.PositionGoalkeeper, TeamID: 531, TeamName: "Athletic Club", Price: 83},
		{ID: 47522, Name: "Dani Vivian", Position: player.PositionDefender, TeamID: 531, TeamName: "Athletic Club", Price: 78},
		{ID: 47546, Name: "Oihan Sancet", Position: player.PositionMidfielder, TeamID: 531, TeamName: "Athletic Club", Price: 88},
		{ID: 47558, Name: "Nico Williams", Position: player.PositionForward, TeamID: 531, TeamName: "Athletic Club", Price: 108},
	}
}

// SeedSquads ships empty lineups; dev users fill them through the app.
func SeedSquads() []squad.Squad {
	return []squad.Squad{
		{LeagueID: LeagueIDPenya, UserID: "user-marcos", Formation: "4-3-3"},
		{LeagueID: LeagueIDPenya, UserID: "user-javi", Formation: "4-4-2"},
	}
}
