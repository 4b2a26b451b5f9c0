package postgres

import "time"

type leagueTableModel struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	JoinCode         string    `db:"join_code"`
	LeaderUserID     string    `db:"leader_user_id"`
	Season           string    `db:"season"`
	CompetitionRefID int64     `db:"competition_ref_id"`
	CurrentMatchday  int       `db:"current_matchday"`
	MatchdayStatus   string    `db:"matchday_status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type memberTableModel struct {
	LeagueID         string    `db:"league_id"`
	UserID           string    `db:"user_id"`
	Points           int       `db:"points"`
	Budget           int       `db:"budget"`
	InitialBudget    int       `db:"initial_budget"`
	BettingBudget    int       `db:"betting_budget"`
	PointsByMatchday []byte    `db:"points_by_matchday"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type settlementMarkTableModel struct {
	LeagueID    string    `db:"league_id"`
	Matchday    int       `db:"matchday"`
	CompletedAt time.Time `db:"completed_at"`
}
