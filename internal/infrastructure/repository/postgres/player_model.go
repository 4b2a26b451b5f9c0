package postgres

import "time"

type playerTableModel struct {
	ID                 int64     `db:"id"`
	Name               string    `db:"name"`
	Position           string    `db:"position"`
	TeamID             int64     `db:"team_id"`
	TeamName           string    `db:"team_name"`
	Price              int64     `db:"price"`
	LastMatchdayPoints int       `db:"last_matchday_points"`
	LastMatchdayNumber int       `db:"last_matchday_number"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type playerStatsTableModel struct {
	PlayerID    int64     `db:"player_id"`
	Matchday    int       `db:"matchday"`
	Season      string    `db:"season"`
	FixtureID   int64     `db:"fixture_id"`
	TeamID      int64     `db:"team_id"`
	RawStats    []byte    `db:"raw_stats"`
	TotalPoints int       `db:"total_points"`
	Breakdown   []byte    `db:"breakdown"`
	UpdatedAt   time.Time `db:"updated_at"`
}
