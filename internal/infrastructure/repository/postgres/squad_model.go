package postgres

import "time"

type squadTableModel struct {
	LeagueID        string    `db:"league_id"`
	UserID          string    `db:"user_id"`
	Formation       string    `db:"formation"`
	CaptainPlayerID int64     `db:"captain_player_id"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type squadPlayerTableModel struct {
	LeagueID string `db:"league_id"`
	UserID   string `db:"user_id"`
	Slot     int    `db:"slot"`
	PlayerID int64  `db:"player_id"`
	Role     string `db:"role"`
	Price    int64  `db:"price"`
}
