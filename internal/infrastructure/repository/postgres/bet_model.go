package postgres

import (
	"database/sql"
	"time"
)

type betTableModel struct {
	ID           string         `db:"id"`
	LeagueID     string         `db:"league_id"`
	UserID       string         `db:"user_id"`
	Matchday     int            `db:"matchday"`
	FixtureID    int64          `db:"fixture_id"`
	Market       string         `db:"market"`
	Label        string         `db:"label"`
	Odd          float64        `db:"odd"`
	Amount       int            `db:"amount"`
	PotentialWin int            `db:"potential_win"`
	Status       string         `db:"status"`
	CombiID      sql.NullString `db:"combi_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type combiTableModel struct {
	ID           string    `db:"id"`
	LeagueID     string    `db:"league_id"`
	UserID       string    `db:"user_id"`
	Matchday     int       `db:"matchday"`
	TotalOdd     float64   `db:"total_odd"`
	Amount       int       `db:"amount"`
	PotentialWin int       `db:"potential_win"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
