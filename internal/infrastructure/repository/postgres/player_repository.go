package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM players WHERE id = $1`, playerID); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return mapPlayer(row), true, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM players WHERE id IN (?) ORDER BY id`, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("build players in query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPlayer(row))
	}
	return out, nil
}

// UpdateLastMatchdayPoints deliberately leaves price and the curated fields
// alone.
func (r *PlayerRepository) UpdateLastMatchdayPoints(ctx context.Context, playerID int64, matchday, points int) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE players SET last_matchday_points = $1, last_matchday_number = $2, updated_at = now()
		 WHERE id = $3`,
		points, matchday, playerID,
	); err != nil {
		return fmt.Errorf("update player last matchday points: %w", err)
	}
	return nil
}

func mapPlayer(row playerTableModel) player.Player {
	return player.Player{
		ID:                 row.ID,
		Name:               row.Name,
		Position:           player.Position(row.Position),
		TeamID:             row.TeamID,
		TeamName:           row.TeamName,
		Price:              row.Price,
		LastMatchdayPoints: row.LastMatchdayPoints,
		LastMatchdayNumber: row.LastMatchdayNumber,
	}
}
