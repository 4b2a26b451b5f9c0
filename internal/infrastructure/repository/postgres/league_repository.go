package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM leagues ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeague(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM leagues WHERE id = $1`, leagueID); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return mapLeague(row), true, nil
}

func (r *LeagueRepository) UpdateMatchdayStatus(ctx context.Context, leagueID string, status league.MatchdayStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE leagues SET matchday_status = $1, updated_at = now() WHERE id = $2`,
		string(status), leagueID,
	); err != nil {
		return fmt.Errorf("update matchday status: %w", err)
	}
	return nil
}

func (r *LeagueRepository) UpdateCurrentMatchday(ctx context.Context, leagueID string, matchday int) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE leagues SET current_matchday = $1, updated_at = now() WHERE id = $2`,
		matchday, leagueID,
	); err != nil {
		return fmt.Errorf("update current matchday: %w", err)
	}
	return nil
}

func mapLeague(row leagueTableModel) league.League {
	return league.League{
		ID:               row.ID,
		Name:             row.Name,
		JoinCode:         row.JoinCode,
		LeaderUserID:     row.LeaderUserID,
		Season:           row.Season,
		CompetitionRefID: row.CompetitionRefID,
		CurrentMatchday:  row.CurrentMatchday,
		MatchdayStatus:   league.MatchdayStatus(row.MatchdayStatus),
	}
}
