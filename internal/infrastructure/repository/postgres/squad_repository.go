package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/squad"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByUserAndLeague(ctx context.Context, leagueID, userID string) (squad.Squad, bool, error) {
	var row squadTableModel
	if err := r.db.GetContext(ctx, &row,
		`SELECT * FROM squads WHERE league_id = $1 AND user_id = $2`, leagueID, userID,
	); err != nil {
		if isNotFound(err) {
			return squad.Squad{}, false, nil
		}
		return squad.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	players, err := r.selectPlayers(ctx, leagueID, userID)
	if err != nil {
		return squad.Squad{}, false, err
	}

	return mapSquad(row, players), true, nil
}

func (r *SquadRepository) ListByLeague(ctx context.Context, leagueID string) ([]squad.Squad, error) {
	var rows []squadTableModel
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM squads WHERE league_id = $1 ORDER BY user_id`, leagueID,
	); err != nil {
		return nil, fmt.Errorf("select squads: %w", err)
	}

	var playerRows []squadPlayerTableModel
	if err := r.db.SelectContext(ctx, &playerRows,
		`SELECT * FROM squad_players WHERE league_id = $1 ORDER BY user_id, slot`, leagueID,
	); err != nil {
		return nil, fmt.Errorf("select squad players: %w", err)
	}

	playersByUser := make(map[string][]squadPlayerTableModel, len(rows))
	for _, row := range playerRows {
		playersByUser[row.UserID] = append(playersByUser[row.UserID], row)
	}

	out := make([]squad.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSquad(row, playersByUser[row.UserID]))
	}
	return out, nil
}

func (r *SquadRepository) Save(ctx context.Context, s squad.Squad) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin squad save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO squads (league_id, user_id, formation, captain_player_id, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (league_id, user_id) DO UPDATE SET
			formation         = EXCLUDED.formation,
			captain_player_id = EXCLUDED.captain_player_id,
			updated_at        = now()`,
		s.LeagueID, s.UserID, s.Formation, s.CaptainPlayerID,
	); err != nil {
		return fmt.Errorf("upsert squad: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM squad_players WHERE league_id = $1 AND user_id = $2`,
		s.LeagueID, s.UserID,
	); err != nil {
		return fmt.Errorf("clear squad players: %w", err)
	}

	for _, sp := range s.Players {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO squad_players (league_id, user_id, slot, player_id, role, price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.LeagueID, s.UserID, sp.Slot, sp.PlayerID, string(sp.Role), sp.Price,
		); err != nil {
			return fmt.Errorf("insert squad player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit squad save: %w", err)
	}
	return nil
}

func (r *SquadRepository) ClearLeague(ctx context.Context, leagueID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM squad_players WHERE league_id = $1`, leagueID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear league squads: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear league squads rows affected: %w", err)
	}

	var lineups int
	if err := r.db.GetContext(ctx, &lineups,
		`SELECT count(1) FROM squads WHERE league_id = $1`, leagueID,
	); err != nil {
		return 0, fmt.Errorf("count cleared lineups: %w", err)
	}
	if affected == 0 {
		return 0, nil
	}
	return lineups, nil
}

func (r *SquadRepository) selectPlayers(ctx context.Context, leagueID, userID string) ([]squadPlayerTableModel, error) {
	var rows []squadPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM squad_players WHERE league_id = $1 AND user_id = $2 ORDER BY slot`,
		leagueID, userID,
	); err != nil {
		return nil, fmt.Errorf("select squad players: %w", err)
	}
	return rows, nil
}

func mapSquad(row squadTableModel, players []squadPlayerTableModel) squad.Squad {
	out := squad.Squad{
		LeagueID:        row.LeagueID,
		UserID:          row.UserID,
		Formation:       row.Formation,
		CaptainPlayerID: row.CaptainPlayerID,
	}
	for _, p := range players {
		out.Players = append(out.Players, squad.SquadPlayer{
			Slot:     p.Slot,
			PlayerID: p.PlayerID,
			Role:     player.Position(p.Role),
			Price:    p.Price,
		})
	}
	return out
}
