package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/bet"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) GetByID(ctx context.Context, betID string) (bet.Bet, bool, error) {
	var row betTableModel
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM bets WHERE id = $1`, betID); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet by id: %w", err)
	}

	return mapBet(row), true, nil
}

func (r *BetRepository) Create(ctx context.Context, b bet.Bet) error {
	combiID := sql.NullString{String: b.CombiID, Valid: b.CombiID != ""}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO bets
			(id, league_id, user_id, matchday, fixture_id, market, label, odd, amount, potential_win, status, combi_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`,
		b.ID, b.LeagueID, b.UserID, b.Matchday, b.FixtureID, b.Market, b.Label,
		b.Odd, b.Amount, b.PotentialWin, string(b.Status), combiID,
	); err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *BetRepository) ListPending(ctx context.Context, leagueID string, matchday int) ([]bet.Bet, error) {
	return r.selectBets(ctx,
		`SELECT * FROM bets
		 WHERE league_id = $1 AND status = 'pending' AND ($2 = 0 OR matchday = $2)
		 ORDER BY id`,
		leagueID, matchday)
}

func (r *BetRepository) ListByMatchday(ctx context.Context, leagueID string, matchday int) ([]bet.Bet, error) {
	return r.selectBets(ctx,
		`SELECT * FROM bets
		 WHERE league_id = $1 AND ($2 = 0 OR matchday = $2)
		 ORDER BY id`,
		leagueID, matchday)
}

func (r *BetRepository) ListByUser(ctx context.Context, leagueID, userID string, matchday int) ([]bet.Bet, error) {
	return r.selectBets(ctx,
		`SELECT * FROM bets
		 WHERE league_id = $1 AND user_id = $2 AND ($3 = 0 OR matchday = $3)
		 ORDER BY id`,
		leagueID, userID, matchday)
}

func (r *BetRepository) UpdateAmount(ctx context.Context, betID string, amount, potentialWin int) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bets SET amount = $1, potential_win = $2, updated_at = now() WHERE id = $3`,
		amount, potentialWin, betID,
	); err != nil {
		return fmt.Errorf("update bet amount: %w", err)
	}
	return nil
}

func (r *BetRepository) UpdateStatus(ctx context.Context, betID string, status bet.Status) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE bets SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), betID,
	); err != nil {
		return fmt.Errorf("update bet status: %w", err)
	}
	return nil
}

func (r *BetRepository) Delete(ctx context.Context, betID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bets WHERE id = $1`, betID); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}
	return nil
}

func (r *BetRepository) DeleteSettled(ctx context.Context, leagueID string, matchday int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bets WHERE league_id = $1 AND matchday = $2 AND status IN ('won', 'lost')`,
		leagueID, matchday,
	)
	if err != nil {
		return 0, fmt.Errorf("delete settled bets: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete settled bets rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *BetRepository) CreateCombi(ctx context.Context, c bet.Combi) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO combis
			(id, league_id, user_id, matchday, total_odd, amount, potential_win, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		c.ID, c.LeagueID, c.UserID, c.Matchday, c.TotalOdd, c.Amount, c.PotentialWin, string(c.Status),
	); err != nil {
		return fmt.Errorf("insert combi: %w", err)
	}
	return nil
}

func (r *BetRepository) GetCombiByID(ctx context.Context, combiID string) (bet.Combi, bool, error) {
	var row combiTableModel
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM combis WHERE id = $1`, combiID); err != nil {
		if isNotFound(err) {
			return bet.Combi{}, false, nil
		}
		return bet.Combi{}, false, fmt.Errorf("get combi by id: %w", err)
	}

	return mapCombi(row), true, nil
}

func (r *BetRepository) ListCombis(ctx context.Context, leagueID string, matchday int) ([]bet.Combi, error) {
	var rows []combiTableModel
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM combis
		 WHERE league_id = $1 AND ($2 = 0 OR matchday = $2)
		 ORDER BY id`,
		leagueID, matchday,
	); err != nil {
		return nil, fmt.Errorf("select combis: %w", err)
	}

	out := make([]bet.Combi, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCombi(row))
	}
	return out, nil
}

func (r *BetRepository) ListCombiLegs(ctx context.Context, combiID string) ([]bet.Bet, error) {
	return r.selectBets(ctx, `SELECT * FROM bets WHERE combi_id = $1 ORDER BY id`, combiID)
}

func (r *BetRepository) UpdateCombiStatus(ctx context.Context, combiID string, status bet.Status) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE combis SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), combiID,
	); err != nil {
		return fmt.Errorf("update combi status: %w", err)
	}
	return nil
}

func (r *BetRepository) DeleteSettledCombis(ctx context.Context, leagueID string, matchday int) (int, error) {
	// Legs go first so no orphaned rows survive the purge.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM bets WHERE combi_id IN (
			SELECT id FROM combis WHERE league_id = $1 AND matchday = $2 AND status IN ('won', 'lost')
		 )`,
		leagueID, matchday,
	); err != nil {
		return 0, fmt.Errorf("delete settled combi legs: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM combis WHERE league_id = $1 AND matchday = $2 AND status IN ('won', 'lost')`,
		leagueID, matchday,
	)
	if err != nil {
		return 0, fmt.Errorf("delete settled combis: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete settled combis rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *BetRepository) selectBets(ctx context.Context, query string, args ...any) ([]bet.Bet, error) {
	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapBet(row))
	}
	return out, nil
}

func mapBet(row betTableModel) bet.Bet {
	return bet.Bet{
		ID:           row.ID,
		LeagueID:     row.LeagueID,
		UserID:       row.UserID,
		Matchday:     row.Matchday,
		FixtureID:    row.FixtureID,
		Market:       row.Market,
		Label:        row.Label,
		Odd:          row.Odd,
		Amount:       row.Amount,
		PotentialWin: row.PotentialWin,
		Status:       bet.Status(row.Status),
		CombiID:      row.CombiID.String,
	}
}

func mapCombi(row combiTableModel) bet.Combi {
	return bet.Combi{
		ID:           row.ID,
		LeagueID:     row.LeagueID,
		UserID:       row.UserID,
		Matchday:     row.Matchday,
		TotalOdd:     row.TotalOdd,
		Amount:       row.Amount,
		PotentialWin: row.PotentialWin,
		Status:       bet.Status(row.Status),
	}
}
