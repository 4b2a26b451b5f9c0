package postgres

import (
	"context"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) ListByLeague(ctx context.Context, leagueID string) ([]league.Member, error) {
	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM league_members WHERE league_id = $1 ORDER BY user_id`, leagueID,
	); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		member, err := mapMember(row)
		if err != nil {
			return nil, err
		}
		out = append(out, member)
	}

	return out, nil
}

func (r *MemberRepository) Get(ctx context.Context, leagueID, userID string) (league.Member, bool, error) {
	var row memberTableModel
	if err := r.db.GetContext(ctx, &row,
		`SELECT * FROM league_members WHERE league_id = $1 AND user_id = $2`, leagueID, userID,
	); err != nil {
		if isNotFound(err) {
			return league.Member{}, false, nil
		}
		return league.Member{}, false, fmt.Errorf("get league member: %w", err)
	}

	member, err := mapMember(row)
	if err != nil {
		return league.Member{}, false, err
	}
	return member, true, nil
}

func (r *MemberRepository) Save(ctx context.Context, member league.Member) error {
	points, err := sonic.Marshal(member.PointsByMatchday)
	if err != nil {
		return fmt.Errorf("encode points by matchday: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO league_members
			(league_id, user_id, points, budget, initial_budget, betting_budget, points_by_matchday, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (league_id, user_id) DO UPDATE SET
			points             = EXCLUDED.points,
			budget             = EXCLUDED.budget,
			initial_budget     = EXCLUDED.initial_budget,
			betting_budget     = EXCLUDED.betting_budget,
			points_by_matchday = EXCLUDED.points_by_matchday,
			updated_at         = now()`,
		member.LeagueID, member.UserID, member.Points, member.Budget,
		member.InitialBudget, member.BettingBudget, points,
	); err != nil {
		return fmt.Errorf("upsert league member: %w", err)
	}

	return nil
}

func (r *MemberRepository) CreditBettingBudget(ctx context.Context, leagueID, userID string, amount int) error {
	return r.adjustBettingBudget(ctx, leagueID, userID, amount)
}

func (r *MemberRepository) DebitBettingBudget(ctx context.Context, leagueID, userID string, amount int) error {
	return r.adjustBettingBudget(ctx, leagueID, userID, -amount)
}

func (r *MemberRepository) adjustBettingBudget(ctx context.Context, leagueID, userID string, delta int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE league_members SET betting_budget = betting_budget + $1, updated_at = now()
		 WHERE league_id = $2 AND user_id = $3`,
		delta, leagueID, userID,
	)
	if err != nil {
		return fmt.Errorf("adjust betting budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust betting budget rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member not found: league=%s user=%s", leagueID, userID)
	}

	return nil
}

func mapMember(row memberTableModel) (league.Member, error) {
	points := make(map[int]int)
	if len(row.PointsByMatchday) > 0 {
		if err := sonic.Unmarshal(row.PointsByMatchday, &points); err != nil {
			return league.Member{}, fmt.Errorf("decode points by matchday: %w", err)
		}
	}

	return league.Member{
		LeagueID:         row.LeagueID,
		UserID:           row.UserID,
		Points:           row.Points,
		Budget:           row.Budget,
		InitialBudget:    row.InitialBudget,
		BettingBudget:    row.BettingBudget,
		PointsByMatchday: points,
	}, nil
}

type SettlementMarkRepository struct {
	db *sqlx.DB
}

func NewSettlementMarkRepository(db *sqlx.DB) *SettlementMarkRepository {
	return &SettlementMarkRepository{db: db}
}

func (r *SettlementMarkRepository) IsSettled(ctx context.Context, leagueID string, matchday int) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT count(1) FROM settlement_marks WHERE league_id = $1 AND matchday = $2`,
		leagueID, matchday,
	); err != nil {
		return false, fmt.Errorf("check settlement mark: %w", err)
	}
	return count > 0, nil
}

func (r *SettlementMarkRepository) MarkSettled(ctx context.Context, leagueID string, matchday int, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO settlement_marks (league_id, matchday, completed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (league_id, matchday) DO NOTHING`,
		leagueID, matchday, at,
	); err != nil {
		return fmt.Errorf("insert settlement mark: %w", err)
	}
	return nil
}
