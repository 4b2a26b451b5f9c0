package league

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	UpdateMatchdayStatus(ctx context.Context, leagueID string, status MatchdayStatus) error
	UpdateCurrentMatchday(ctx context.Context, leagueID string, matchday int) error
}

type MemberRepository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Member, error)
	Get(ctx context.Context, leagueID, userID string) (Member, bool, error)
	// Save persists the full member row including the per-matchday points map.
	Save(ctx context.Context, member Member) error
	// CreditBettingBudget adds amount to the member's wager allowance. Used by
	// bet cancellations and stake adjustments; negative amounts debit.
	CreditBettingBudget(ctx context.Context, leagueID, userID string, amount int) error
	DebitBettingBudget(ctx context.Context, leagueID, userID string, amount int) error
}

// SettlementMarkRepository records which (league, matchday) pairs have had
// budgets applied so a retried settlement cannot double-pay.
type SettlementMarkRepository interface {
	IsSettled(ctx context.Context, leagueID string, matchday int) (bool, error)
	MarkSettled(ctx context.Context, leagueID string, matchday int, at time.Time) error
}
