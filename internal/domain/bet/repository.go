package bet

import "context"

type Repository interface {
	GetByID(ctx context.Context, betID string) (Bet, bool, error)
	Create(ctx context.Context, b Bet) error
	// ListPending returns pending bets for a league; matchday 0 means every
	// matchday.
	ListPending(ctx context.Context, leagueID string, matchday int) ([]Bet, error)
	// ListByMatchday returns every bet of the league matchday regardless of
	// status, combi legs included.
	ListByMatchday(ctx context.Context, leagueID string, matchday int) ([]Bet, error)
	ListByUser(ctx context.Context, leagueID, userID string, matchday int) ([]Bet, error)
	UpdateAmount(ctx context.Context, betID string, amount, potentialWin int) error
	UpdateStatus(ctx context.Context, betID string, status Status) error
	Delete(ctx context.Context, betID string) error
	// DeleteSettled purges won/lost bets of a league matchday and reports how
	// many rows went away. Pending bets are never touched.
	DeleteSettled(ctx context.Context, leagueID string, matchday int) (int, error)

	CreateCombi(ctx context.Context, c Combi) error
	GetCombiByID(ctx context.Context, combiID string) (Combi, bool, error)
	ListCombis(ctx context.Context, leagueID string, matchday int) ([]Combi, error)
	ListCombiLegs(ctx context.Context, combiID string) ([]Bet, error)
	UpdateCombiStatus(ctx context.Context, combiID string, status Status) error
	DeleteSettledCombis(ctx context.Context, leagueID string, matchday int) (int, error)
}
