package squad

import "context"

type Repository interface {
	GetByUserAndLeague(ctx context.Context, leagueID, userID string) (Squad, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Squad, error)
	Save(ctx context.Context, s Squad) error
	// ClearLeague removes every squad player row in the league and reports how
	// many lineups were emptied.
	ClearLeague(ctx context.Context, leagueID string) (int, error)
}
