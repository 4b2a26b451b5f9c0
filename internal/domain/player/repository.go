package player

import "context"

type Repository interface {
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
	ListByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
	// UpdateLastMatchdayPoints refreshes the cached points fields only; price
	// and the rest of the curated row are left untouched.
	UpdateLastMatchdayPoints(ctx context.Context, playerID int64, matchday, points int) error
}
