package playerstats

import "context"

type Repository interface {
	Get(ctx context.Context, key Key) (PlayerStats, bool, error)
	Upsert(ctx context.Context, stats PlayerStats) error
	ListByMatchday(ctx context.Context, matchday int, season string) ([]PlayerStats, error)
}
