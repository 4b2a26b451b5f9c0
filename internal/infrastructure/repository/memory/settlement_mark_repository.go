package memory

import (
	"context"
	"sync"
	"time"
)

type markKey struct {
	leagueID string
	matchday int
}

type SettlementMarkRepository struct {
	mu    sync.RWMutex
	marks map[markKey]time.Time
}

func NewSettlementMarkRepository() *SettlementMarkRepository {
	return &SettlementMarkRepository{marks: make(map[markKey]time.Time)}
}

func (r *SettlementMarkRepository) IsSettled(_ context.Context, leagueID string, matchday int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.marks[markKey{leagueID: leagueID, matchday: matchday}]
	return ok, nil
}

func (r *SettlementMarkRepository) MarkSettled(_ context.Context, leagueID string, matchday int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.marks[markKey{leagueID: leagueID, matchday: matchday}] = at
	return nil
}
