package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
)

type BetRepository struct {
	mu     sync.RWMutex
	bets   map[string]bet.Bet
	combis map[string]bet.Combi
}

func NewBetRepository() *BetRepository {
	return &BetRepository{
		bets:   make(map[string]bet.Bet),
		combis: make(map[string]bet.Combi),
	}
}

func (r *BetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bets[betID]
	return b, ok, nil
}

func (r *BetRepository) Create(_ context.Context, b bet.Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bets[b.ID] = b
	return nil
}

func (r *BetRepository) ListPending(_ context.Context, leagueID string, matchday int) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool {
		return b.LeagueID == leagueID && b.Status == bet.StatusPending && (matchday == 0 || b.Matchday == matchday)
	}), nil
}

func (r *BetRepository) ListByMatchday(_ context.Context, leagueID string, matchday int) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool {
		return b.LeagueID == leagueID && (matchday == 0 || b.Matchday == matchday)
	}), nil
}

func (r *BetRepository) ListByUser(_ context.Context, leagueID, userID string, matchday int) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool {
		return b.LeagueID == leagueID && b.UserID == userID && (matchday == 0 || b.Matchday == matchday)
	}), nil
}

func (r *BetRepository) UpdateAmount(_ context.Context, betID string, amount, potentialWin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bets[betID]
	if !ok {
		return nil
	}
	b.Amount = amount
	b.PotentialWin = potentialWin
	r.bets[betID] = b

	return nil
}

func (r *BetRepository) UpdateStatus(_ context.Context, betID string, status bet.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bets[betID]
	if !ok {
		return nil
	}
	b.Status = status
	r.bets[betID] = b

	return nil
}

func (r *BetRepository) Delete(_ context.Context, betID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bets, betID)
	return nil
}

func (r *BetRepository) DeleteSettled(_ context.Context, leagueID string, matchday int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, b := range r.bets {
		if b.LeagueID != leagueID || b.Matchday != matchday || !b.Settled() {
			continue
		}
		delete(r.bets, id)
		removed++
	}

	return removed, nil
}

func (r *BetRepository) CreateCombi(_ context.Context, c bet.Combi) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.combis[c.ID] = c
	return nil
}

func (r *BetRepository) GetCombiByID(_ context.Context, combiID string) (bet.Combi, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.combis[combiID]
	return c, ok, nil
}

func (r *BetRepository) ListCombis(_ context.Context, leagueID string, matchday int) ([]bet.Combi, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Combi, 0)
	for _, c := range r.combis {
		if c.LeagueID != leagueID {
			continue
		}
		if matchday != 0 && c.Matchday != matchday {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *BetRepository) ListCombiLegs(_ context.Context, combiID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.CombiID == combiID }), nil
}

func (r *BetRepository) UpdateCombiStatus(_ context.Context, combiID string, status bet.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.combis[combiID]
	if !ok {
		return nil
	}
	c.Status = status
	r.combis[combiID] = c

	return nil
}

func (r *BetRepository) DeleteSettledCombis(_ context.Context, leagueID string, matchday int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.combis {
		if c.LeagueID != leagueID || c.Matchday != matchday {
			continue
		}
		if c.Status != bet.StatusWon && c.Status != bet.StatusLost {
			continue
		}
		delete(r.combis, id)
		removed++
		// Settled combis take their legs with them.
		for betID, b := range r.bets {
			if b.CombiID == id {
				delete(r.bets, betID)
			}
		}
	}

	return removed, nil
}

func (r *BetRepository) list(match func(bet.Bet) bool) []bet.Bet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, b := range r.bets {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
