package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marcosfdz/jornadabet/internal/domain/squad"
)

type squadKey struct {
	leagueID string
	userID   string
}

type SquadRepository struct {
	mu    sync.RWMutex
	items map[squadKey]squad.Squad
}

func NewSquadRepository(squads []squad.Squad) *SquadRepository {
	items := make(map[squadKey]squad.Squad, len(squads))
	for _, s := range squads {
		items[squadKey{leagueID: s.LeagueID, userID: s.UserID}] = cloneSquad(s)
	}

	return &SquadRepository{items: items}
}

func (r *SquadRepository) GetByUserAndLeague(_ context.Context, leagueID, userID string) (squad.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[squadKey{leagueID: leagueID, userID: userID}]
	if !ok {
		return squad.Squad{}, false, nil
	}

	return cloneSquad(s), true, nil
}

func (r *SquadRepository) ListByLeague(_ context.Context, leagueID string) ([]squad.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]squad.Squad, 0)
	for key, s := range r.items {
		if key.leagueID != leagueID {
			continue
		}
		out = append(out, cloneSquad(s))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *SquadRepository) Save(_ context.Context, s squad.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[squadKey{leagueID: s.LeagueID, userID: s.UserID}] = cloneSquad(s)
	return nil
}

func (r *SquadRepository) ClearLeague(_ context.Context, leagueID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleared := 0
	for key, s := range r.items {
		if key.leagueID != leagueID || len(s.Players) == 0 {
			continue
		}
		s.Players = nil
		r.items[key] = s
		cleared++
	}

	return cleared, nil
}

func cloneSquad(s squad.Squad) squad.Squad {
	players := make([]squad.SquadPlayer, len(s.Players))
	copy(players, s.Players)
	s.Players = players
	return s
}
