package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marcosfdz/jornadabet/internal/domain/playerstats"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
)

type PlayerStatsRepository struct {
	mu    sync.RWMutex
	items map[playerstats.Key]playerstats.PlayerStats
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{items: make(map[playerstats.Key]playerstats.PlayerStats)}
}

func (r *PlayerStatsRepository) Get(_ context.Context, key playerstats.Key) (playerstats.PlayerStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[key]
	if !ok {
		return playerstats.PlayerStats{}, false, nil
	}

	return cloneStats(s), true, nil
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, stats playerstats.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[stats.Key()] = cloneStats(stats)
	return nil
}

func (r *PlayerStatsRepository) ListByMatchday(_ context.Context, matchday int, season string) ([]playerstats.PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.PlayerStats, 0)
	for key, s := range r.items {
		if key.Matchday != matchday || key.Season != season {
			continue
		}
		out = append(out, cloneStats(s))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func cloneStats(s playerstats.PlayerStats) playerstats.PlayerStats {
	breakdown := make([]scoring.BreakdownEntry, len(s.Breakdown))
	copy(breakdown, s.Breakdown)
	s.Breakdown = breakdown
	return s
}
