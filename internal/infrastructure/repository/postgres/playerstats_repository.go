package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/marcosfdz/jornadabet/internal/domain/playerstats"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) Get(ctx context.Context, key playerstats.Key) (playerstats.PlayerStats, bool, error) {
	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row,
		`SELECT * FROM player_stats WHERE player_id = $1 AND matchday = $2 AND season = $3`,
		key.PlayerID, key.Matchday, key.Season,
	); err != nil {
		if isNotFound(err) {
			return playerstats.PlayerStats{}, false, nil
		}
		return playerstats.PlayerStats{}, false, fmt.Errorf("get player stats: %w", err)
	}

	stats, err := mapPlayerStats(row)
	if err != nil {
		return playerstats.PlayerStats{}, false, err
	}
	return stats, true, nil
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, stats playerstats.PlayerStats) error {
	raw, err := sonic.Marshal(stats.Raw)
	if err != nil {
		return fmt.Errorf("encode raw stats: %w", err)
	}
	breakdown, err := sonic.Marshal(stats.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO player_stats
			(player_id, matchday, season, fixture_id, team_id, raw_stats, total_points, breakdown, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, matchday, season) DO UPDATE SET
			fixture_id   = EXCLUDED.fixture_id,
			team_id      = EXCLUDED.team_id,
			raw_stats    = EXCLUDED.raw_stats,
			total_points = EXCLUDED.total_points,
			breakdown    = EXCLUDED.breakdown,
			updated_at   = EXCLUDED.updated_at`,
		stats.PlayerID, stats.Matchday, stats.Season, stats.FixtureID, stats.TeamID,
		raw, stats.TotalPoints, breakdown, stats.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}
	return nil
}

func (r *PlayerStatsRepository) ListByMatchday(ctx context.Context, matchday int, season string) ([]playerstats.PlayerStats, error) {
	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM player_stats WHERE matchday = $1 AND season = $2 ORDER BY player_id`,
		matchday, season,
	); err != nil {
		return nil, fmt.Errorf("select player stats by matchday: %w", err)
	}

	out := make([]playerstats.PlayerStats, 0, len(rows))
	for _, row := range rows {
		stats, err := mapPlayerStats(row)
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

func mapPlayerStats(row playerStatsTableModel) (playerstats.PlayerStats, error) {
	var raw scoring.RawStats
	if len(row.RawStats) > 0 {
		if err := sonic.Unmarshal(row.RawStats, &raw); err != nil {
			return playerstats.PlayerStats{}, fmt.Errorf("decode raw stats: %w", err)
		}
	}

	var breakdown []scoring.BreakdownEntry
	if len(row.Breakdown) > 0 {
		if err := sonic.Unmarshal(row.Breakdown, &breakdown); err != nil {
			return playerstats.PlayerStats{}, fmt.Errorf("decode breakdown: %w", err)
		}
	}

	return playerstats.PlayerStats{
		PlayerID:    row.PlayerID,
		Matchday:    row.Matchday,
		Season:      row.Season,
		FixtureID:   row.FixtureID,
		TeamID:      row.TeamID,
		Raw:         raw,
		TotalPoints: row.TotalPoints,
		Breakdown:   breakdown,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
