package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/playerstats"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
	"github.com/marcosfdz/jornadabet/internal/infrastructure/repository/memory"
	"github.com/marcosfdz/jornadabet/internal/platform/cache"
)

// stubGateway serves canned provider payloads and counts round fetches so
// tests can assert cache behavior.
type stubGateway struct {
	fixtures     []ExternalFixtureResult
	stats        map[int64]ExternalFixtureStats
	lines        map[int64][]ExternalPlayerLine
	events       map[int64][]ExternalFixtureEvent
	fixtureCalls atomic.Int64
}

func (g *stubGateway) FetchRoundFixtures(_ context.Context, _ int64, _ string, _ int) ([]ExternalFixtureResult, error) {
	g.fixtureCalls.Add(1)
	return g.fixtures, nil
}

func (g *stubGateway) FetchFixtureStatistics(_ context.Context, fixtureID int64) (ExternalFixtureStats, error) {
	return g.stats[fixtureID], nil
}

func (g *stubGateway) FetchFixturePlayerLines(_ context.Context, fixtureID int64) ([]ExternalPlayerLine, error) {
	return g.lines[fixtureID], nil
}

func (g *stubGateway) FetchFixtureEvents(_ context.Context, fixtureID int64) ([]ExternalFixtureEvent, error) {
	return g.events[fixtureID], nil
}

func newStatsFixture(t *testing.T, gateway *stubGateway, players []player.Player) (*PlayerStatsService, *memory.PlayerStatsRepository) {
	t.Helper()

	statsRepo := memory.NewPlayerStatsRepository()
	svc := NewPlayerStatsService(
		memory.NewPlayerRepository(players),
		statsRepo,
		gateway,
		scoring.NewCalculator(scoring.DefaultConfig()),
		cache.NewStore(time.Minute),
		140,
		nil,
	)
	return svc, statsRepo
}

func TestPlayerStatsService_StoredRowServedWithoutGateway(t *testing.T) {
	gateway := &stubGateway{}
	svc, statsRepo := newStatsFixture(t, gateway, memory.SeedPlayers())

	stored := playerstats.PlayerStats{
		PlayerID: 730, Matchday: 5, Season: "2025",
		TotalPoints: 9, Raw: scoring.RawStats{MinutesPlayed: 90},
	}
	if err := statsRepo.Upsert(t.Context(), stored); err != nil {
		t.Fatalf("seed stored stats: %v", err)
	}

	got, err := svc.GetOrCompute(t.Context(), 730, 5, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got.TotalPoints != 9 {
		t.Fatalf("unexpected points: got=%d want=9", got.TotalPoints)
	}
	if calls := gateway.fixtureCalls.Load(); calls != 0 {
		t.Fatalf("stored row must not hit the gateway, calls=%d", calls)
	}
}

func TestPlayerStatsService_ComputesGoalkeeperScore(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777,
			HomeTeamName: "Real Madrid", AwayTeamName: "Girona",
			HomeGoals: 2, AwayGoals: 0, Status: "FT",
		}},
		lines: map[int64][]ExternalPlayerLine{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 730,
				PlayerName: "Thibaut Courtois", Position: "G",
				Raw: scoring.RawStats{MinutesPlayed: 90, Saves: 4},
			}},
		},
	}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 730, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	// 2 minutes + 4 saves + 5 clean sheet
	if got.TotalPoints != 11 {
		t.Fatalf("unexpected points: got=%d want=11", got.TotalPoints)
	}
	if got.FixtureID != 9001 || got.TeamID != 541 {
		t.Fatalf("unexpected fixture binding: %+v", got)
	}
}

func TestPlayerStatsService_DefenderScoredAgainstTeamConceded(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777,
			HomeGoals: 1, AwayGoals: 2, Status: "FT",
		}},
		lines: map[int64][]ExternalPlayerLine{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 2273,
				PlayerName: "Antonio Rüdiger", Position: "D",
				// The provider reports zero conceded for outfield players.
				Raw: scoring.RawStats{MinutesPlayed: 90, GoalsConceded: 0},
			}},
		},
	}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 2273, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	// 2 minutes - 2 team conceded, no clean sheet
	if got.Raw.GoalsConceded != 2 {
		t.Fatalf("defender must carry team conceded: got=%d want=2", got.Raw.GoalsConceded)
	}
	if got.TotalPoints != 0 {
		t.Fatalf("unexpected points: got=%d want=0", got.TotalPoints)
	}
}

func TestPlayerStatsService_MinutesNormalizedFromSubstitutions(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777,
			HomeGoals: 0, AwayGoals: 0, Status: "FT",
		}},
		lines: map[int64][]ExternalPlayerLine{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 1496,
				PlayerName: "Vinícius Júnior", Position: "F",
				// Raw minutes drift past the subbed-off point.
				Raw: scoring.RawStats{MinutesPlayed: 97},
			}},
		},
		events: map[int64][]ExternalFixtureEvent{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541,
				PlayerExternalID: 1496, EventType: "subst", Minute: 61,
			}},
		},
	}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 1496, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got.Raw.MinutesPlayed != 61 {
		t.Fatalf("subbed-off minutes: got=%d want=61", got.Raw.MinutesPlayed)
	}
}

func TestPlayerStatsService_SubbedOnPlaysRemainder(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777, Status: "FT",
		}},
		lines: map[int64][]ExternalPlayerLine{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 759,
				PlayerName: "Federico Valverde", Position: "M",
				Raw: scoring.RawStats{MinutesPlayed: 0},
			}},
		},
		events: map[int64][]ExternalFixtureEvent{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541,
				PlayerExternalID: 748, AssistPlayerExternalID: 759,
				EventType: "subst", Minute: 75,
			}},
		},
	}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 759, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got.Raw.MinutesPlayed != 15 {
		t.Fatalf("subbed-on minutes: got=%d want=15", got.Raw.MinutesPlayed)
	}
}

func TestPlayerStatsService_UnusedSubstituteScoresZero(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777, Status: "FT",
		}},
		lines: map[int64][]ExternalPlayerLine{
			9001: {{
				FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 759,
				PlayerName: "Federico Valverde", Position: "M",
				// On the bench all match: listed in the payload, never on the pitch.
				Raw: scoring.RawStats{MinutesPlayed: 0},
			}},
		},
		events: map[int64][]ExternalFixtureEvent{
			9001: {{
				// An unrelated substitution must not grant minutes.
				FixtureExternalID: 9001, TeamExternalID: 541,
				PlayerExternalID: 748, AssistPlayerExternalID: 1496,
				EventType: "subst", Minute: 80,
			}},
		},
	}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 759, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got.Raw.MinutesPlayed != 0 {
		t.Fatalf("unused substitute minutes: got=%d want=0", got.Raw.MinutesPlayed)
	}
	if got.TotalPoints != 0 {
		t.Fatalf("unused substitute must score zero: got=%d", got.TotalPoints)
	}
}

func TestPlayerStatsService_ForcePreservesStoredOnMissingLine(t *testing.T) {
	gateway := &stubGateway{
		fixtures: []ExternalFixtureResult{{
			ExternalID: 9001, Round: 1, Season: "2025",
			HomeTeamID: 541, AwayTeamID: 777, Status: "FT",
		}},
		// No lines: the player vanished from the provider payload.
		lines: map[int64][]ExternalPlayerLine{9001: {}},
	}
	svc, statsRepo := newStatsFixture(t, gateway, memory.SeedPlayers())

	stored := playerstats.PlayerStats{
		PlayerID: 2273, Matchday: 1, Season: "2025",
		TotalPoints: 8, Raw: scoring.RawStats{MinutesPlayed: 90},
	}
	if err := statsRepo.Upsert(t.Context(), stored); err != nil {
		t.Fatalf("seed stored stats: %v", err)
	}

	got, err := svc.GetOrCompute(t.Context(), 2273, 1, "2025", true)
	if err != nil {
		t.Fatalf("GetOrCompute force: %v", err)
	}
	if got.TotalPoints != 8 {
		t.Fatalf("forced recompute must preserve real data: got=%d want=8", got.TotalPoints)
	}
}

func TestPlayerStatsService_IdleTeamScoresZero(t *testing.T) {
	gateway := &stubGateway{fixtures: []ExternalFixtureResult{}}
	svc, _ := newStatsFixture(t, gateway, memory.SeedPlayers())

	got, err := svc.GetOrCompute(t.Context(), 730, 1, "2025", false)
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if got.TotalPoints != 0 {
		t.Fatalf("idle round must score zero: got=%d", got.TotalPoints)
	}
}

func TestPlayerStatsService_InputValidation(t *testing.T) {
	svc, _ := newStatsFixture(t, &stubGateway{}, memory.SeedPlayers())

	if _, err := svc.GetOrCompute(t.Context(), 0, 1, "2025", false); err == nil {
		t.Fatal("expected error for zero player id")
	}
	if _, err := svc.GetOrCompute(t.Context(), 730, 39, "2025", false); err == nil {
		t.Fatal("expected error for out-of-range matchday")
	}
	if _, err := svc.GetOrCompute(t.Context(), 730, 1, "", false); err == nil {
		t.Fatal("expected error for empty season")
	}
}
