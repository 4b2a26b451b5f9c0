package usecase

import (
	"testing"
	"time"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
	"github.com/marcosfdz/jornadabet/internal/domain/squad"
	"github.com/marcosfdz/jornadabet/internal/infrastructure/repository/memory"
	"github.com/marcosfdz/jornadabet/internal/platform/cache"
)

type settlementFixture struct {
	svc        *MatchdayService
	leagueRepo *memory.LeagueRepository
	memberRepo *memory.MemberRepository
	betRepo    *memory.BetRepository
	squadRepo  *memory.SquadRepository
}

func realMadridEleven() []player.Player {
	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender, player.PositionDefender, player.PositionDefender, player.PositionDefender,
		player.PositionMidfielder, player.PositionMidfielder, player.PositionMidfielder,
		player.PositionForward, player.PositionForward, player.PositionForward,
	}
	out := make([]player.Player, 0, len(positions))
	for i, pos := range positions {
		out = append(out, player.Player{
			ID:       int64(100 + i),
			Name:     "Jugador " + string(rune('A'+i)),
			Position: pos,
			TeamID:   541,
			TeamName: "Real Madrid",
		})
	}
	return out
}

func newSettlementFixture(t *testing.T, gateway FootballGateway, squads []squad.Squad, players []player.Player) settlementFixture {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	memberRepo := memory.NewMemberRepository(memory.SeedMembers())
	betRepo := memory.NewBetRepository()
	squadRepo := memory.NewSquadRepository(squads)
	responses := cache.NewStore(time.Minute)

	statsSvc := NewPlayerStatsService(
		memory.NewPlayerRepository(players),
		memory.NewPlayerStatsRepository(),
		gateway,
		scoring.NewCalculator(scoring.DefaultConfig()),
		responses,
		140,
		nil,
	)
	svc := NewMatchdayService(
		leagueRepo,
		memberRepo,
		memory.NewSettlementMarkRepository(),
		betRepo,
		squadRepo,
		statsSvc,
		gateway,
		responses,
		140,
		MatchdaySettings{GatewayCallDelay: 0},
		nil,
	)

	return settlementFixture{
		svc:        svc,
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		betRepo:    betRepo,
		squadRepo:  squadRepo,
	}
}

func settlementGateway() *stubGateway {
	return &stubGateway{
		fixtures: []ExternalFixtureResult{
			{
				ExternalID: 9001, Round: 1, Season: "2025",
				HomeTeamID: 541, AwayTeamID: 777,
				HomeTeamName: "Real Madrid", AwayTeamName: "Girona",
				HomeGoals: 2, AwayGoals: 0, Status: "FT",
			},
			{
				ExternalID: 9003, Round: 1, Season: "2025",
				HomeTeamID: 888, AwayTeamID: 999,
				HomeTeamName: "Sevilla", AwayTeamName: "Betis",
				Status: "NS",
			},
		},
		lines: map[int64][]ExternalPlayerLine{
			9001: {
				{
					FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 100,
					PlayerName: "Jugador A", Position: "G",
					Raw: scoring.RawStats{MinutesPlayed: 90},
				},
				{
					FixtureExternalID: 9001, TeamExternalID: 541, PlayerExternalID: 108,
					PlayerName: "Jugador I", Position: "F",
					Raw: scoring.RawStats{MinutesPlayed: 90, Goals: 1},
				},
			},
		},
	}
}

func TestMatchdayService_SettleMatchday_FullPipeline(t *testing.T) {
	gateway := settlementGateway()
	marcosSquad := squad.Squad{LeagueID: memory.LeagueIDPenya, UserID: "user-marcos", Formation: "4-3-3"}
	for i, p := range realMadridEleven() {
		marcosSquad.Players = append(marcosSquad.Players, squad.SquadPlayer{
			Slot: i + 1, PlayerID: p.ID, Role: p.Position,
		})
	}
	fx := newSettlementFixture(t, gateway, []squad.Squad{marcosSquad}, realMadridEleven())
	ctx := t.Context()

	seedBet := func(b bet.Bet) {
		t.Helper()
		if err := fx.betRepo.Create(ctx, b); err != nil {
			t.Fatalf("seed bet %s: %v", b.ID, err)
		}
	}
	seedBet(bet.Bet{
		ID: "bet-marcos", LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
		Matchday: 1, FixtureID: 9001, Market: "Resultado final", Label: "Ganará Real Madrid",
		Odd: 2.5, Amount: 10, PotentialWin: 25, Status: bet.StatusPending,
	})
	seedBet(bet.Bet{
		ID: "bet-javi", LeagueID: memory.LeagueIDPenya, UserID: "user-javi",
		Matchday: 1, FixtureID: 9001, Market: "Resultado final", Label: "Empate",
		Odd: 3.0, Amount: 20, PotentialWin: 60, Status: bet.StatusPending,
	})
	seedBet(bet.Bet{
		ID: "bet-sergio", LeagueID: memory.LeagueIDPenya, UserID: "user-sergio",
		Matchday: 1, FixtureID: 9003, Market: "Resultado final", Label: "Ganará Sevilla",
		Odd: 1.8, Amount: 15, PotentialWin: 27, Status: bet.StatusPending,
	})

	if err := fx.betRepo.CreateCombi(ctx, bet.Combi{
		ID: "combi-javi", LeagueID: memory.LeagueIDPenya, UserID: "user-javi",
		Matchday: 1, TotalOdd: 4.5, Amount: 10, PotentialWin: 45, Status: bet.StatusPending,
	}); err != nil {
		t.Fatalf("seed combi: %v", err)
	}
	seedBet(bet.Bet{
		ID: "leg-1", LeagueID: memory.LeagueIDPenya, UserID: "user-javi",
		Matchday: 1, FixtureID: 9001, Market: "Resultado final", Label: "Ganará Real Madrid",
		Odd: 2.5, Status: bet.StatusPending, CombiID: "combi-javi",
	})
	seedBet(bet.Bet{
		ID: "leg-2", LeagueID: memory.LeagueIDPenya, UserID: "user-javi",
		Matchday: 1, FixtureID: 9001, Market: "Goles totales", Label: "Más de 1.5 goles",
		Odd: 1.8, Status: bet.StatusPending, CombiID: "combi-javi",
	})

	summary, err := fx.svc.SettleMatchday(ctx, memory.LeagueIDPenya, 1)
	if err != nil {
		t.Fatalf("SettleMatchday: %v", err)
	}

	if summary.BetsEvaluated != 5 {
		t.Fatalf("bets evaluated: got=%d want=5", summary.BetsEvaluated)
	}
	if summary.BetsWon != 3 || summary.BetsLost != 1 || summary.BetsStillPending != 1 {
		t.Fatalf("unexpected verdict split: %+v", summary)
	}
	if summary.CombisSettled != 1 {
		t.Fatalf("combis settled: got=%d want=1", summary.CombisSettled)
	}
	if !summary.BudgetsApplied || summary.MembersUpdated != 3 {
		t.Fatalf("budget application: %+v", summary)
	}
	if summary.NextMatchday != 2 {
		t.Fatalf("next matchday: got=%d want=2", summary.NextMatchday)
	}

	marcos, _, err := fx.memberRepo.Get(ctx, memory.LeagueIDPenya, "user-marcos")
	if err != nil {
		t.Fatalf("get marcos: %v", err)
	}
	// Budget 500 + 15 bet profit + 13 squad points converted one-to-one; the
	// squad scored 7 (keeper) + 6 (scorer) with the other nine persisted at
	// zero. The new budget becomes the baseline for the next round.
	if marcos.Budget != 528 {
		t.Fatalf("marcos budget: got=%d want=528", marcos.Budget)
	}
	if marcos.InitialBudget != 528 {
		t.Fatalf("marcos initial budget: got=%d want=528", marcos.InitialBudget)
	}
	if marcos.Points != 13 || marcos.PointsByMatchday[1] != 13 {
		t.Fatalf("marcos points: total=%d md1=%d want 13/13", marcos.Points, marcos.PointsByMatchday[1])
	}
	if marcos.BettingBudget != 250 {
		t.Fatalf("marcos betting budget must reset to 250, got=%d", marcos.BettingBudget)
	}

	javi, _, err := fx.memberRepo.Get(ctx, memory.LeagueIDPenya, "user-javi")
	if err != nil {
		t.Fatalf("get javi: %v", err)
	}
	// 500 - 20 lost single + 35 combi profit (45 payout - 10 stake).
	if javi.Budget != 515 {
		t.Fatalf("javi budget: got=%d want=515", javi.Budget)
	}
	if javi.InitialBudget != 515 {
		t.Fatalf("javi initial budget: got=%d want=515", javi.InitialBudget)
	}
	if javi.BettingBudget != 250 {
		t.Fatalf("javi betting budget must reset to 250, got=%d", javi.BettingBudget)
	}

	current, _, err := fx.leagueRepo.GetByID(ctx, memory.LeagueIDPenya)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if current.CurrentMatchday != 2 || current.MatchdayStatus != league.MatchdayOpen {
		t.Fatalf("league after settlement: %+v", current)
	}

	// Settled singles, settled legs and the won combi are purged; the
	// unfinished fixture's bet survives as pending.
	if summary.BetsPurged != 4 || summary.CombisPurged != 1 {
		t.Fatalf("purge counts: bets=%d combis=%d", summary.BetsPurged, summary.CombisPurged)
	}
	remaining, err := fx.betRepo.ListPending(ctx, memory.LeagueIDPenya, 1)
	if err != nil {
		t.Fatalf("list pending after settlement: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "bet-sergio" {
		t.Fatalf("expected only the unfinished-fixture bet to remain, got %+v", remaining)
	}
	if legs, _ := fx.betRepo.ListCombiLegs(ctx, "combi-javi"); len(legs) != 0 {
		t.Fatalf("combi legs must be purged with the combi, got %d", len(legs))
	}
}

func TestMatchdayService_SettleMatchday_RetryDoesNotPayTwice(t *testing.T) {
	gateway := settlementGateway()
	fx := newSettlementFixture(t, gateway, nil, realMadridEleven())
	ctx := t.Context()

	if err := fx.betRepo.Create(ctx, bet.Bet{
		ID: "bet-marcos", LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
		Matchday: 1, FixtureID: 9001, Market: "Resultado final", Label: "Ganará Real Madrid",
		Odd: 2.5, Amount: 10, PotentialWin: 25, Status: bet.StatusPending,
	}); err != nil {
		t.Fatalf("seed bet: %v", err)
	}

	first, err := fx.svc.SettleMatchday(ctx, memory.LeagueIDPenya, 1)
	if err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	if !first.BudgetsApplied {
		t.Fatalf("first run must apply budgets: %+v", first)
	}

	second, err := fx.svc.SettleMatchday(ctx, memory.LeagueIDPenya, 1)
	if err != nil {
		t.Fatalf("second settlement: %v", err)
	}
	if second.BudgetsApplied {
		t.Fatalf("second run must skip budget application: %+v", second)
	}

	marcos, _, err := fx.memberRepo.Get(ctx, memory.LeagueIDPenya, "user-marcos")
	if err != nil {
		t.Fatalf("get marcos: %v", err)
	}
	if marcos.Budget != 515 {
		t.Fatalf("budget paid twice: got=%d want=515", marcos.Budget)
	}
	if marcos.InitialBudget != 515 {
		t.Fatalf("initial budget reapplied: got=%d want=515", marcos.InitialBudget)
	}
}

func TestMatchdayService_EvaluateCombi_WinMovesStatusOnly(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, nil)
	ctx := t.Context()

	if err := fx.betRepo.CreateCombi(ctx, bet.Combi{
		ID: "combi-1", LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
		Matchday: 1, TotalOdd: 4.0, Amount: 10, PotentialWin: 40, Status: bet.StatusPending,
	}); err != nil {
		t.Fatalf("seed combi: %v", err)
	}
	for i, status := range []bet.Status{bet.StatusWon, bet.StatusWon} {
		if err := fx.betRepo.Create(ctx, bet.Bet{
			ID: "leg-" + string(rune('a'+i)), LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
			Matchday: 1, FixtureID: int64(9001 + i), Market: "Resultado final", Label: "Empate",
			Odd: 2.0, Status: status, CombiID: "combi-1",
		}); err != nil {
			t.Fatalf("seed leg: %v", err)
		}
	}

	settled, err := fx.svc.EvaluateCombi(ctx, "combi-1")
	if err != nil {
		t.Fatalf("EvaluateCombi: %v", err)
	}
	if !settled {
		t.Fatal("expected combi to settle")
	}
	combi, _, _ := fx.betRepo.GetCombiByID(ctx, "combi-1")
	if combi.Status != bet.StatusWon {
		t.Fatalf("combi status: got=%s want=won", combi.Status)
	}

	// The payout flows through the settlement balance aggregation, never the
	// betting budget; evaluation alone moves no money.
	marcos, _, _ := fx.memberRepo.Get(ctx, memory.LeagueIDPenya, "user-marcos")
	if marcos.BettingBudget != 250 {
		t.Fatalf("betting budget after combi win: got=%d want=250", marcos.BettingBudget)
	}
	if marcos.Budget != 500 {
		t.Fatalf("budget after evaluation alone: got=%d want=500", marcos.Budget)
	}

	// A repeated evaluation hits the pending-status guard.
	settled, err = fx.svc.EvaluateCombi(ctx, "combi-1")
	if err != nil {
		t.Fatalf("repeat EvaluateCombi: %v", err)
	}
	if settled {
		t.Fatal("repeat evaluation must be a no-op")
	}
}

func TestMatchdayService_EvaluateCombi_OneLostLegLosesAll(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, nil)
	ctx := t.Context()

	if err := fx.betRepo.CreateCombi(ctx, bet.Combi{
		ID: "combi-1", LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
		Matchday: 1, TotalOdd: 4.0, Amount: 10, PotentialWin: 40, Status: bet.StatusPending,
	}); err != nil {
		t.Fatalf("seed combi: %v", err)
	}
	for i, status := range []bet.Status{bet.StatusWon, bet.StatusLost} {
		if err := fx.betRepo.Create(ctx, bet.Bet{
			ID: "leg-" + string(rune('a'+i)), LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
			Matchday: 1, FixtureID: int64(9001 + i), Market: "Resultado final", Label: "Empate",
			Odd: 2.0, Status: status, CombiID: "combi-1",
		}); err != nil {
			t.Fatalf("seed leg: %v", err)
		}
	}

	settled, err := fx.svc.EvaluateCombi(ctx, "combi-1")
	if err != nil {
		t.Fatalf("EvaluateCombi: %v", err)
	}
	if !settled {
		t.Fatal("expected combi to settle lost")
	}

	combi, _, _ := fx.betRepo.GetCombiByID(ctx, "combi-1")
	if combi.Status != bet.StatusLost {
		t.Fatalf("combi status: got=%s want=lost", combi.Status)
	}
	marcos, _, _ := fx.memberRepo.Get(ctx, memory.LeagueIDPenya, "user-marcos")
	if marcos.BettingBudget != 250 {
		t.Fatalf("lost combi must not credit: got=%d want=250", marcos.BettingBudget)
	}
}

func TestMatchdayService_LockUnlock(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, nil)
	ctx := t.Context()

	view, err := fx.svc.LockMatchday(ctx, memory.LeagueIDPenya)
	if err != nil {
		t.Fatalf("LockMatchday: %v", err)
	}
	if view.Status != league.MatchdayLocked {
		t.Fatalf("status after lock: %s", view.Status)
	}

	// Locking again is idempotent.
	if _, err := fx.svc.LockMatchday(ctx, memory.LeagueIDPenya); err != nil {
		t.Fatalf("repeat LockMatchday: %v", err)
	}

	view, err = fx.svc.UnlockMatchday(ctx, memory.LeagueIDPenya)
	if err != nil {
		t.Fatalf("UnlockMatchday: %v", err)
	}
	if view.Status != league.MatchdayOpen {
		t.Fatalf("status after unlock: %s", view.Status)
	}
}

func TestMatchdayService_LockAllLeagues(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, nil)
	ctx := t.Context()

	result, err := fx.svc.LockAllLeagues(ctx)
	if err != nil {
		t.Fatalf("LockAllLeagues: %v", err)
	}
	if result.Total != 2 || result.Changed != 2 {
		t.Fatalf("lock all: %+v", result)
	}

	// Second pass changes nothing.
	result, err = fx.svc.LockAllLeagues(ctx)
	if err != nil {
		t.Fatalf("repeat LockAllLeagues: %v", err)
	}
	if result.Total != 2 || result.Changed != 0 {
		t.Fatalf("repeat lock all: %+v", result)
	}
}

func TestMatchdayService_PreviewBets_DoesNotPersist(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, nil)
	ctx := t.Context()

	if err := fx.betRepo.Create(ctx, bet.Bet{
		ID: "bet-1", LeagueID: memory.LeagueIDPenya, UserID: "user-marcos",
		Matchday: 1, FixtureID: 9001, Market: "Resultado final", Label: "Ganará Real Madrid",
		Odd: 2.5, Amount: 10, Status: bet.StatusPending,
	}); err != nil {
		t.Fatalf("seed bet: %v", err)
	}

	previews, err := fx.svc.PreviewBets(ctx, memory.LeagueIDPenya, 1)
	if err != nil {
		t.Fatalf("PreviewBets: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("preview count: got=%d want=1", len(previews))
	}
	if previews[0].Outcome != bet.StatusWon || !previews[0].Resolved {
		t.Fatalf("preview verdict: %+v", previews[0])
	}

	stored, _, _ := fx.betRepo.GetByID(ctx, "bet-1")
	if stored.Status != bet.StatusPending {
		t.Fatalf("preview must not persist status: %s", stored.Status)
	}
}

func TestMatchdayService_SettleAllLeagues_IsolatesFailures(t *testing.T) {
	fx := newSettlementFixture(t, settlementGateway(), nil, realMadridEleven())
	ctx := t.Context()

	results, err := fx.svc.SettleAllLeagues(ctx, 0)
	if err != nil {
		t.Fatalf("SettleAllLeagues: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("league results: got=%d want=2", len(results))
	}
	for _, item := range results {
		if item.Error != "" {
			t.Fatalf("league %s failed: %s", item.LeagueID, item.Error)
		}
		if item.Summary == nil {
			t.Fatalf("league %s missing summary", item.LeagueID)
		}
	}
}
