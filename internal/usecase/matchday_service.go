package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	ants "github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
	"github.com/marcosfdz/jornadabet/internal/domain/fixture"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/domain/squad"
	"github.com/marcosfdz/jornadabet/internal/platform/cache"
	"github.com/marcosfdz/jornadabet/internal/platform/logging"
)

const (
	defaultBettingBudgetReset = 250
	defaultGatewayCallDelay   = 300 * time.Millisecond
	defaultStatsWorkers       = 1
	bulkStatusWorkers         = 8
)

// MatchdaySettings tunes the settlement pipeline. The defaults keep the
// provider-friendly sequential behavior: one stats worker and a small pause
// between uncached gateway calls.
type MatchdaySettings struct {
	BettingBudgetReset int
	GatewayCallDelay   time.Duration
	StatsWorkers       int
}

func normalizeMatchdaySettings(cfg MatchdaySettings) MatchdaySettings {
	if cfg.BettingBudgetReset <= 0 {
		cfg.BettingBudgetReset = defaultBettingBudgetReset
	}
	if cfg.GatewayCallDelay < 0 {
		cfg.GatewayCallDelay = defaultGatewayCallDelay
	}
	if cfg.StatsWorkers < 1 {
		cfg.StatsWorkers = defaultStatsWorkers
	}
	return cfg
}

// MatchdayService owns the matchday lifecycle of every league: locking,
// unlocking and the settlement pipeline that turns a finished round into
// points, balances and a clean slate for the next one.
type MatchdayService struct {
	leagueRepo league.Repository
	memberRepo league.MemberRepository
	markRepo   league.SettlementMarkRepository
	betRepo    bet.Repository
	squadRepo  squad.Repository
	statsSvc   *PlayerStatsService
	gateway    FootballGateway
	responses  *cache.Store
	logger     *logging.Logger
	cfg        MatchdaySettings
	now        func() time.Time

	mu            sync.Mutex
	leagueLocks   map[string]*sync.Mutex
	competitionID int64
}

func NewMatchdayService(
	leagueRepo league.Repository,
	memberRepo league.MemberRepository,
	markRepo league.SettlementMarkRepository,
	betRepo bet.Repository,
	squadRepo squad.Repository,
	statsSvc *PlayerStatsService,
	gateway FootballGateway,
	responses *cache.Store,
	competitionID int64,
	cfg MatchdaySettings,
	logger *logging.Logger,
) *MatchdayService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchdayService{
		leagueRepo:    leagueRepo,
		memberRepo:    memberRepo,
		markRepo:      markRepo,
		betRepo:       betRepo,
		squadRepo:     squadRepo,
		statsSvc:      statsSvc,
		gateway:       gateway,
		responses:     responses,
		logger:        logger,
		cfg:           normalizeMatchdaySettings(cfg),
		now:           time.Now,
		leagueLocks:   make(map[string]*sync.Mutex),
		competitionID: competitionID,
	}
}

// leagueLock serializes settlement per league. Settling two different leagues
// concurrently is fine; the same league twice is not.
func (s *MatchdayService) leagueLock(leagueID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.leagueLocks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		s.leagueLocks[leagueID] = lock
	}
	return lock
}

type MatchdayView struct {
	LeagueID        string                `json:"leagueId"`
	LeagueName      string                `json:"leagueName"`
	CurrentMatchday int                   `json:"currentMatchday"`
	Status          league.MatchdayStatus `json:"status"`
}

func (s *MatchdayService) MatchdayStatus(ctx context.Context, leagueID string) (MatchdayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.MatchdayStatus")
	defer span.End()

	current, err := s.requireLeague(ctx, leagueID)
	if err != nil {
		return MatchdayView{}, err
	}

	return MatchdayView{
		LeagueID:        current.ID,
		LeagueName:      current.Name,
		CurrentMatchday: current.CurrentMatchday,
		Status:          current.MatchdayStatus,
	}, nil
}

// LockMatchday suspends betting and squad edits for the league. Idempotent.
func (s *MatchdayService) LockMatchday(ctx context.Context, leagueID string) (MatchdayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.LockMatchday")
	defer span.End()

	return s.setMatchdayStatus(ctx, leagueID, league.MatchdayLocked)
}

// UnlockMatchday reopens betting and squad edits. Idempotent.
func (s *MatchdayService) UnlockMatchday(ctx context.Context, leagueID string) (MatchdayView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.UnlockMatchday")
	defer span.End()

	return s.setMatchdayStatus(ctx, leagueID, league.MatchdayOpen)
}

func (s *MatchdayService) setMatchdayStatus(ctx context.Context, leagueID string, status league.MatchdayStatus) (MatchdayView, error) {
	current, err := s.requireLeague(ctx, leagueID)
	if err != nil {
		return MatchdayView{}, err
	}

	if current.MatchdayStatus != status {
		if err := s.leagueRepo.UpdateMatchdayStatus(ctx, leagueID, status); err != nil {
			return MatchdayView{}, fmt.Errorf("update matchday status: %w", err)
		}
		current.MatchdayStatus = status
	}

	return MatchdayView{
		LeagueID:        current.ID,
		LeagueName:      current.Name,
		CurrentMatchday: current.CurrentMatchday,
		Status:          current.MatchdayStatus,
	}, nil
}

type BulkStatusResult struct {
	Total   int `json:"total"`
	Changed int `json:"changed"`
}

// LockAllLeagues flips every league to locked. Pure datastore work, so it
// fans out across a bounded goroutine pool.
func (s *MatchdayService) LockAllLeagues(ctx context.Context) (BulkStatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.LockAllLeagues")
	defer span.End()

	return s.setAllMatchdayStatus(ctx, league.MatchdayLocked)
}

func (s *MatchdayService) UnlockAllLeagues(ctx context.Context) (BulkStatusResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.UnlockAllLeagues")
	defer span.End()

	return s.setAllMatchdayStatus(ctx, league.MatchdayOpen)
}

func (s *MatchdayService) setAllMatchdayStatus(ctx context.Context, status league.MatchdayStatus) (BulkStatusResult, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return BulkStatusResult{}, fmt.Errorf("list leagues: %w", err)
	}

	var changed int
	var changedMu sync.Mutex

	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(bulkStatusWorkers)
	for _, item := range leagues {
		item := item
		workers.Go(func(ctx context.Context) error {
			if item.MatchdayStatus == status {
				return nil
			}
			if err := s.leagueRepo.UpdateMatchdayStatus(ctx, item.ID, status); err != nil {
				return fmt.Errorf("update matchday status league=%s: %w", item.ID, err)
			}
			changedMu.Lock()
			changed++
			changedMu.Unlock()
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return BulkStatusResult{}, err
	}

	return BulkStatusResult{Total: len(leagues), Changed: changed}, nil
}

// BetPreview is the realtime, read-only view of a pending bet against current
// fixture data. Nothing is persisted.
type BetPreview struct {
	Bet         bet.Bet    `json:"bet"`
	Outcome     bet.Status `json:"outcome"`
	Resolved    bool       `json:"resolved"`
	NeedsReview bool       `json:"needsReview,omitempty"`
}

func (s *MatchdayService) PreviewBets(ctx context.Context, leagueID string, matchday int) ([]BetPreview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.PreviewBets")
	defer span.End()

	current, err := s.requireLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if matchday < 1 || matchday > league.TotalMatchdays {
		return nil, fmt.Errorf("%w: matchday out of range: %d", ErrInvalidInput, matchday)
	}

	pending, err := s.betRepo.ListPending(ctx, leagueID, matchday)
	if err != nil {
		return nil, fmt.Errorf("list pending bets: %w", err)
	}
	if len(pending) == 0 {
		return []BetPreview{}, nil
	}

	results, err := s.roundResults(ctx, current.Season, matchday)
	if err != nil {
		return nil, err
	}

	out := make([]BetPreview, 0, len(pending))
	for _, item := range pending {
		result, ok := results[item.FixtureID]
		if !ok {
			out = append(out, BetPreview{Bet: item, Outcome: bet.StatusPending})
			continue
		}

		stats, err := s.fixtureStats(ctx, item, result)
		if err != nil {
			s.logger.WarnContext(ctx, "bet preview stats unavailable",
				"bet_id", item.ID, "fixture_id", item.FixtureID, "error", err)
			out = append(out, BetPreview{Bet: item, Outcome: bet.StatusPending})
			continue
		}

		verdict := bet.Evaluate(item, result, stats)
		preview := BetPreview{Bet: item, Outcome: bet.StatusPending, Resolved: verdict.Resolved, NeedsReview: verdict.NeedsReview}
		if verdict.Resolved {
			preview.Outcome = bet.StatusLost
			if verdict.Won {
				preview.Outcome = bet.StatusWon
			}
		}
		out = append(out, preview)
	}

	return out, nil
}

// SettlementSummary reports what one settlement run did, step by step.
type SettlementSummary struct {
	LeagueID          string `json:"leagueId"`
	Matchday          int    `json:"matchday"`
	BetsEvaluated     int    `json:"betsEvaluated"`
	BetsWon           int    `json:"betsWon"`
	BetsLost          int    `json:"betsLost"`
	BetsStillPending  int    `json:"betsStillPending"`
	BetsNeedingReview int    `json:"betsNeedingReview"`
	CombisSettled     int    `json:"combisSettled"`
	MembersUpdated    int    `json:"membersUpdated"`
	BudgetsApplied    bool   `json:"budgetsApplied"`
	SquadsCleared     int    `json:"squadsCleared"`
	BetsPurged        int    `json:"betsPurged"`
	CombisPurged      int    `json:"combisPurged"`
	NextMatchday      int    `json:"nextMatchday"`
}

// SettleMatchday runs the end-of-round pipeline for one league:
//
//  1. evaluate and persist pending single bets
//  2. evaluate combis from their settled legs
//  3. aggregate settled balances per member, singles and combis alike
//  4. compute squad fantasy points (full lineups only)
//  5. apply balances and points to budgets, reset betting budgets, mark the
//     round
//  6. clear squads
//  7. purge settled bets and combis
//
// Per-item failures are logged and skipped; failures before step 5 abort the
// run so the destructive steps never follow a half-evaluated round.
func (s *MatchdayService) SettleMatchday(ctx context.Context, leagueID string, matchday int) (SettlementSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.SettleMatchday")
	defer span.End()

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.requireLeague(ctx, leagueID)
	if err != nil {
		return SettlementSummary{}, err
	}
	if matchday == 0 {
		matchday = current.CurrentMatchday
	}
	if matchday < 1 || matchday > league.TotalMatchdays {
		return SettlementSummary{}, fmt.Errorf("%w: matchday out of range: %d", ErrInvalidInput, matchday)
	}

	if current.MatchdayStatus != league.MatchdayLocked {
		if err := s.leagueRepo.UpdateMatchdayStatus(ctx, leagueID, league.MatchdayLocked); err != nil {
			return SettlementSummary{}, fmt.Errorf("lock league for settlement: %w", err)
		}
	}

	summary := SettlementSummary{LeagueID: leagueID, Matchday: matchday}

	results, err := s.roundResults(ctx, current.Season, matchday)
	if err != nil {
		return summary, err
	}

	if err := s.settleBets(ctx, leagueID, matchday, results, &summary); err != nil {
		return summary, err
	}
	if err := s.settleCombis(ctx, leagueID, matchday, &summary); err != nil {
		return summary, err
	}

	profits, err := s.aggregateBetProfits(ctx, leagueID, matchday)
	if err != nil {
		return summary, err
	}

	squadPoints, err := s.computeSquadPoints(ctx, current, matchday)
	if err != nil {
		return summary, err
	}

	applied, updated, err := s.applyBudgets(ctx, leagueID, matchday, profits, squadPoints)
	if err != nil {
		return summary, err
	}
	summary.BudgetsApplied = applied
	summary.MembersUpdated = updated

	cleared, err := s.squadRepo.ClearLeague(ctx, leagueID)
	if err != nil {
		return summary, fmt.Errorf("clear squads: %w", err)
	}
	summary.SquadsCleared = cleared

	purgedBets, err := s.betRepo.DeleteSettled(ctx, leagueID, matchday)
	if err != nil {
		return summary, fmt.Errorf("purge settled bets: %w", err)
	}
	summary.BetsPurged = purgedBets

	purgedCombis, err := s.betRepo.DeleteSettledCombis(ctx, leagueID, matchday)
	if err != nil {
		return summary, fmt.Errorf("purge settled combis: %w", err)
	}
	summary.CombisPurged = purgedCombis

	next := matchday + 1
	if next > league.TotalMatchdays {
		next = league.TotalMatchdays
	}
	if next != current.CurrentMatchday {
		if err := s.leagueRepo.UpdateCurrentMatchday(ctx, leagueID, next); err != nil {
			return summary, fmt.Errorf("advance current matchday: %w", err)
		}
	}
	if err := s.leagueRepo.UpdateMatchdayStatus(ctx, leagueID, league.MatchdayOpen); err != nil {
		return summary, fmt.Errorf("reopen league after settlement: %w", err)
	}
	summary.NextMatchday = next

	s.logger.InfoContext(ctx, "matchday settled",
		"league_id", leagueID,
		"matchday", matchday,
		"bets_evaluated", summary.BetsEvaluated,
		"combis_settled", summary.CombisSettled,
		"members_updated", summary.MembersUpdated,
		"budgets_applied", summary.BudgetsApplied,
	)
	return summary, nil
}

type LeagueSettlement struct {
	LeagueID string             `json:"leagueId"`
	Summary  *SettlementSummary `json:"summary,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// SettleAllLeagues settles every league sequentially at its own current
// matchday (or the given one when non-zero). One league failing never stops
// the rest; each result stays attributable.
func (s *MatchdayService) SettleAllLeagues(ctx context.Context, matchday int) ([]LeagueSettlement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.SettleAllLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	sort.SliceStable(leagues, func(i, j int) bool { return leagues[i].ID < leagues[j].ID })

	out := make([]LeagueSettlement, 0, len(leagues))
	for _, item := range leagues {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		target := matchday
		if target == 0 {
			target = item.CurrentMatchday
		}
		summary, err := s.SettleMatchday(ctx, item.ID, target)
		if err != nil {
			s.logger.ErrorContext(ctx, "league settlement failed",
				"league_id", item.ID, "matchday", target, "error", err)
			out = append(out, LeagueSettlement{LeagueID: item.ID, Error: err.Error()})
			continue
		}
		out = append(out, LeagueSettlement{LeagueID: item.ID, Summary: &summary})
	}

	return out, nil
}

func (s *MatchdayService) settleBets(ctx context.Context, leagueID string, matchday int, results map[int64]fixture.Result, summary *SettlementSummary) error {
	pending, err := s.betRepo.ListPending(ctx, leagueID, matchday)
	if err != nil {
		return fmt.Errorf("list pending bets: %w", err)
	}

	for _, item := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		summary.BetsEvaluated++

		result, ok := results[item.FixtureID]
		if !ok {
			summary.BetsStillPending++
			continue
		}
		if !result.Finished() {
			summary.BetsStillPending++
			continue
		}

		stats, err := s.fixtureStats(ctx, item, result)
		if err != nil {
			s.logger.WarnContext(ctx, "skip bet, fixture stats unavailable",
				"bet_id", item.ID, "fixture_id", item.FixtureID, "error", err)
			summary.BetsStillPending++
			continue
		}

		verdict := bet.Evaluate(item, result, stats)
		if !verdict.Resolved {
			summary.BetsStillPending++
			continue
		}
		if verdict.NeedsReview {
			summary.BetsNeedingReview++
			s.logger.WarnContext(ctx, "bet label could not be parsed, resolving as lost",
				"bet_id", item.ID, "market", item.Market, "label", item.Label)
		}

		status := bet.StatusLost
		if verdict.Won {
			status = bet.StatusWon
		}
		if err := s.betRepo.UpdateStatus(ctx, item.ID, status); err != nil {
			s.logger.ErrorContext(ctx, "persist bet status failed, leaving pending",
				"bet_id", item.ID, "error", err)
			summary.BetsStillPending++
			continue
		}
		if status == bet.StatusWon {
			summary.BetsWon++
		} else {
			summary.BetsLost++
		}
	}

	return nil
}

func (s *MatchdayService) settleCombis(ctx context.Context, leagueID string, matchday int, summary *SettlementSummary) error {
	combis, err := s.betRepo.ListCombis(ctx, leagueID, matchday)
	if err != nil {
		return fmt.Errorf("list combis: %w", err)
	}

	for _, item := range combis {
		settled, err := s.EvaluateCombi(ctx, item.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "combi evaluation failed, leaving pending",
				"combi_id", item.ID, "error", err)
			continue
		}
		if settled {
			summary.CombisSettled++
		}
	}

	return nil
}

// EvaluateCombi resolves a parlay from its already-settled legs: one lost leg
// loses the combi, all legs won wins it, anything pending keeps it pending.
// Evaluation only moves status; the payout lands in the owner's budget through
// the balance aggregation of the settlement run. The pending-status guard
// makes re-evaluation a no-op.
func (s *MatchdayService) EvaluateCombi(ctx context.Context, combiID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.EvaluateCombi")
	defer span.End()

	combi, found, err := s.betRepo.GetCombiByID(ctx, combiID)
	if err != nil {
		return false, fmt.Errorf("get combi: %w", err)
	}
	if !found {
		return false, fmt.Errorf("%w: combi %s", ErrNotFound, combiID)
	}
	if combi.Status != bet.StatusPending {
		return false, nil
	}

	legs, err := s.betRepo.ListCombiLegs(ctx, combiID)
	if err != nil {
		return false, fmt.Errorf("list combi legs: %w", err)
	}
	if len(legs) == 0 {
		return false, fmt.Errorf("%w: combi %s has no legs", ErrInvalidInput, combiID)
	}

	wonLegs := 0
	for _, leg := range legs {
		switch leg.Status {
		case bet.StatusLost:
			if err := s.betRepo.UpdateCombiStatus(ctx, combiID, bet.StatusLost); err != nil {
				return false, fmt.Errorf("mark combi lost: %w", err)
			}
			return true, nil
		case bet.StatusWon:
			wonLegs++
		}
	}
	if wonLegs < len(legs) {
		return false, nil
	}

	if err := s.betRepo.UpdateCombiStatus(ctx, combiID, bet.StatusWon); err != nil {
		return false, fmt.Errorf("mark combi won: %w", err)
	}
	return true, nil
}

// aggregateBetProfits sums settled balances per member: single bets plus
// settled parlays. Combi legs carry no stake, so the parlay row is the one
// that moves money.
func (s *MatchdayService) aggregateBetProfits(ctx context.Context, leagueID string, matchday int) (map[string]int, error) {
	all, err := s.betRepo.ListByMatchday(ctx, leagueID, matchday)
	if err != nil {
		return nil, fmt.Errorf("list bets for balance aggregation: %w", err)
	}

	profits := make(map[string]int)
	for _, item := range all {
		if item.CombiID != "" || !item.Settled() {
			continue
		}
		profits[item.UserID] += item.Profit()
	}

	combis, err := s.betRepo.ListCombis(ctx, leagueID, matchday)
	if err != nil {
		return nil, fmt.Errorf("list combis for balance aggregation: %w", err)
	}
	for _, item := range combis {
		if !item.Settled() {
			continue
		}
		profits[item.UserID] += item.Profit()
	}

	return profits, nil
}

// computeSquadPoints resolves each member's lineup score. Lineups below the
// minimum size score zero. Player stat lookups run on a bounded pool; the
// default single worker keeps gateway traffic sequential.
func (s *MatchdayService) computeSquadPoints(ctx context.Context, current league.League, matchday int) (map[string]int, error) {
	squads, err := s.squadRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}

	points := make(map[string]int, len(squads))
	if len(squads) == 0 {
		return points, nil
	}

	workers, err := ants.NewPool(s.cfg.StatsWorkers)
	if err != nil {
		return nil, fmt.Errorf("create stats worker pool: %w", err)
	}
	defer workers.Release()

	var pointsMu sync.Mutex
	var wg sync.WaitGroup
	for _, lineup := range squads {
		lineup := lineup
		if !lineup.Complete() {
			points[lineup.UserID] = 0
			continue
		}

		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			total := 0
			for _, member := range lineup.Players {
				stats, err := s.statsSvc.GetOrCompute(ctx, member.PlayerID, matchday, current.Season, false)
				if err != nil {
					s.logger.WarnContext(ctx, "player stats unavailable, counting zero",
						"league_id", current.ID, "user_id", lineup.UserID,
						"player_id", member.PlayerID, "error", err)
					continue
				}
				total += stats.TotalPoints
			}

			pointsMu.Lock()
			points[lineup.UserID] = total
			pointsMu.Unlock()
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit squad scoring task: %w", err)
		}
	}
	wg.Wait()

	return points, nil
}

// applyBudgets moves aggregated balances and squad points onto members and
// resets betting budgets. The settlement mark makes a retried run skip this
// step entirely so nothing is paid twice.
func (s *MatchdayService) applyBudgets(ctx context.Context, leagueID string, matchday int, profits, squadPoints map[string]int) (bool, int, error) {
	alreadySettled, err := s.markRepo.IsSettled(ctx, leagueID, matchday)
	if err != nil {
		return false, 0, fmt.Errorf("check settlement mark: %w", err)
	}
	if alreadySettled {
		s.logger.WarnContext(ctx, "budgets already applied for matchday, skipping",
			"league_id", leagueID, "matchday", matchday)
		return false, 0, nil
	}

	members, err := s.memberRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return false, 0, fmt.Errorf("list members: %w", err)
	}

	updated := 0
	for _, member := range members {
		earned := squadPoints[member.UserID]
		member.Points += earned
		if member.PointsByMatchday == nil {
			member.PointsByMatchday = make(map[int]int, league.TotalMatchdays)
		}
		member.PointsByMatchday[matchday] = earned
		// One fantasy point converts to one unit of budget currency; the new
		// budget becomes the member's baseline for the next round.
		member.Budget += profits[member.UserID] + earned
		member.InitialBudget = member.Budget
		member.BettingBudget = s.cfg.BettingBudgetReset

		if err := s.memberRepo.Save(ctx, member); err != nil {
			return false, updated, fmt.Errorf("save member %s: %w", member.UserID, err)
		}
		updated++
	}

	if err := s.markRepo.MarkSettled(ctx, leagueID, matchday, s.now().UTC()); err != nil {
		return false, updated, fmt.Errorf("write settlement mark: %w", err)
	}

	return true, updated, nil
}

func (s *MatchdayService) requireLeague(ctx context.Context, leagueID string) (league.League, error) {
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	current, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	return current, nil
}

// roundResults loads the round's fixtures through the shared response cache
// and indexes them by external fixture id.
func (s *MatchdayService) roundResults(ctx context.Context, season string, matchday int) (map[int64]fixture.Result, error) {
	cacheKey := "fixtures:" + season + ":" + strconv.Itoa(matchday)
	loaded, err := s.responses.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return s.gateway.FetchRoundFixtures(ctx, s.competitionID, season, matchday)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch round fixtures matchday=%d: %w", matchday, err)
	}
	external, ok := loaded.([]ExternalFixtureResult)
	if !ok {
		return nil, fmt.Errorf("unexpected cached fixtures type %T", loaded)
	}

	out := make(map[int64]fixture.Result, len(external))
	for _, item := range external {
		out[item.ExternalID] = fixture.Result{
			FixtureID:    item.ExternalID,
			Matchday:     item.Round,
			Season:       item.Season,
			HomeTeamID:   item.HomeTeamID,
			AwayTeamID:   item.AwayTeamID,
			HomeTeamName: item.HomeTeamName,
			AwayTeamName: item.AwayTeamName,
			HomeGoals:    item.HomeGoals,
			AwayGoals:    item.AwayGoals,
			Status:       item.Status,
			KickoffAt:    item.KickoffAt,
		}
	}

	return out, nil
}

// fixtureStats loads fixture statistics only for markets that need them.
// Uncached loads pause afterwards to stay under the provider's rate limit.
func (s *MatchdayService) fixtureStats(ctx context.Context, item bet.Bet, result fixture.Result) (fixture.Stats, error) {
	sel, err := bet.ParseSelection(item.Market, item.Label)
	if err == nil && sel.Stat != bet.StatCorners && sel.Stat != bet.StatCards {
		return fixture.Stats{FixtureID: result.FixtureID}, nil
	}

	cacheKey := "stats:" + strconv.FormatInt(result.FixtureID, 10)
	if cached, ok := s.responses.Get(ctx, cacheKey); ok {
		if stats, ok := cached.(fixture.Stats); ok {
			return stats, nil
		}
	}

	external, err := s.gateway.FetchFixtureStatistics(ctx, result.FixtureID)
	if err != nil {
		return fixture.Stats{}, err
	}
	stats := fixture.Stats{
		FixtureID: result.FixtureID,
		Home: fixture.TeamStats{
			TeamID:      external.Home.TeamExternalID,
			Corners:     external.Home.Corners,
			YellowCards: external.Home.YellowCards,
			RedCards:    external.Home.RedCards,
		},
		Away: fixture.TeamStats{
			TeamID:      external.Away.TeamExternalID,
			Corners:     external.Away.Corners,
			YellowCards: external.Away.YellowCards,
			RedCards:    external.Away.RedCards,
		},
	}
	s.responses.Set(ctx, cacheKey, stats)

	if s.cfg.GatewayCallDelay > 0 {
		timer := time.NewTimer(s.cfg.GatewayCallDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return stats, nil
		case <-timer.C:
		}
	}

	return stats, nil
}
