package usecase

import (
	"context"
	"fmt"

	"github.com/marcosfdz/jornadabet/internal/domain/bet"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/platform/id"
)

// BetService enforces the wagering rules: bets only while the matchday is
// open, stakes bounded by the betting budget, one single bet per fixture per
// member per matchday.
type BetService struct {
	leagueRepo league.Repository
	memberRepo league.MemberRepository
	betRepo    bet.Repository
	idGen      id.Generator
}

func NewBetService(
	leagueRepo league.Repository,
	memberRepo league.MemberRepository,
	betRepo bet.Repository,
	idGen id.Generator,
) *BetService {
	return &BetService{
		leagueRepo: leagueRepo,
		memberRepo: memberRepo,
		betRepo:    betRepo,
		idGen:      idGen,
	}
}

type PlaceBetInput struct {
	LeagueID  string
	UserID    string
	FixtureID int64
	Market    string
	Label     string
	Odd       float64
	Amount    int
}

func (s *BetService) PlaceBet(ctx context.Context, input PlaceBetInput) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.PlaceBet")
	defer span.End()

	current, member, err := s.requireOpenMembership(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return bet.Bet{}, err
	}
	if input.Amount <= 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet amount must be greater than zero", ErrInvalidInput)
	}
	if input.Amount > member.BettingBudget {
		return bet.Bet{}, fmt.Errorf("%w: stake %d exceeds budget %d", ErrInsufficientBudget, input.Amount, member.BettingBudget)
	}

	// The label must parse now, not at settlement time.
	if _, err := bet.ParseSelection(input.Market, input.Label); err != nil {
		return bet.Bet{}, fmt.Errorf("%w: unsupported market/label: %v", ErrInvalidInput, err)
	}

	existing, err := s.betRepo.ListByUser(ctx, input.LeagueID, input.UserID, current.CurrentMatchday)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("list existing bets: %w", err)
	}
	for _, item := range existing {
		if item.CombiID == "" && item.FixtureID == input.FixtureID {
			return bet.Bet{}, fmt.Errorf("%w: fixture %d", ErrDuplicateBet, input.FixtureID)
		}
	}

	betID, err := s.idGen.NewID()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("generate bet id: %w", err)
	}

	placed := bet.Bet{
		ID:           betID,
		LeagueID:     input.LeagueID,
		UserID:       input.UserID,
		Matchday:     current.CurrentMatchday,
		FixtureID:    input.FixtureID,
		Market:       input.Market,
		Label:        input.Label,
		Odd:          input.Odd,
		Amount:       input.Amount,
		PotentialWin: bet.PotentialWin(input.Amount, input.Odd),
		Status:       bet.StatusPending,
	}
	if err := placed.Validate(); err != nil {
		return bet.Bet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.memberRepo.DebitBettingBudget(ctx, input.LeagueID, input.UserID, input.Amount); err != nil {
		return bet.Bet{}, fmt.Errorf("debit betting budget: %w", err)
	}
	if err := s.betRepo.Create(ctx, placed); err != nil {
		return bet.Bet{}, fmt.Errorf("create bet: %w", err)
	}

	return placed, nil
}

type CombiLegInput struct {
	FixtureID int64
	Market    string
	Label     string
	Odd       float64
}

type PlaceCombiInput struct {
	LeagueID string
	UserID   string
	Amount   int
	Legs     []CombiLegInput
}

func (s *BetService) PlaceCombi(ctx context.Context, input PlaceCombiInput) (bet.Combi, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.PlaceCombi")
	defer span.End()

	current, member, err := s.requireOpenMembership(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return bet.Combi{}, err
	}
	if input.Amount <= 0 {
		return bet.Combi{}, fmt.Errorf("%w: combi amount must be greater than zero", ErrInvalidInput)
	}
	if input.Amount > member.BettingBudget {
		return bet.Combi{}, fmt.Errorf("%w: stake %d exceeds budget %d", ErrInsufficientBudget, input.Amount, member.BettingBudget)
	}
	if len(input.Legs) < 2 {
		return bet.Combi{}, fmt.Errorf("%w: a combi needs at least two legs", ErrInvalidInput)
	}

	totalOdd := 1.0
	seenFixtures := make(map[int64]struct{}, len(input.Legs))
	for _, leg := range input.Legs {
		if leg.Odd <= 1 {
			return bet.Combi{}, fmt.Errorf("%w: leg odd must be greater than one", ErrInvalidInput)
		}
		if _, dup := seenFixtures[leg.FixtureID]; dup {
			return bet.Combi{}, fmt.Errorf("%w: combi legs must target distinct fixtures", ErrInvalidInput)
		}
		seenFixtures[leg.FixtureID] = struct{}{}
		if _, err := bet.ParseSelection(leg.Market, leg.Label); err != nil {
			return bet.Combi{}, fmt.Errorf("%w: unsupported market/label: %v", ErrInvalidInput, err)
		}
		totalOdd *= leg.Odd
	}

	combiID, err := s.idGen.NewID()
	if err != nil {
		return bet.Combi{}, fmt.Errorf("generate combi id: %w", err)
	}

	combi := bet.Combi{
		ID:           combiID,
		LeagueID:     input.LeagueID,
		UserID:       input.UserID,
		Matchday:     current.CurrentMatchday,
		TotalOdd:     totalOdd,
		Amount:       input.Amount,
		PotentialWin: bet.PotentialWin(input.Amount, totalOdd),
		Status:       bet.StatusPending,
	}

	if err := s.memberRepo.DebitBettingBudget(ctx, input.LeagueID, input.UserID, input.Amount); err != nil {
		return bet.Combi{}, fmt.Errorf("debit betting budget: %w", err)
	}
	if err := s.betRepo.CreateCombi(ctx, combi); err != nil {
		return bet.Combi{}, fmt.Errorf("create combi: %w", err)
	}

	for _, leg := range input.Legs {
		legID, err := s.idGen.NewID()
		if err != nil {
			return bet.Combi{}, fmt.Errorf("generate combi leg id: %w", err)
		}
		// Legs stake nothing on their own; the parlay owns the money.
		row := bet.Bet{
			ID:        legID,
			LeagueID:  input.LeagueID,
			UserID:    input.UserID,
			Matchday:  current.CurrentMatchday,
			FixtureID: leg.FixtureID,
			Market:    leg.Market,
			Label:     leg.Label,
			Odd:       leg.Odd,
			Status:    bet.StatusPending,
			CombiID:   combiID,
		}
		if err := s.betRepo.Create(ctx, row); err != nil {
			return bet.Combi{}, fmt.Errorf("create combi leg: %w", err)
		}
	}

	return combi, nil
}

func (s *BetService) UpdateBetAmount(ctx context.Context, leagueID, userID, betID string, amount int) (bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.UpdateBetAmount")
	defer span.End()

	_, member, err := s.requireOpenMembership(ctx, leagueID, userID)
	if err != nil {
		return bet.Bet{}, err
	}
	if amount <= 0 {
		return bet.Bet{}, fmt.Errorf("%w: bet amount must be greater than zero", ErrInvalidInput)
	}

	current, err := s.requireOwnedPendingBet(ctx, leagueID, userID, betID)
	if err != nil {
		return bet.Bet{}, err
	}

	delta := amount - current.Amount
	if delta > member.BettingBudget {
		return bet.Bet{}, fmt.Errorf("%w: stake increase %d exceeds budget %d", ErrInsufficientBudget, delta, member.BettingBudget)
	}

	switch {
	case delta > 0:
		if err := s.memberRepo.DebitBettingBudget(ctx, leagueID, userID, delta); err != nil {
			return bet.Bet{}, fmt.Errorf("debit betting budget: %w", err)
		}
	case delta < 0:
		if err := s.memberRepo.CreditBettingBudget(ctx, leagueID, userID, -delta); err != nil {
			return bet.Bet{}, fmt.Errorf("refund betting budget: %w", err)
		}
	}

	current.Amount = amount
	current.PotentialWin = bet.PotentialWin(amount, current.Odd)
	if err := s.betRepo.UpdateAmount(ctx, betID, current.Amount, current.PotentialWin); err != nil {
		return bet.Bet{}, fmt.Errorf("update bet amount: %w", err)
	}

	return current, nil
}

func (s *BetService) DeleteBet(ctx context.Context, leagueID, userID, betID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.DeleteBet")
	defer span.End()

	if _, _, err := s.requireOpenMembership(ctx, leagueID, userID); err != nil {
		return err
	}

	current, err := s.requireOwnedPendingBet(ctx, leagueID, userID, betID)
	if err != nil {
		return err
	}

	if current.Amount > 0 {
		if err := s.memberRepo.CreditBettingBudget(ctx, leagueID, userID, current.Amount); err != nil {
			return fmt.Errorf("refund betting budget: %w", err)
		}
	}
	if err := s.betRepo.Delete(ctx, betID); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}

	return nil
}

func (s *BetService) ListUserBets(ctx context.Context, leagueID, userID string, matchday int) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BetService.ListUserBets")
	defer span.End()

	if leagueID == "" || userID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	bets, err := s.betRepo.ListByUser(ctx, leagueID, userID, matchday)
	if err != nil {
		return nil, fmt.Errorf("list user bets: %w", err)
	}
	return bets, nil
}

func (s *BetService) requireOpenMembership(ctx context.Context, leagueID, userID string) (league.League, league.Member, error) {
	if leagueID == "" {
		return league.League{}, league.Member{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if userID == "" {
		return league.League{}, league.Member{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	current, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, league.Member{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, league.Member{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if current.MatchdayStatus == league.MatchdayLocked {
		return league.League{}, league.Member{}, fmt.Errorf("%w: league %s", ErrMatchdayLocked, leagueID)
	}

	member, found, err := s.memberRepo.Get(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, league.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !found {
		return league.League{}, league.Member{}, fmt.Errorf("%w: user %s is not a member of league %s", ErrUnauthorized, userID, leagueID)
	}

	return current, member, nil
}

func (s *BetService) requireOwnedPendingBet(ctx context.Context, leagueID, userID, betID string) (bet.Bet, error) {
	if betID == "" {
		return bet.Bet{}, fmt.Errorf("%w: bet id is required", ErrInvalidInput)
	}

	current, found, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("get bet: %w", err)
	}
	if !found || current.LeagueID != leagueID {
		return bet.Bet{}, fmt.Errorf("%w: bet %s", ErrNotFound, betID)
	}
	if current.UserID != userID {
		return bet.Bet{}, fmt.Errorf("%w: bet %s belongs to another member", ErrUnauthorized, betID)
	}
	if current.Status != bet.StatusPending {
		return bet.Bet{}, fmt.Errorf("%w: bet %s", ErrBetNotEditable, betID)
	}
	if current.CombiID != "" {
		return bet.Bet{}, fmt.Errorf("%w: combi legs cannot be edited individually", ErrBetNotEditable)
	}

	return current, nil
}
