package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/playerstats"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
	"github.com/marcosfdz/jornadabet/internal/platform/cache"
	"github.com/marcosfdz/jornadabet/internal/platform/logging"
)

// PlayerStatsService resolves a player's raw match statistics and fantasy
// score for one matchday. Stored rows act as a durable cache: once computed
// they are served as-is unless the caller forces a refresh. Provider round
// payloads are additionally cached in-process so settling a whole league does
// not refetch the same fixtures per player.
type PlayerStatsService struct {
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	gateway    FootballGateway
	calc       scoring.Calculator
	responses  *cache.Store
	logger     *logging.Logger

	competitionRefID int64
	now              func() time.Time
}

func NewPlayerStatsService(
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	gateway FootballGateway,
	calc scoring.Calculator,
	responses *cache.Store,
	competitionRefID int64,
	logger *logging.Logger,
) *PlayerStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerStatsService{
		playerRepo:       playerRepo,
		statsRepo:        statsRepo,
		gateway:          gateway,
		calc:             calc,
		responses:        responses,
		logger:           logger,
		competitionRefID: competitionRefID,
		now:              time.Now,
	}
}

func (s *PlayerStatsService) GetOrCompute(ctx context.Context, playerID int64, matchday int, season string, force bool) (playerstats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.GetOrCompute")
	defer span.End()

	if playerID <= 0 {
		return playerstats.PlayerStats{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if matchday < 1 || matchday > league.TotalMatchdays {
		return playerstats.PlayerStats{}, fmt.Errorf("%w: matchday out of range: %d", ErrInvalidInput, matchday)
	}
	if season == "" {
		return playerstats.PlayerStats{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	key := playerstats.Key{PlayerID: playerID, Matchday: matchday, Season: season}
	stored, hasStored, err := s.statsRepo.Get(ctx, key)
	if err != nil {
		return playerstats.PlayerStats{}, fmt.Errorf("get stored player stats: %w", err)
	}
	if hasStored && !force {
		return stored, nil
	}

	subject, found, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return playerstats.PlayerStats{}, fmt.Errorf("get player: %w", err)
	}
	if !found {
		return playerstats.PlayerStats{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	match, matchFound, err := s.roundFixtureForTeam(ctx, season, matchday, subject)
	if err != nil {
		return playerstats.PlayerStats{}, err
	}
	if !matchFound {
		// Team idle this round (postponement, bye). Zero is the truth here,
		// but never wipe real data on a forced recompute.
		if preserved, ok := preserveStored(stored, hasStored, force); ok {
			return preserved, nil
		}
		return s.persist(ctx, subject, matchday, season, 0, subject.TeamID, scoring.RawStats{})
	}

	lines, err := s.fixtureLines(ctx, match.ExternalID)
	if err != nil {
		return playerstats.PlayerStats{}, err
	}

	line, lineFound := findPlayerLine(lines, subject)
	if !lineFound {
		if preserved, ok := preserveStored(stored, hasStored, force); ok {
			return preserved, nil
		}
		return s.persist(ctx, subject, matchday, season, match.ExternalID, subject.TeamID, scoring.RawStats{})
	}

	raw := line.Raw
	raw.MinutesPlayed = s.normalizeMinutes(ctx, match.ExternalID, subject.ID, raw.MinutesPlayed)

	// Defenders are scored against the whole team's conceded count; the
	// provider's per-player conceded field only tracks keepers.
	if subject.Position == player.PositionDefender {
		raw.GoalsConceded = teamConceded(match, line.TeamExternalID)
	}

	return s.persist(ctx, subject, matchday, season, match.ExternalID, line.TeamExternalID, raw)
}

func (s *PlayerStatsService) persist(ctx context.Context, subject player.Player, matchday int, season string, fixtureID, teamID int64, raw scoring.RawStats) (playerstats.PlayerStats, error) {
	score := s.calc.Calculate(raw, subject.Position)

	stats := playerstats.PlayerStats{
		PlayerID:    subject.ID,
		Matchday:    matchday,
		Season:      season,
		FixtureID:   fixtureID,
		TeamID:      teamID,
		Raw:         raw,
		TotalPoints: score.Total,
		Breakdown:   score.Breakdown,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return playerstats.PlayerStats{}, fmt.Errorf("upsert player stats: %w", err)
	}
	if err := s.playerRepo.UpdateLastMatchdayPoints(ctx, subject.ID, matchday, score.Total); err != nil {
		return playerstats.PlayerStats{}, fmt.Errorf("update player last matchday points: %w", err)
	}

	return stats, nil
}

// preserveStored keeps existing non-zero data when a forced recompute cannot
// find the player in the provider payload anymore.
func preserveStored(stored playerstats.PlayerStats, hasStored, force bool) (playerstats.PlayerStats, bool) {
	if force && hasStored && (stored.TotalPoints != 0 || stored.Raw.MinutesPlayed > 0) {
		return stored, true
	}
	return playerstats.PlayerStats{}, false
}

func (s *PlayerStatsService) roundFixtureForTeam(ctx context.Context, season string, matchday int, subject player.Player) (ExternalFixtureResult, bool, error) {
	cacheKey := "fixtures:" + season + ":" + strconv.Itoa(matchday)
	loaded, err := s.responses.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return s.gateway.FetchRoundFixtures(ctx, s.competitionRefID, season, matchday)
	})
	if err != nil {
		return ExternalFixtureResult{}, false, fmt.Errorf("fetch round fixtures matchday=%d: %w", matchday, err)
	}
	fixtures, ok := loaded.([]ExternalFixtureResult)
	if !ok {
		return ExternalFixtureResult{}, false, fmt.Errorf("unexpected cached fixtures type %T", loaded)
	}

	for _, item := range fixtures {
		if item.HomeTeamID == subject.TeamID || item.AwayTeamID == subject.TeamID {
			return item, true, nil
		}
	}

	// External team IDs occasionally drift between provider snapshots; fall
	// back to the curated team name.
	wanted := player.NormalizeName(subject.TeamName)
	if wanted != "" {
		for _, item := range fixtures {
			if player.NormalizeName(item.HomeTeamName) == wanted || player.NormalizeName(item.AwayTeamName) == wanted {
				return item, true, nil
			}
		}
	}

	return ExternalFixtureResult{}, false, nil
}

func (s *PlayerStatsService) fixtureLines(ctx context.Context, fixtureID int64) ([]ExternalPlayerLine, error) {
	cacheKey := "lines:" + strconv.FormatInt(fixtureID, 10)
	loaded, err := s.responses.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return s.gateway.FetchFixturePlayerLines(ctx, fixtureID)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture player lines fixture=%d: %w", fixtureID, err)
	}
	lines, ok := loaded.([]ExternalPlayerLine)
	if !ok {
		return nil, fmt.Errorf("unexpected cached player lines type %T", loaded)
	}
	return lines, nil
}

func (s *PlayerStatsService) fixtureEvents(ctx context.Context, fixtureID int64) ([]ExternalFixtureEvent, error) {
	cacheKey := "events:" + strconv.FormatInt(fixtureID, 10)
	loaded, err := s.responses.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return s.gateway.FetchFixtureEvents(ctx, fixtureID)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture events fixture=%d: %w", fixtureID, err)
	}
	events, ok := loaded.([]ExternalFixtureEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected cached events type %T", loaded)
	}
	return events, nil
}

func findPlayerLine(lines []ExternalPlayerLine, subject player.Player) (ExternalPlayerLine, bool) {
	for _, line := range lines {
		if line.PlayerExternalID == subject.ID {
			return line, true
		}
	}

	wanted := player.NormalizeName(subject.Name)
	if wanted != "" {
		for _, line := range lines {
			if player.NormalizeName(line.PlayerName) == wanted {
				return line, true
			}
		}
	}

	// Last resort for keepers: the keeper who actually played is the one on
	// the pitch for this team, whatever his listed ID or name.
	if subject.Position == player.PositionGoalkeeper {
		for _, line := range lines {
			if line.TeamExternalID != subject.TeamID {
				continue
			}
			if player.NormalizePosition(line.Position) == player.PositionGoalkeeper && line.Raw.MinutesPlayed > 0 {
				return line, true
			}
		}
	}

	return ExternalPlayerLine{}, false
}

// normalizeMinutes corrects the provider's raw minute count using the match
// timeline. Stoppage time pushes reported minutes past 90; substitutes who
// barely touched the pitch sometimes report 0. An unused substitute, listed
// in the payload with 0 minutes and no substitution event, stays at 0.
func (s *PlayerStatsService) normalizeMinutes(ctx context.Context, fixtureID, playerID int64, minutes int) int {
	events, err := s.fixtureEvents(ctx, fixtureID)
	if err != nil {
		s.logger.WarnContext(ctx, "fixture events unavailable, clamping raw minutes",
			"fixture_id", fixtureID, "player_id", playerID, "error", err)
		return clampMinutes(minutes)
	}

	subbedOn := false
	for _, event := range events {
		if event.EventType != "subst" {
			continue
		}
		switch playerID {
		case event.PlayerExternalID:
			// Subbed off at the elapsed minute.
			if event.Minute > 0 {
				minutes = event.Minute
			}
		case event.AssistPlayerExternalID:
			// Subbed on; played the remainder.
			subbedOn = true
			if event.Minute > 0 && event.Minute < 90 {
				minutes = 90 - event.Minute
			}
		}
	}

	if minutes <= 0 && !subbedOn {
		return 0
	}
	return clampMinutes(minutes)
}

func clampMinutes(minutes int) int {
	if minutes > 90 {
		return 90
	}
	if minutes < 1 {
		return 1
	}
	return minutes
}

func teamConceded(match ExternalFixtureResult, teamID int64) int {
	if teamID == match.AwayTeamID {
		return match.HomeGoals
	}
	return match.AwayGoals
}
