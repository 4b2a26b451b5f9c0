package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
	"github.com/marcosfdz/jornadabet/internal/platform/logging"
	"github.com/marcosfdz/jornadabet/internal/platform/resilience"
	"github.com/marcosfdz/jornadabet/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 6 << 20
)

var errFootballDataTransient = crerr.New("football data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchRoundFixtures(ctx context.Context, leagueRefID int64, season string, round int) ([]usecase.ExternalFixtureResult, error) {
	if leagueRefID <= 0 {
		return nil, fmt.Errorf("league ref id must be greater than zero")
	}
	if round < 1 {
		return nil, fmt.Errorf("round must be greater than zero")
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueRefID, 10),
		"season": strings.TrimSpace(season),
		"round":  fmt.Sprintf("Regular Season - %d", round),
	}

	env, err := c.doJSON(ctx, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch round fixtures league=%d round=%d: %w", leagueRefID, round, err)
	}

	var items []fixtureItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("decode fixtures payload: %w", err)
	}

	out := make([]usecase.ExternalFixtureResult, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalFixtureResult{
			ExternalID:   item.Fixture.ID,
			Round:        parseRound(item.League.Round, round),
			Season:       season,
			HomeTeamID:   item.Teams.Home.ID,
			AwayTeamID:   item.Teams.Away.ID,
			HomeTeamName: strings.TrimSpace(item.Teams.Home.Name),
			AwayTeamName: strings.TrimSpace(item.Teams.Away.Name),
			HomeGoals:    intValue(item.Goals.Home),
			AwayGoals:    intValue(item.Goals.Away),
			Status:       strings.ToUpper(strings.TrimSpace(item.Fixture.Status.Short)),
			KickoffAt:    parseKickoff(item.Fixture.Date),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func (c *Client) FetchFixtureStatistics(ctx context.Context, fixtureID int64) (usecase.ExternalFixtureStats, error) {
	if fixtureID <= 0 {
		return usecase.ExternalFixtureStats{}, fmt.Errorf("fixture id must be greater than zero")
	}

	env, err := c.doJSON(ctx, "/fixtures/statistics", map[string]string{"fixture": strconv.FormatInt(fixtureID, 10)})
	if err != nil {
		return usecase.ExternalFixtureStats{}, fmt.Errorf("fetch fixture statistics fixture=%d: %w", fixtureID, err)
	}

	var items []teamStatisticsItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return usecase.ExternalFixtureStats{}, fmt.Errorf("decode fixture statistics payload: %w", err)
	}

	stats := usecase.ExternalFixtureStats{FixtureExternalID: fixtureID}
	for idx, item := range items {
		line := mapTeamLine(item)
		// The provider lists the home side first.
		if idx == 0 {
			stats.Home = line
		} else {
			stats.Away = line
		}
	}

	return stats, nil
}

func (c *Client) FetchFixturePlayerLines(ctx context.Context, fixtureID int64) ([]usecase.ExternalPlayerLine, error) {
	if fixtureID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	env, err := c.doJSON(ctx, "/fixtures/players", map[string]string{"fixture": strconv.FormatInt(fixtureID, 10)})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture player lines fixture=%d: %w", fixtureID, err)
	}

	var items []playerLinesItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("decode fixture player lines payload: %w", err)
	}

	out := make([]usecase.ExternalPlayerLine, 0, 32)
	for _, teamBlock := range items {
		for _, row := range teamBlock.Players {
			if row.Player.ID <= 0 || len(row.Statistics) == 0 {
				continue
			}
			line := row.Statistics[0]
			out = append(out, usecase.ExternalPlayerLine{
				FixtureExternalID: fixtureID,
				TeamExternalID:    teamBlock.Team.ID,
				PlayerExternalID:  row.Player.ID,
				PlayerName:        strings.TrimSpace(row.Player.Name),
				Position:          strings.TrimSpace(line.Games.Position),
				Raw:               mapRawStats(line),
			})
		}
	}

	return out, nil
}

func (c *Client) FetchFixtureEvents(ctx context.Context, fixtureID int64) ([]usecase.ExternalFixtureEvent, error) {
	if fixtureID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	env, err := c.doJSON(ctx, "/fixtures/events", map[string]string{"fixture": strconv.FormatInt(fixtureID, 10)})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture events fixture=%d: %w", fixtureID, err)
	}

	var items []eventItem
	if err := sonic.Unmarshal(env.Response, &items); err != nil {
		return nil, fmt.Errorf("decode fixture events payload: %w", err)
	}

	out := make([]usecase.ExternalFixtureEvent, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.ExternalFixtureEvent{
			FixtureExternalID:      fixtureID,
			TeamExternalID:         item.Team.ID,
			PlayerExternalID:       item.Player.ID,
			AssistPlayerExternalID: item.Assist.ID,
			EventType:              strings.TrimSpace(item.Type),
			Detail:                 strings.TrimSpace(item.Detail),
			Minute:                 item.Time.Elapsed,
			ExtraMinute:            intValue(item.Time.Extra),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string) (envelope, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football data circuit breaker rejected request", "state", c.breaker.State())
			return envelope{}, fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return envelope{}, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return envelope{}, fmt.Errorf("unexpected response payload type %T", out)
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("decode provider envelope: %w", err)
	}
	if text := envelopeErrorText(env.Errors); text != "" {
		return envelope{}, fmt.Errorf("provider reported errors: %s", text)
	}

	return env, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
				// Bad or expired key. Retrying burns quota for nothing.
				return nil, fmt.Errorf("%w: provider status=%d body=%s", usecase.ErrGatewayForbidden, resp.StatusCode, abbreviateBody(raw))
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapTeamLine(item teamStatisticsItem) usecase.ExternalTeamLine {
	line := usecase.ExternalTeamLine{
		TeamExternalID: item.Team.ID,
		TeamName:       strings.TrimSpace(item.Team.Name),
	}
	for _, stat := range item.Statistics {
		switch strings.ToLower(strings.TrimSpace(stat.Type)) {
		case "corner kicks", "corners":
			line.Corners = statisticInt(stat.Value)
		case "yellow cards":
			line.YellowCards = statisticInt(stat.Value)
		case "red cards":
			line.RedCards = statisticInt(stat.Value)
		case "fouls":
			line.Fouls = statisticInt(stat.Value)
		case "offsides":
			line.Offsides = statisticInt(stat.Value)
		}
	}
	return line
}

func mapRawStats(line playerStatisticLine) scoring.RawStats {
	return scoring.RawStats{
		MinutesPlayed:      intValue(line.Games.Minutes),
		Goals:              intValue(line.Goals.Total),
		Assists:            intValue(line.Goals.Assists),
		GoalsConceded:      intValue(line.Goals.Conceded),
		Saves:              intValue(line.Goals.Saves),
		PenaltiesSaved:     intValue(line.Penalty.Saved),
		PenaltiesWon:       intValue(line.Penalty.Won),
		PenaltiesCommitted: intValue(line.Penalty.Commited),
		PenaltiesScored:    intValue(line.Penalty.Scored),
		PenaltiesMissed:    intValue(line.Penalty.Missed),
		YellowCards:        intValue(line.Cards.Yellow),
		RedCards:           intValue(line.Cards.Red),
		ShotsOnTarget:      intValue(line.Shots.On),
		KeyPasses:          intValue(line.Passes.Key),
		DuelsWon:           intValue(line.Duels.Won),
		Interceptions:      intValue(line.Tackles.Interceptions),
		DribblesSucceeded:  intValue(line.Dribbles.Success),
		FoulsDrawn:         intValue(line.Fouls.Drawn),
		Rating:             parseRating(line.Games.Rating),
	}
}

func envelopeErrorText(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	switch text {
	case "", "[]", "{}", "null":
		return ""
	}
	var byReason map[string]string
	if err := sonic.Unmarshal(raw, &byReason); err == nil && len(byReason) > 0 {
		parts := make([]string, 0, len(byReason))
		for reason, message := range byReason {
			parts = append(parts, reason+": "+message)
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return abbreviateBody(raw)
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" || key == "" {
		return value
	}
	return strings.ReplaceAll(value, key, "REDACTED")
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFootballDataTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
