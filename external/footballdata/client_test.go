package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/marcosfdz/jornadabet/internal/platform/logging"
	"github.com/marcosfdz/jornadabet/internal/usecase"
)

const fixturesPayload = `{
	"get": "fixtures",
	"results": 1,
	"errors": [],
	"response": [
		{
			"fixture": {"id": 9001, "date": "2026-02-14T21:00:00+01:00", "status": {"short": "FT"}},
			"league": {"season": 2025, "round": "Regular Season - 24"},
			"teams": {"home": {"id": 541, "name": "Real Madrid"}, "away": {"id": 529, "name": "Barcelona"}},
			"goals": {"home": 2, "away": 1}
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
	})
	return client, server
}

func TestClient_FetchRoundFixtures_ParsesPayload(t *testing.T) {
	t.Parallel()

	var sawKey atomic.Bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHeader) == "test-key" {
			sawKey.Store(true)
		}
		if got := r.URL.Query().Get("round"); got != "Regular Season - 24" {
			t.Errorf("unexpected round query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	}), 0)

	results, err := client.FetchRoundFixtures(context.Background(), 140, "2025", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawKey.Load() {
		t.Fatal("expected api key header on request")
	}
	if len(results) != 1 {
		t.Fatalf("expected one fixture, got=%d", len(results))
	}

	got := results[0]
	if got.ExternalID != 9001 {
		t.Fatalf("expected fixture id=9001, got=%d", got.ExternalID)
	}
	if got.Round != 24 {
		t.Fatalf("expected round=24, got=%d", got.Round)
	}
	if got.HomeTeamName != "Real Madrid" || got.AwayTeamName != "Barcelona" {
		t.Fatalf("unexpected team names: %q vs %q", got.HomeTeamName, got.AwayTeamName)
	}
	if got.HomeGoals != 2 || got.AwayGoals != 1 {
		t.Fatalf("unexpected score: %d-%d", got.HomeGoals, got.AwayGoals)
	}
	if got.Status != "FT" {
		t.Fatalf("expected status=FT, got=%s", got.Status)
	}
	if got.KickoffAt.IsZero() {
		t.Fatal("expected kickoff time to be parsed")
	}
}

func TestClient_ForbiddenIsFatalAndNotRetried(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid key"}`))
	}), 3)

	_, err := client.FetchRoundFixtures(context.Background(), 140, "2025", 1)
	if !errors.Is(err, usecase.ErrGatewayForbidden) {
		t.Fatalf("expected forbidden sentinel, got=%v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected exactly one request, got=%d", got)
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	}), 1)

	results, err := client.FetchRoundFixtures(context.Background(), 140, "2025", 24)
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one fixture after retry, got=%d", len(results))
	}
	if got := requests.Load(); got != 2 {
		t.Fatalf("expected two requests, got=%d", got)
	}
}

func TestClient_PlayerLinesMapRawStats(t *testing.T) {
	t.Parallel()

	payload := `{
		"get": "fixtures/players",
		"errors": {},
		"response": [
			{
				"team": {"id": 541, "name": "Real Madrid"},
				"players": [
					{
						"player": {"id": 77, "name": "Thibaut Courtois"},
						"statistics": [
							{
								"games": {"minutes": 90, "position": "G", "rating": "8.3"},
								"goals": {"total": 0, "conceded": 0, "assists": 0, "saves": 6},
								"penalty": {"saved": 1}
							}
						]
					}
				]
			}
		]
	}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}), 0)

	lines, err := client.FetchFixturePlayerLines(context.Background(), 9001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one player line, got=%d", len(lines))
	}

	line := lines[0]
	if line.PlayerExternalID != 77 || line.TeamExternalID != 541 {
		t.Fatalf("unexpected ids: player=%d team=%d", line.PlayerExternalID, line.TeamExternalID)
	}
	if line.Raw.MinutesPlayed != 90 {
		t.Fatalf("expected minutes=90, got=%d", line.Raw.MinutesPlayed)
	}
	if line.Raw.Saves != 6 || line.Raw.PenaltiesSaved != 1 {
		t.Fatalf("unexpected keeper stats: saves=%d pen_saved=%d", line.Raw.Saves, line.Raw.PenaltiesSaved)
	}
	if line.Raw.Rating != 8.3 {
		t.Fatalf("expected rating=8.3, got=%v", line.Raw.Rating)
	}
}

func TestClient_EnvelopeErrorsSurface(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":{"requests":"daily quota reached"},"response":[]}`))
	}), 0)

	_, err := client.FetchRoundFixtures(context.Background(), 140, "2025", 1)
	if err == nil {
		t.Fatal("expected envelope error to surface")
	}
}

func TestStatisticInt_CoercesMixedValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value any
		want  int
	}{
		{nil, 0},
		{float64(7), 7},
		{"52%", 52},
		{"3", 3},
		{"n/a", 0},
	}
	for _, tc := range cases {
		if got := statisticInt(tc.value); got != tc.want {
			t.Fatalf("statisticInt(%v): expected %d, got=%d", tc.value, tc.want, got)
		}
	}
}

func TestParseRound_ExtractsTrailingNumber(t *testing.T) {
	t.Parallel()

	if got := parseRound("Regular Season - 12", 1); got != 12 {
		t.Fatalf("expected 12, got=%d", got)
	}
	if got := parseRound("Apertura", 7); got != 7 {
		t.Fatalf("expected fallback 7, got=%d", got)
	}
}
