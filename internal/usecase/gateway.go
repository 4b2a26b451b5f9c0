package usecase

import (
	"context"
	"time"

	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
)

// FootballGateway is the read-only contract against the football-data
// provider. Implementations own retries, throttling and circuit breaking;
// callers only see the fatal-vs-transient split through error sentinels.
type FootballGateway interface {
	FetchRoundFixtures(ctx context.Context, leagueRefID int64, season string, round int) ([]ExternalFixtureResult, error)
	FetchFixtureStatistics(ctx context.Context, fixtureID int64) (ExternalFixtureStats, error)
	FetchFixturePlayerLines(ctx context.Context, fixtureID int64) ([]ExternalPlayerLine, error)
	FetchFixtureEvents(ctx context.Context, fixtureID int64) ([]ExternalFixtureEvent, error)
}

type ExternalFixtureResult struct {
	ExternalID   int64
	Round        int
	Season       string
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	HomeGoals    int
	AwayGoals    int
	Status       string
	KickoffAt    time.Time
}

type ExternalTeamLine struct {
	TeamExternalID int64
	TeamName       string
	Corners        int
	YellowCards    int
	RedCards       int
	Fouls          int
	Offsides       int
}

type ExternalFixtureStats struct {
	FixtureExternalID int64
	Home              ExternalTeamLine
	Away              ExternalTeamLine
}

// ExternalPlayerLine is one player's statistics row inside a fixture. Name
// and position ride along so callers can match rows when external IDs drift
// between provider snapshots.
type ExternalPlayerLine struct {
	FixtureExternalID int64
	TeamExternalID    int64
	PlayerExternalID  int64
	PlayerName        string
	Position          string
	Raw               scoring.RawStats
}

type ExternalFixtureEvent struct {
	FixtureExternalID      int64
	TeamExternalID         int64
	PlayerExternalID       int64
	AssistPlayerExternalID int64
	EventType              string
	Detail                 string
	Minute                 int
	ExtraMinute            int
}
