package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marcosfdz/jornadabet/external/footballdata"
	"github.com/marcosfdz/jornadabet/internal/config"
	"github.com/marcosfdz/jornadabet/internal/domain/bet"
	"github.com/marcosfdz/jornadabet/internal/domain/league"
	"github.com/marcosfdz/jornadabet/internal/domain/player"
	"github.com/marcosfdz/jornadabet/internal/domain/playerstats"
	"github.com/marcosfdz/jornadabet/internal/domain/scoring"
	"github.com/marcosfdz/jornadabet/internal/domain/squad"
	"github.com/marcosfdz/jornadabet/internal/infrastructure/jobqueue"
	"github.com/marcosfdz/jornadabet/internal/infrastructure/repository/memory"
	"github.com/marcosfdz/jornadabet/internal/infrastructure/repository/postgres"
	"github.com/marcosfdz/jornadabet/internal/interfaces/httpapi"
	"github.com/marcosfdz/jornadabet/internal/platform/cache"
	idgen "github.com/marcosfdz/jornadabet/internal/platform/id"
	"github.com/marcosfdz/jornadabet/internal/platform/logging"
	"github.com/marcosfdz/jornadabet/internal/platform/resilience"
	"github.com/marcosfdz/jornadabet/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type repositories struct {
	leagueRepo league.Repository
	memberRepo league.MemberRepository
	markRepo   league.SettlementMarkRepository
	betRepo    bet.Repository
	squadRepo  squad.Repository
	playerRepo player.Repository
	statsRepo  playerstats.Repository
}

// NewHTTPServer wires the whole service. With DB_URL set it runs on postgres;
// without it the seeded in-memory repositories back a self-contained dev mode.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	zlogger := logging.Default()

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	gateway := footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.FootballDataTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:    cfg.FootballDataBaseURL,
		APIKey:     cfg.FootballDataAPIKey,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     zlogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	responses := cache.NewStore(cfg.CacheTTL)
	calc := scoring.NewCalculator(scoring.Config{
		GoalkeeperCleanSheetBonus: scoring.DefaultConfig().GoalkeeperCleanSheetBonus,
		RatingBonusEnabled:        cfg.ScoringRatingBonus,
	})

	statsSvc := usecase.NewPlayerStatsService(
		repos.playerRepo,
		repos.statsRepo,
		gateway,
		calc,
		responses,
		cfg.CompetitionRefID,
		zlogger,
	)

	matchdaySvc := usecase.NewMatchdayService(
		repos.leagueRepo,
		repos.memberRepo,
		repos.markRepo,
		repos.betRepo,
		repos.squadRepo,
		statsSvc,
		gateway,
		responses,
		cfg.CompetitionRefID,
		usecase.MatchdaySettings{
			BettingBudgetReset: cfg.BettingBudgetReset,
			GatewayCallDelay:   cfg.GatewayCallDelay,
			StatsWorkers:       cfg.StatsWorkers,
		},
		zlogger,
	)

	betSvc := usecase.NewBetService(
		repos.leagueRepo,
		repos.memberRepo,
		repos.betRepo,
		idgen.NewRandomGenerator(),
	)

	var publisher httpapi.JobPublisher
	if cfg.QStashEnabled {
		publisher = jobqueue.NewPublisher(jobqueue.PublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(matchdaySvc, betSvc, publisher, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using seeded in-memory repositories")
		return repositories{
			leagueRepo: memory.NewLeagueRepository(memory.SeedLeagues()),
			memberRepo: memory.NewMemberRepository(memory.SeedMembers()),
			markRepo:   memory.NewSettlementMarkRepository(),
			betRepo:    memory.NewBetRepository(),
			squadRepo:  memory.NewSquadRepository(memory.SeedSquads()),
			playerRepo: memory.NewPlayerRepository(memory.SeedPlayers()),
			statsRepo:  memory.NewPlayerStatsRepository(),
		}, nil
	}

	db, err := connectDB(cfg)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("postgres connected", "database", dbNameFromURL(cfg.DBURL))

	return repositories{
		leagueRepo: postgres.NewLeagueRepository(db),
		memberRepo: postgres.NewMemberRepository(db),
		markRepo:   postgres.NewSettlementMarkRepository(db),
		betRepo:    postgres.NewBetRepository(db),
		squadRepo:  postgres.NewSquadRepository(db),
		playerRepo: postgres.NewPlayerRepository(db),
		statsRepo:  postgres.NewPlayerStatsRepository(db),
	}, nil
}
