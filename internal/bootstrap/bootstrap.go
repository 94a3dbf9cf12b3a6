package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/feedback-insights/internal/config"
	"github.com/kirillkom/feedback-insights/internal/core/ports"
	"github.com/kirillkom/feedback-insights/internal/core/usecase"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/archive/localfs"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/llm/anthropic"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/llm/workersai"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/queue/nats"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/resilience"
	"github.com/kirillkom/feedback-insights/internal/infrastructure/seed"
	"github.com/kirillkom/feedback-insights/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue ports.MessageQueue
	Repo  ports.FeedbackRepository

	EnrichUC *usecase.EnrichFeedbackUseCase
	SeedUC   *usecase.SeedFeedbackUseCase
	AdviseUC *usecase.AdviseUseCase

	closeFn func()
}

func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	// Resilience retries and breaker transitions log through slog's default.
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFeedbackRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	archive, err := localfs.New(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("init raw archive: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	provider, err := newProvider(cfg, executor)
	if err != nil {
		return nil, err
	}

	providerTimeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	enrichUC := usecase.NewEnrichFeedbackUseCase(repo, provider, archive,
		logging.ForComponent(logger, "enrich"), providerTimeout, cfg.ProviderMaxTokens)
	seedUC := usecase.NewSeedFeedbackUseCase(repo, queue, seed.NewGenerator(),
		logging.ForComponent(logger, "seed"))
	adviseUC := usecase.NewAdviseUseCase(provider,
		logging.ForComponent(logger, "advise"), providerTimeout)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue: queue,
		Repo:  repo,

		EnrichUC: enrichUC,
		SeedUC:   seedUC,
		AdviseUC: adviseUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newProvider(cfg config.Config, executor *resilience.Executor) (ports.ClassificationProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("provider anthropic requires ANTHROPIC_API_KEY")
		}
		return anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case "workersai":
		return workersai.New(cfg.WorkersAIURL, cfg.WorkersAIModel, cfg.WorkersAIToken, executor), nil
	default:
		return nil, fmt.Errorf("unknown classification provider %q", cfg.Provider)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
