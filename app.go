package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/utpal74/ai-task-scheduler/ai"
	"github.com/utpal74/ai-task-scheduler/cacheutils"
	"github.com/utpal74/ai-task-scheduler/calendar"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/handlers"
	"github.com/utpal74/ai-task-scheduler/notify"
	"github.com/utpal74/ai-task-scheduler/oauth"
	"github.com/utpal74/ai-task-scheduler/service"
	"go.uber.org/zap"
)

// app holds every collaborator built from the configuration.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     db.Store
	redis     *redis.Client
	states    handlers.StateStore
	provider  oauth.Provider
	tasks     *service.TaskService
	summaries *service.SummaryService
	notifier  *notify.Dispatcher
}

func bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := db.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, store: store}

	if m, ok := store.(interface{ Migrate(context.Context) error }); ok {
		if err := m.Migrate(ctx); err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.Redis.URL != "" {
		client, err := cacheutils.Connect(ctx, cfg.Redis, cfg.IsProduction())
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.states = cacheutils.NewStateStore(client)
	} else {
		logger.Warn("REDIS_URL not set, oauth state is not verified")
	}

	planner, err := ai.NewGeminiGateway(ctx, cfg.AI, logger, "")
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	oauthCfg := oauth.NewConfig(cfg.Google)
	a.provider = oauth.NewGoogleProvider(oauthCfg)
	cal := calendar.NewGoogleGateway(store, oauthCfg, loc, cfg.SingleTenant, logger)

	if !cfg.SingleTenant {
		logger.Info("requests must carry " + handlers.IdentityHeader + "; set SINGLE_TENANT=true to fall back to the first stored user")
	}
	owners := service.NewOwnerResolver(store, cfg.SingleTenant)
	a.tasks = service.NewTaskService(owners, store, planner, cal)
	a.summaries = service.NewSummaryService(cal, planner, loc)
	a.notifier = notify.NewDispatcher(logger, notify.FromConfig(cfg.Notify)...)
	if a.notifier.Channels() == 0 {
		logger.Warn("no notification channels configured")
	}

	return a, nil
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error while closing redis", zap.Error(err))
		}
	}
	if err := a.store.Close(ctx); err != nil {
		a.logger.Error("Error while closing store", zap.Error(err))
		return
	}
	a.logger.Info("Disconnected from store")
}
