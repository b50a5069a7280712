package app

import (
	"context"
	"fmt"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/repos/mongorepo"
	"github.com/yungbote/eduhub-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/eduhub-backend/internal/observability"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
	"github.com/yungbote/eduhub-backend/internal/platform/redis"
	"github.com/yungbote/eduhub-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Repos    repos.Set
	Services *services.Services

	counter      *redis.Counter
	otelShutdown func(context.Context) error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	shutdown := observability.InitOTel(ctx, log, cfg.OTel)

	set, err := wireStore(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	var opts []services.Option
	var counter *redis.Counter
	if cfg.CounterBackend == CounterRedis {
		counter, err = redis.NewCounter(ctx, cfg.Redis, log)
		if err != nil {
			_ = set.Close(ctx)
			log.Sync()
			return nil, fmt.Errorf("init redis counter: %w", err)
		}
		opts = append(opts, services.WithCounters(counter))
	}

	log.Info("app wired", "store", set.Backend, "counter_backend", cfg.CounterBackend)
	return &App{
		Log:          log,
		Cfg:          cfg,
		Repos:        set,
		Services:     services.New(set, log, opts...),
		counter:      counter,
		otelShutdown: shutdown,
	}, nil
}

func wireStore(ctx context.Context, cfg Config, log *logger.Logger) (repos.Set, error) {
	switch cfg.Store {
	case StoreSQL:
		db, err := sqlrepo.Open(cfg.SQL, log)
		if err != nil {
			return repos.Set{}, fmt.Errorf("init sql store: %w", err)
		}
		return sqlrepo.NewSet(db, log), nil
	case StoreMongo:
		client, db, err := mongorepo.Connect(ctx, cfg.Mongo, log)
		if err != nil {
			return repos.Set{}, fmt.Errorf("init mongo store: %w", err)
		}
		return mongorepo.NewSet(client, db, log), nil
	}
	return repos.Set{}, fmt.Errorf("unknown store %q", cfg.Store)
}

// Close releases the store, the counter and the tracer, then flushes logs.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.Repos.Close != nil {
		if err := a.Repos.Close(ctx); err != nil {
			a.Log.Warn("store close failed", "error", err)
		}
	}
	if a.counter != nil {
		if err := a.counter.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Cfg.MetricsFile != "" {
		if err := observability.Current().WriteFile(a.Cfg.MetricsFile); err != nil {
			a.Log.Warn("metrics write failed", "path", a.Cfg.MetricsFile, "error", err)
		}
	}
	a.Log.Sync()
}
