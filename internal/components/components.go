package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"flockwatch/internal/api"
	"flockwatch/internal/api/handlers/http/system"
	"flockwatch/internal/config"
	"flockwatch/internal/redis"
	"flockwatch/internal/service"
	"flockwatch/internal/storage/memory"
	"flockwatch/internal/storage/postgres"
	"flockwatch/internal/workers"
)

type Components struct {
	logger         *slog.Logger
	HttpServer     *api.Server
	Postgres       *postgres.Postgres
	Redis          *redis.Redis
	EventForwarder *service.EventForwarder
	FeedRefresher  *workers.FeedRefresher
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	comps := &Components{logger: logger}
	health := map[string]system.Pinger{}

	var store service.ReportStore
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logger.Warn("Using in-memory report store, state is lost on restart")
		store = memory.NewReports()
	default:
		logger.Info("Initializing Postgres")
		pg, err := postgres.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		comps.Postgres = pg
		health["postgres"] = pg.Pool
		store = pg.Reports
	}

	var (
		events service.EventPublisher = service.NopEventPublisher{}
		feed   service.FeedCache      = service.NopFeedCache{}
	)
	if !cfg.Redis.Disabled {
		logger.Info("Initializing Redis")
		redisClient, err := redis.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			comps.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		comps.Redis = redisClient
		health["redis"] = redisClient

		queue := redis.NewEventQueue(redisClient, "reports")
		events = queue
		feed = redis.NewFeedCache(redisClient)

		if !cfg.Webhook.Disabled {
			comps.EventForwarder = service.NewEventForwarder(logger, cfg.Webhook, queue)
		}
	} else {
		logger.Warn("Redis disabled: report events are dropped and the feed is not cached")
	}

	resolver := service.NewClaimResolver(store, events, feed, logger)
	reports := service.NewReportService(store, feed, logger, cfg.Feed.TTL)
	srv := service.NewService(resolver, reports)

	if !cfg.Redis.Disabled {
		comps.FeedRefresher = workers.NewFeedRefresher(reports, cfg.Feed.RefreshInterval, logger)
	}

	comps.HttpServer = api.NewServer(cfg, logger, srv, health)
	logger.Info("Initialized server")

	return comps, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	if c.Postgres != nil {
		c.Postgres.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
