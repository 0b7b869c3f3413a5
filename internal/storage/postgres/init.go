package postgres

import (
	"context"
	"fmt"

	"flockwatch/internal/config"
	"flockwatch/pkg/e"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS reports (
	id          uuid PRIMARY KEY,
	status      text NOT NULL CHECK (status IN ('open', 'claimed', 'dismissed', 'resolved')),
	geo_point   geography(Point, 4326) NOT NULL,
	description text NOT NULL DEFAULT '',
	reported_at timestamptz NOT NULL,
	claimed_by  text,
	resolved_at timestamptz,
	revision    bigint NOT NULL DEFAULT 0,
	updated_at  timestamptz NOT NULL,
	CHECK (status <> 'claimed' OR claimed_by IS NOT NULL),
	CHECK ((status = 'resolved') = (resolved_at IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS reports_status_reported_at_idx ON reports (status, reported_at DESC);
`

type Postgres struct {
	Pool    *pgxpool.Pool
	Reports *ReportRepo
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)

	logger.Info("Connecting to Postgres",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("db", cfg.Postgres.Database),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("Failed to parse pgx config", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}
	poolCfg.MaxConns = cfg.Postgres.MaxConns
	poolCfg.MinConns = cfg.Postgres.MinConns
	poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("Failed to create pgx pool", slog.String("error", err.Error()))
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	logger.Info("Pinging Postgres database")
	if err := pool.Ping(ctx); err != nil {
		logger.Error("Failed to ping Postgres database", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}
	logger.Info("Connected to Postgres successfully")

	if err := Migrate(ctx, pool); err != nil {
		logger.Error("Failed to apply schema", slog.String("error", err.Error()))
		pool.Close()
		return nil, e.Wrap("storage.pg.NewPostgres.Migrate", err)
	}

	return &Postgres{
		Pool:    pool,
		Reports: NewReportRepo(pool, logger),
	}, nil
}

// Migrate is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
