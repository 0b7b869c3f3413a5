package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"
	"flockwatch/pkg/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportColumns = `
	id,
	status,
	ST_Y(geo_point::geometry) AS lat,
	ST_X(geo_point::geometry) AS lng,
	description,
	reported_at,
	claimed_by,
	resolved_at,
	revision,
	updated_at`

type ReportRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReportRepo(pool *pgxpool.Pool, logger *slog.Logger) *ReportRepo {
	return &ReportRepo{pool: pool, logger: logger}
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var r domain.Report
	err := row.Scan(
		&r.ID,
		&r.Status,
		&r.Location.Lat,
		&r.Location.Lng,
		&r.Description,
		&r.ReportedAt,
		&r.ClaimedBy,
		&r.ResolvedAt,
		&r.Revision,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *ReportRepo) Create(ctx context.Context, report *domain.Report) error {
	const op = "postgres.Report.Create"

	if report == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if !validator.ValidLat(report.Location.Lat) || !validator.ValidLng(report.Location.Lng) {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	report.Status = domain.ReportOpen
	report.ClaimedBy = nil
	report.ResolvedAt = nil
	report.Revision = 0
	report.UpdatedAt = report.ReportedAt

	const query = `
		INSERT INTO reports (id, status, geo_point, description, reported_at, revision, updated_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, 0, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		report.ID,
		report.Status,
		report.Location.Lng,
		report.Location.Lat,
		report.Description,
		report.ReportedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *ReportRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "postgres.Report.Get"

	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	r, err := scanReport(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return r, nil
}

// CompareAndSwap writes upd only while the row still has the expected status and revision.
// The single conditional UPDATE is the atomicity boundary; no explicit lock is taken.
func (p *ReportRepo) CompareAndSwap(ctx context.Context, id uuid.UUID, expected domain.Precondition, upd domain.ReportUpdate) (*domain.Report, error) {
	const op = "postgres.Report.CompareAndSwap"

	query := `
		UPDATE reports
		SET status      = $4,
			claimed_by  = $5,
			resolved_at = $6,
			revision    = revision + 1,
			updated_at  = $7
		WHERE id = $1 AND status = $2 AND revision = $3
		RETURNING ` + reportColumns

	r, err := scanReport(p.pool.QueryRow(ctx, query,
		id,
		expected.Status,
		expected.Revision,
		upd.Status,
		upd.ClaimedBy,
		upd.ResolvedAt,
		time.Now().UTC(),
	))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		p.logger.Error("db cas failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, id).Scan(&exists); err != nil {
		p.logger.Error("db exists check failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return nil, fmt.Errorf("%s: %w", op, e.ErrConflict)
}

func (p *ReportRepo) List(ctx context.Context, f domain.ListFilter) ([]*domain.Report, int64, error) {
	const op = "postgres.Report.List"

	f = f.Normalize()
	limit, offset := f.Limit, f.Offset()

	const countQuery = `SELECT COUNT(*) FROM reports WHERE ($1 = '' OR status = $1)`

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, string(f.Status)).Scan(&total); err != nil {
		p.logger.Error("db count failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	listQuery := `SELECT ` + reportColumns + `
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY reported_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := p.pool.Query(ctx, listQuery, string(f.Status), limit, offset)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0, limit)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, 0, e.WrapError(ctx, op, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, 0, e.WrapError(ctx, op, err)
	}

	return reports, total, nil
}
