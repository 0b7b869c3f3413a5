package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidAction      = errors.New("invalid action")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInternal           = errors.New("internal error")
	ErrDeadline           = errors.New("deadline exceeded")
	ErrCanceled           = errors.New("context canceled")
	ErrUniqueViolation    = errors.New("unique violation")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrQueueEmpty         = errors.New("event queue is empty")
	ErrStaleFeed          = errors.New("feed changed since read")
)

func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
		case "23503", "23514", "22P02":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
