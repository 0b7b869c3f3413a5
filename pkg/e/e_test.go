package e_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"flockwatch/pkg/e"
)

func TestWrapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), e.ErrDeadline},
		{"canceled", context.Canceled, e.ErrCanceled},
		{"unique", &pgconn.PgError{Code: "23505"}, e.ErrUniqueViolation},
		{"check", &pgconn.PgError{Code: "23514"}, e.ErrInvalidInput},
		{"other_pg", &pgconn.PgError{Code: "42P01"}, e.ErrInternal},
		{"no_rows", pgx.ErrNoRows, e.ErrNotFound},
		{"unknown", errors.New("boom"), e.ErrInternal},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.WrapError(context.Background(), "op", tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	if err := e.WrapError(context.Background(), "op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
