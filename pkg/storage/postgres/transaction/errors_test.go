package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	uniqueViolation := &pgconn.PgError{Code: "23505", ConstraintName: "payments_pkey"}

	testCases := []struct {
		desc     string
		err      error
		sentinel error
	}{
		{
			desc:     "unique violation maps to conflicting data",
			err:      uniqueViolation,
			sentinel: entity.ErrConflictingData,
		},
		{
			desc:     "wrapped unique violation maps to conflicting data",
			err:      fmt.Errorf("repository.payment.Create: exec: %w", uniqueViolation),
			sentinel: entity.ErrConflictingData,
		},
		{
			desc:     "other pg errors keep their chain",
			err:      &pgconn.PgError{Code: "23503"},
			sentinel: nil,
		},
		{
			desc:     "plain errors keep their chain",
			err:      errors.New("connection reset"),
			sentinel: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			got := HandleError("CreatePayment", "create payment", tc.err)
			require.Error(t, got)
			require.Contains(t, got.Error(), "CreatePayment")
			require.Contains(t, got.Error(), "create payment")

			if tc.sentinel != nil {
				require.ErrorIs(t, got, tc.sentinel)
			} else {
				require.NotErrorIs(t, got, entity.ErrConflictingData)
				require.ErrorIs(t, got, tc.err)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc      string
		err       error
		retryable bool
	}{
		{
			desc:      "serialization failure",
			err:       fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"}),
			retryable: true,
		},
		{
			desc:      "deadlock detected",
			err:       &pgconn.PgError{Code: "40P01"},
			retryable: true,
		},
		{
			desc:      "unique violation",
			err:       &pgconn.PgError{Code: "23505"},
			retryable: false,
		},
		{
			desc:      "context deadline",
			err:       fmt.Errorf("query: %w", context.DeadlineExceeded),
			retryable: false,
		},
		{
			desc:      "closed transaction",
			err:       pgx.ErrTxClosed,
			retryable: true,
		},
		{
			desc:      "plain error",
			err:       errors.New("boom"),
			retryable: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.retryable, isRetryableError(tc.err))
		})
	}
}
