package transaction

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
)

const _uniqueViolationCode = "23505"

// HandleError wraps a repository error with the transaction's operation and
// step. Unique-constraint violations surface as entity.ErrConflictingData so
// callers can branch on the sentinel instead of inspecting PG codes.
func HandleError(operation, step string, err error) error {
	const op = "storage.postgres.transaction.HandleError"

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == _uniqueViolationCode {
		return fmt.Errorf("%s: %s: %s: %w", op, operation, step, entity.ErrConflictingData)
	}

	return fmt.Errorf("%s: %s: %s: %w", op, operation, step, err)
}
