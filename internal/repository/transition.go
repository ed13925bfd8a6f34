package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
)

type TransitionRepository struct {
	db *postgres.Postgres
}

func NewTransitionRepository(db *postgres.Postgres) *TransitionRepository {
	return &TransitionRepository{db}
}

// Create appends one history record. The (payment_id, sequence_number) key
// makes a retried write a no-op instead of a duplicate.
func (tr *TransitionRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	transition *entity.StatusTransition,
	sequenceNumber int,
) error {
	const op = "repository.transition.Create"

	query := tr.db.Builder.Insert("status_transitions").
		Columns(
			"payment_id", "sequence_number", "from_status", "to_status",
			"transitioned_at", "metadata",
		).
		Values(
			transition.PaymentID,
			sequenceNumber,
			transition.FromStatus,
			transition.ToStatus,
			transition.Timestamp,
			transition.Metadata,
		).
		Suffix("ON CONFLICT (payment_id, sequence_number) DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = queryExecuter.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (tr *TransitionRepository) GetByPaymentID(
	ctx context.Context,
	paymentID string,
) ([]entity.StatusTransition, error) {
	const op = "repository.transition.GetByPaymentID"

	query := tr.db.Builder.
		Select("payment_id", "from_status", "to_status", "transitioned_at", "metadata").
		From("status_transitions").
		Where(squirrel.Eq{"payment_id": paymentID}).
		OrderBy("sequence_number")

	return tr.queryTransitions(ctx, op, query)
}

// GetAll returns every transition ordered per payment, for state restoration.
func (tr *TransitionRepository) GetAll(ctx context.Context) ([]entity.StatusTransition, error) {
	const op = "repository.transition.GetAll"

	query := tr.db.Builder.
		Select("payment_id", "from_status", "to_status", "transitioned_at", "metadata").
		From("status_transitions").
		OrderBy("payment_id", "sequence_number")

	return tr.queryTransitions(ctx, op, query)
}

func (tr *TransitionRepository) queryTransitions(
	ctx context.Context,
	op string,
	query squirrel.SelectBuilder,
) ([]entity.StatusTransition, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := tr.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var transitions []entity.StatusTransition
	for rows.Next() {
		var t entity.StatusTransition
		if err = rows.Scan(
			&t.PaymentID,
			&t.FromStatus,
			&t.ToStatus,
			&t.Timestamp,
			&t.Metadata,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		transitions = append(transitions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return transitions, nil
}
