package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
)

type PaymentRepository struct {
	db *postgres.Postgres
}

func NewPaymentRepository(db *postgres.Postgres) *PaymentRepository {
	return &PaymentRepository{db}
}

// Create inserts the payment aggregate. Ids are generated before the
// durability write, so a retried insert with the same id is a no-op.
func (pr *PaymentRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	payment *entity.Payment,
) error {
	const op = "repository.payment.Create"

	query := pr.db.Builder.Insert("payments").
		Columns(
			"id", "payer_id", "amount", "currency", "payment_method",
			"fee", "net_amount", "base_currency_amount", "status",
			"description", "metadata", "created_at", "updated_at",
		).
		Values(
			payment.ID,
			payment.PayerID,
			payment.Amount,
			payment.Currency,
			payment.PaymentMethod,
			payment.Fee,
			payment.NetAmount,
			payment.BaseCurrencyAmount,
			payment.Status,
			payment.Description,
			payment.Metadata,
			payment.CreatedAt,
			payment.UpdatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = queryExecuter.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

// UpdateStatus moves the aggregate to its new lifecycle state.
func (pr *PaymentRepository) UpdateStatus(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	paymentID string,
	status entity.PaymentStatus,
	updatedAt time.Time,
) error {
	const op = "repository.payment.UpdateStatus"

	query := pr.db.Builder.Update("payments").
		Set("status", status).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := queryExecuter.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDataNotFound
	}

	return nil
}

func (pr *PaymentRepository) GetByID(
	ctx context.Context,
	paymentID string,
) (*entity.Payment, error) {
	const op = "repository.payment.GetByID"

	query := pr.db.Builder.Select(_paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": paymentID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Payment{}
	err = pr.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.PayerID,
		&result.Amount,
		&result.Currency,
		&result.PaymentMethod,
		&result.Fee,
		&result.NetAmount,
		&result.BaseCurrencyAmount,
		&result.Status,
		&result.Description,
		&result.Metadata,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

// GetAll returns every payment in creation order, for state restoration.
func (pr *PaymentRepository) GetAll(ctx context.Context) ([]*entity.Payment, error) {
	const op = "repository.payment.GetAll"

	query := pr.db.Builder.Select(_paymentColumns...).
		From("payments").
		OrderBy("created_at", "id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := pr.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p := &entity.Payment{}
		if err = rows.Scan(
			&p.ID,
			&p.PayerID,
			&p.Amount,
			&p.Currency,
			&p.PaymentMethod,
			&p.Fee,
			&p.NetAmount,
			&p.BaseCurrencyAmount,
			&p.Status,
			&p.Description,
			&p.Metadata,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return payments, nil
}

var _paymentColumns = []string{
	"id", "payer_id", "amount", "currency", "payment_method",
	"fee", "net_amount", "base_currency_amount", "status",
	"description", "metadata", "created_at", "updated_at",
}
