package repository

import (
	"context"
	"fmt"

	"github.com/Mohamedgad1983/PROShael-sub019/internal/entity"
	"github.com/Mohamedgad1983/PROShael-sub019/pkg/storage/postgres"
)

type LogEntryRepository struct {
	db *postgres.Postgres
}

func NewLogEntryRepository(db *postgres.Postgres) *LogEntryRepository {
	return &LogEntryRepository{db}
}

// Create persists one write-once log entry. Entries are never updated; a
// retried insert with the same id is a no-op.
func (lr *LogEntryRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	entry *entity.TransactionLogEntry,
) error {
	const op = "repository.logentry.Create"

	query := lr.db.Builder.Insert("transaction_log").
		Columns(
			"id", "logged_at", "transaction_id", "type", "amount",
			"currency", "payer_id", "status", "metadata", "checksum",
		).
		Values(
			entry.ID,
			entry.Timestamp,
			entry.TransactionID,
			entry.Type,
			entry.Amount,
			entry.Currency,
			entry.PayerID,
			entry.Status,
			entry.Metadata,
			entry.Checksum,
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

// GetAll returns the whole log in insertion order, for state restoration.
func (lr *LogEntryRepository) GetAll(ctx context.Context) ([]entity.TransactionLogEntry, error) {
	const op = "repository.logentry.GetAll"

	query := lr.db.Builder.
		Select(
			"id", "logged_at", "transaction_id", "type", "amount",
			"currency", "payer_id", "status", "metadata", "checksum",
		).
		From("transaction_log").
		OrderBy("logged_at", "id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := lr.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var entries []entity.TransactionLogEntry
	for rows.Next() {
		var e entity.TransactionLogEntry
		if err = rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.TransactionID,
			&e.Type,
			&e.Amount,
			&e.Currency,
			&e.PayerID,
			&e.Status,
			&e.Metadata,
			&e.Checksum,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return entries, nil
}
