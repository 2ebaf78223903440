package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// runs unchanged inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Unique constraints whose violation means something to the domain.
var uniqueConstraintErrors = map[string]error{
	"payment_accounts_single_platform":              domain.ErrDuplicatePlatformAccount,
	"ledgers_account_currency_label_key":            domain.ErrLedgerLabelTaken,
	"payment_trigger_executions_trigger_source_key": domain.ErrTriggerAlreadyExecuted,
	"charge_line_items_book_transaction_id_key":     domain.ErrBookTransactionAlreadyCharged,
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	q querier
}

// translate maps driver errors onto apperrors and domain sentinels.
// subject describes what the statement was about, e.g. "ledger 123".
func (r BaseRepository) translate(err error, op, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, subject)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if sentinel, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%w: %s", sentinel, subject)
			}
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, subject)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s references a missing row (%s)", apperrors.ErrNotFound, subject, pgErr.ConstraintName)
		}
	}
	return apperrors.NewAppError(500, fmt.Sprintf("failed to %s %s", op, subject), err)
}

// getOne runs a single-row query and collects it into T.
func getOne[T any](ctx context.Context, q querier, sql string, args ...any) (T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
}

// getMany runs a query and collects every row into T.
func getMany[T any](ctx context.Context, q querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

// placeholder returns the text of the n-th positional parameter number.
func placeholder(n int) string {
	return strconv.Itoa(n)
}
