package pgsql

import (
	"context"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/models"
	"github.com/lithictech/suma-sub001/internal/utils/mapping"
	"github.com/lithictech/suma-sub001/internal/utils/pagination"
)

const bookTransactionColumns = `book_transaction_id, originating_ledger_id, receiving_ledger_id, amount_cents,
	currency, apply_at, created_at, category, memo_en, memo_es, actor_id`

type bookTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.BookTransactionRepositoryFacade = (*bookTransactionRepository)(nil)

func (r *bookTransactionRepository) FindBookTransactionByID(ctx context.Context, bookTransactionID string) (*domain.BookTransaction, error) {
	query := "SELECT " + bookTransactionColumns + " FROM book_transactions WHERE book_transaction_id = $1"
	m, err := getOne[models.BookTransaction](ctx, r.q, query, bookTransactionID)
	if err != nil {
		return nil, r.translate(err, "find", "book transaction "+bookTransactionID)
	}
	bt := mapping.ToDomainBookTransaction(m)
	return &bt, nil
}

func (r *bookTransactionRepository) FindBookTransactionsByIDs(ctx context.Context, bookTransactionIDs []string) (map[string]domain.BookTransaction, error) {
	out := make(map[string]domain.BookTransaction, len(bookTransactionIDs))
	if len(bookTransactionIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + bookTransactionColumns + " FROM book_transactions WHERE book_transaction_id = ANY($1)"
	ms, err := getMany[models.BookTransaction](ctx, r.q, query, bookTransactionIDs)
	if err != nil {
		return nil, r.translate(err, "list", "book transactions")
	}
	for _, bt := range mapping.ToDomainBookTransactions(ms) {
		out[bt.BookTransactionID] = bt
	}
	return out, nil
}

func (r *bookTransactionRepository) SumLedgerBalance(ctx context.Context, ledgerID string, asOf time.Time, includePending bool) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN receiving_ledger_id = $1 THEN amount_cents ELSE -amount_cents END), 0)::bigint
		FROM book_transactions
		WHERE (receiving_ledger_id = $1 OR originating_ledger_id = $1)
		  AND ($3 OR apply_at <= $2);
	`
	var balance int64
	if err := r.q.QueryRow(ctx, query, ledgerID, asOf, includePending).Scan(&balance); err != nil {
		return 0, r.translate(err, "sum", "balance of ledger "+ledgerID)
	}
	return balance, nil
}

func (r *bookTransactionRepository) SumLedgerBalances(ctx context.Context, asOf time.Time) (map[string]int64, error) {
	query := `
		SELECT ledger_id, SUM(delta)::bigint
		FROM (
			SELECT receiving_ledger_id AS ledger_id, amount_cents AS delta
			FROM book_transactions WHERE apply_at <= $1
			UNION ALL
			SELECT originating_ledger_id, -amount_cents
			FROM book_transactions WHERE apply_at <= $1
		) movements
		GROUP BY ledger_id;
	`
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, r.translate(err, "sum", "ledger balances")
	}
	defer rows.Close()

	balances := make(map[string]int64)
	for rows.Next() {
		var (
			ledgerID string
			balance  int64
		)
		if err := rows.Scan(&ledgerID, &balance); err != nil {
			return nil, r.translate(err, "scan", "ledger balances")
		}
		balances[ledgerID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate(err, "sum", "ledger balances")
	}
	return balances, nil
}

// ListBookTransactionsByLedger uses keyset pagination on (apply_at, book_transaction_id).
// Ids compare in the C collation so the order matches the cursor's byte order.
func (r *bookTransactionRepository) ListBookTransactionsByLedger(ctx context.Context, ledgerID string, limit int, nextToken *string) ([]domain.BookTransaction, *string, error) {
	args := []any{ledgerID}
	query := "SELECT " + bookTransactionColumns + `
		FROM book_transactions
		WHERE (originating_ledger_id = $1 OR receiving_ledger_id = $1)`
	if nextToken != nil {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		query += ` AND (apply_at, book_transaction_id COLLATE "C") < ($2, $3)`
		args = append(args, cursorAt, cursorID)
	}
	// Fetch one extra row to know whether another page exists.
	args = append(args, limit+1)
	query += ` ORDER BY apply_at DESC, book_transaction_id COLLATE "C" DESC LIMIT $` + placeholder(len(args))

	ms, err := getMany[models.BookTransaction](ctx, r.q, query, args...)
	if err != nil {
		return nil, nil, r.translate(err, "list", "transactions of ledger "+ledgerID)
	}
	rows := mapping.ToDomainBookTransactions(ms)
	if len(rows) <= limit {
		return rows, nil, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.ApplyAt, last.BookTransactionID)
	return page, &token, nil
}

func (r *bookTransactionRepository) SaveBookTransaction(ctx context.Context, bt domain.BookTransaction) error {
	m := mapping.ToModelBookTransaction(bt)
	query := `
		INSERT INTO book_transactions (book_transaction_id, originating_ledger_id, receiving_ledger_id,
			amount_cents, currency, apply_at, created_at, category, memo_en, memo_es, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q.Exec(ctx, query,
		m.BookTransactionID,
		m.OriginatingLedgerID,
		m.ReceivingLedgerID,
		m.AmountCents,
		m.Currency,
		m.ApplyAt,
		m.CreatedAt,
		m.Category,
		m.MemoEn,
		m.MemoEs,
		m.ActorID,
	)
	return r.translate(err, "save", "book transaction "+m.BookTransactionID)
}
