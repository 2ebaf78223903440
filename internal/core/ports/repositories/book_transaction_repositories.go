package repositories

import (
	"context"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// BookTransactionReader defines read operations for book transactions.
type BookTransactionReader interface {
	FindBookTransactionByID(ctx context.Context, bookTransactionID string) (*domain.BookTransaction, error)
	FindBookTransactionsByIDs(ctx context.Context, bookTransactionIDs []string) (map[string]domain.BookTransaction, error)

	// SumLedgerBalance returns receiving minus originating amounts for the ledger
	// over transactions applied at or before asOf, or all of them when includePending is set.
	SumLedgerBalance(ctx context.Context, ledgerID string, asOf time.Time, includePending bool) (int64, error)

	// SumLedgerBalances returns the balance of every ledger that has at least one transaction applied at or before asOf.
	SumLedgerBalances(ctx context.Context, asOf time.Time) (map[string]int64, error)

	// ListBookTransactionsByLedger pages through transactions touching a ledger,
	// newest apply_at first, ties broken by id descending.
	// It returns the transactions, a token for the next page, and an error.
	ListBookTransactionsByLedger(ctx context.Context, ledgerID string, limit int, nextToken *string) ([]domain.BookTransaction, *string, error)
}

// BookTransactionWriter has no update or delete: book transactions are immutable.
type BookTransactionWriter interface {
	SaveBookTransaction(ctx context.Context, bookTransaction domain.BookTransaction) error
}

type BookTransactionRepositoryFacade interface {
	BookTransactionReader
	BookTransactionWriter
}
