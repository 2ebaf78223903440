package repositories

import (
	"context"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// AccountReader defines read operations for payment accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.PaymentAccount, error)
	// FindAccountByOwner returns apperrors.ErrNotFound when the owner has no account yet.
	FindAccountByOwner(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.PaymentAccount, error)
}

// AccountWriter defines write operations for payment accounts.
type AccountWriter interface {
	// SaveAccount inserts an account. A second platform account fails with
	// domain.ErrDuplicatePlatformAccount; a second account for the same owner
	// fails with apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.PaymentAccount) error
}

type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// LedgerReader defines read operations for ledgers.
type LedgerReader interface {
	FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error)
	FindLedgerByLabel(ctx context.Context, accountID, currency, label string) (*domain.Ledger, error)
	ListLedgersByAccount(ctx context.Context, accountID string) ([]domain.Ledger, error)
	ListLedgers(ctx context.Context) ([]domain.Ledger, error)
}

// LedgerWriter defines write operations for ledgers.
type LedgerWriter interface {
	// SaveLedger fails with domain.ErrLedgerLabelTaken if the account already
	// has a ledger with the same currency and label.
	SaveLedger(ctx context.Context, ledger domain.Ledger) error
}

type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
