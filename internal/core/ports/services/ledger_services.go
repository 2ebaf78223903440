package services

import (
	"context"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/dto"
)

// LedgerSvc manages accounts and ledgers and answers balance queries.
type LedgerSvc interface {
	// OpenAccount creates the account for owner. Opening a second platform
	// account fails with domain.ErrDuplicatePlatformAccount.
	OpenAccount(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error)
	// EnsureAccount returns the owner's account, opening it on first use.
	EnsureAccount(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error)
	OpenLedger(ctx context.Context, req dto.OpenLedgerRequest) (*domain.Ledger, error)
	// EnsureLedger returns the account's ledger with the label, opening it on first use.
	EnsureLedger(ctx context.Context, accountID, currency, label string) (*domain.Ledger, error)
	// EnsureLedgerWithin is EnsureLedger bound to an open transaction.
	EnsureLedgerWithin(ctx context.Context, tx repositories.Store, accountID, currency, label string) (*domain.Ledger, error)
	// PlatformLedger returns the platform cash ledger for the currency.
	PlatformLedger(ctx context.Context, currency string) (*domain.Ledger, error)
	GetLedger(ctx context.Context, ledgerID string) (*domain.Ledger, error)
	Balance(ctx context.Context, ledgerID string, q dto.BalanceQuery) (domain.Money, error)
	ListLedgerTransactions(ctx context.Context, ledgerID string, params dto.ListLedgerTransactionsParams) (*dto.ListLedgerTransactionsResponse, error)
}

// BookTransactionObserver is told about book transactions after they commit.
type BookTransactionObserver interface {
	OnBookTransaction(ctx context.Context, bookTransaction domain.BookTransaction)
}

// BookSvc is the only way balances change.
type BookSvc interface {
	// Transfer writes the transfer atomically and then notifies observers.
	Transfer(ctx context.Context, req dto.TransferRequest) (*domain.BookTransaction, error)
	// TransferWithin writes the transfer inside an open transaction without notifying observers.
	TransferWithin(ctx context.Context, tx repositories.Store, req dto.TransferRequest) (*domain.BookTransaction, error)
	// Publish notifies observers of transactions committed through TransferWithin.
	Publish(ctx context.Context, bookTransactions ...domain.BookTransaction)
	Subscribe(observer BookTransactionObserver)
}

// ReportingSvc produces ledger-wide reports.
type ReportingSvc interface {
	// TrialBalance lists every ledger's balance at asOf. A zero asOf means now.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}
