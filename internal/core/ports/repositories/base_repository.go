package repositories

import "context"

// Store gives access to every repository. Inside TransactionManager.WithinTx the
// Store passed to the callback is bound to the transaction.
type Store interface {
	Accounts() AccountRepositoryFacade
	Ledgers() LedgerRepositoryFacade
	BookTransactions() BookTransactionRepositoryFacade
	FundingTransactions() FundingTransactionRepositoryFacade
	PayoutTransactions() PayoutTransactionRepositoryFacade
	AuditLog() AuditLogRepositoryFacade
	Idempotency() IdempotencyRepositoryFacade
	Triggers() PaymentTriggerRepositoryFacade
	Charges() ChargeRepositoryFacade
}

// TransactionManager runs fn in a single atomic unit. If fn returns an error
// nothing it wrote is visible; otherwise everything commits together.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// UnitOfWork is a Store that can also open transactions.
type UnitOfWork interface {
	Store
	TransactionManager
}
