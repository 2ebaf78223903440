package repositories

import (
	"context"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// FundingTransactionRepositoryFacade persists funding transactions.
type FundingTransactionRepositoryFacade interface {
	FindFundingTransactionByID(ctx context.Context, id string) (*domain.FundingTransaction, error)
	// LockFundingTransaction loads the row and holds it until the surrounding transaction ends.
	LockFundingTransaction(ctx context.Context, id string) (*domain.FundingTransaction, error)
	SaveFundingTransaction(ctx context.Context, funding *domain.FundingTransaction) error
	// UpdateFundingTransaction writes status, external reference, book transaction links and updated_at.
	UpdateFundingTransaction(ctx context.Context, funding *domain.FundingTransaction) error
}

// PayoutTransactionRepositoryFacade persists payout transactions.
type PayoutTransactionRepositoryFacade interface {
	FindPayoutTransactionByID(ctx context.Context, id string) (*domain.PayoutTransaction, error)
	LockPayoutTransaction(ctx context.Context, id string) (*domain.PayoutTransaction, error)
	SavePayoutTransaction(ctx context.Context, payout *domain.PayoutTransaction) error
	UpdatePayoutTransaction(ctx context.Context, payout *domain.PayoutTransaction) error
	FindPayoutsRefundingFunding(ctx context.Context, fundingID string) ([]domain.PayoutTransaction, error)
}

// AuditLogRepositoryFacade is append-only.
type AuditLogRepositoryFacade interface {
	AppendAuditLogEntry(ctx context.Context, entry domain.TransactionAuditLogEntry) error
	// ListAuditLogEntries returns the subject's entries ordered by at, then append order.
	ListAuditLogEntries(ctx context.Context, subject domain.SubjectRef) ([]domain.TransactionAuditLogEntry, error)
}

// IdempotencyRepositoryFacade claims keys with insert-then-check semantics.
type IdempotencyRepositoryFacade interface {
	// ClaimIdempotencyKey inserts the key and reports whether this caller inserted it.
	// A false return means another caller already holds the key.
	ClaimIdempotencyKey(ctx context.Context, key string, at time.Time) (bool, error)
	SaveIdempotencyResult(ctx context.Context, key string, result []byte) error
	FindIdempotencyRecord(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}
