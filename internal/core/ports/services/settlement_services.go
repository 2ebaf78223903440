package services

import (
	"context"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/dto"
)

// StrategyAdapter executes one kind of strategy against an external processor.
type StrategyAdapter interface {
	Execute(ctx context.Context, txn domain.Settleable) (domain.StrategyOutcome, error)
	// RetryOnTimeout reports whether a timed-out call should be treated as Pending rather than Failure.
	RetryOnTimeout() bool
}

// StrategyResolver finds the adapter for a strategy kind.
type StrategyResolver interface {
	AdapterFor(kind domain.StrategyKind) (StrategyAdapter, error)
}

// SettlementSvc drives funding and payout transactions through their state machine.
type SettlementSvc interface {
	CreateFunding(ctx context.Context, req dto.CreateFundingRequest) (*domain.FundingTransaction, error)
	CreatePayout(ctx context.Context, req dto.CreatePayoutRequest) (*domain.PayoutTransaction, error)
	GetFunding(ctx context.Context, id string) (*domain.FundingTransaction, error)
	GetPayout(ctx context.Context, id string) (*domain.PayoutTransaction, error)

	// SubmitFunding runs the strategy and commits its outcome. Submitting a
	// resolved transaction returns it unchanged without calling the strategy.
	SubmitFunding(ctx context.Context, id string, actorID *string) (*domain.FundingTransaction, error)
	SubmitPayout(ctx context.Context, id string, actorID *string) (*domain.PayoutTransaction, error)
	// RefreshFunding re-polls the strategy of a submitted transaction.
	RefreshFunding(ctx context.Context, id string) (*domain.FundingTransaction, error)
	RefreshPayout(ctx context.Context, id string) (*domain.PayoutTransaction, error)

	ReverseFunding(ctx context.Context, id string, req dto.ReverseRequest) (*domain.FundingTransaction, error)
	ReversePayout(ctx context.Context, id string, req dto.ReverseRequest) (*domain.PayoutTransaction, error)
	// InitiateRefund reverses a settled funding transaction through a new payout.
	InitiateRefund(ctx context.Context, fundingID string, req dto.RefundRequest) (*domain.PayoutTransaction, error)
}

// AuditSvc appends to and reads the transaction audit log.
type AuditSvc interface {
	// RecordWithin appends an entry inside an open transaction.
	RecordWithin(ctx context.Context, tx repositories.Store, entry domain.TransactionAuditLogEntry) error
	History(ctx context.Context, subject domain.SubjectRef) ([]domain.TransactionAuditLogEntry, error)
}

// IdempotencySvc runs retriable operations at most once per key.
type IdempotencySvc interface {
	// RunOnce calls fn inside a transaction unless key has already run, in which
	// case it returns the remembered result and ran=false.
	RunOnce(ctx context.Context, key string, fn func(ctx context.Context, tx repositories.Store) ([]byte, error)) (result []byte, ran bool, err error)
	// ClaimWithin claims key inside an open transaction.
	ClaimWithin(ctx context.Context, tx repositories.Store, key string) (bool, error)
}
