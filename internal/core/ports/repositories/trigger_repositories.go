package repositories

import (
	"context"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// PaymentTriggerReader defines read operations for triggers and their executions.
type PaymentTriggerReader interface {
	FindTriggerByID(ctx context.Context, triggerID string) (*domain.PaymentTrigger, error)
	FindTriggerByLabel(ctx context.Context, label string) (*domain.PaymentTrigger, error)
	// ListActiveTriggers returns triggers active at the given time in ascending id order.
	ListActiveTriggers(ctx context.Context, at time.Time) ([]domain.PaymentTrigger, error)

	FindExecution(ctx context.Context, triggerID, sourceBookTransactionID string) (*domain.PaymentTriggerExecution, error)
	ListExecutions(ctx context.Context, triggerID string) ([]domain.PaymentTriggerExecution, error)
	SumMatchedCents(ctx context.Context, triggerID string) (int64, error)
	// IsMatchTransaction reports whether the book transaction was emitted by a trigger.
	IsMatchTransaction(ctx context.Context, bookTransactionID string) (bool, error)
}

// PaymentTriggerWriter defines write operations for triggers and their executions.
type PaymentTriggerWriter interface {
	SaveTrigger(ctx context.Context, trigger domain.PaymentTrigger) error
	// LockTrigger serializes evaluations of one trigger until the surrounding transaction ends.
	LockTrigger(ctx context.Context, triggerID string) error
	// SaveExecution fails with domain.ErrTriggerAlreadyExecuted for a repeated (trigger, source) pair.
	SaveExecution(ctx context.Context, execution domain.PaymentTriggerExecution) error
}

type PaymentTriggerRepositoryFacade interface {
	PaymentTriggerReader
	PaymentTriggerWriter
}
