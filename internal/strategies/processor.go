package strategies

import (
	"context"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// ProcessorStatus is a processor's view of a money movement.
type ProcessorStatus string

const (
	ProcessorPending  ProcessorStatus = "pending"
	ProcessorSettled  ProcessorStatus = "settled"
	ProcessorRejected ProcessorStatus = "rejected"
)

// ProcessorResult is what a processor reports for a request or a status poll.
type ProcessorResult struct {
	Status      ProcessorStatus
	ExternalRef string
	Reason      string
	Messages    []string
}

// MovementRequest asks a processor to move money. IdempotencyKey is the
// external transaction id; processors must treat repeats as the same movement.
type MovementRequest struct {
	IdempotencyKey string
	Amount         domain.Money
	Memo           string
}

// ACHProcessor is the bank network integration behind ACH debits.
type ACHProcessor interface {
	Debit(ctx context.Context, bankAccountID string, req MovementRequest) (ProcessorResult, error)
	Credit(ctx context.Context, bankAccountID string, req MovementRequest) (ProcessorResult, error)
	Status(ctx context.Context, externalRef string) (ProcessorResult, error)
}

// CardProcessor is the card network integration.
type CardProcessor interface {
	Charge(ctx context.Context, cardID string, req MovementRequest) (ProcessorResult, error)
	Refund(ctx context.Context, cardID string, req MovementRequest) (ProcessorResult, error)
	Status(ctx context.Context, externalRef string) (ProcessorResult, error)
}

func movementFor(txn domain.Settleable) MovementRequest {
	base := txn.Base()
	return MovementRequest{IdempotencyKey: base.ID, Amount: base.Amount, Memo: base.Memo.En}
}

// toOutcome maps a processor result. An unknown status is a failure.
func toOutcome(res ProcessorResult) domain.StrategyOutcome {
	switch res.Status {
	case ProcessorSettled:
		return domain.Success(res.ExternalRef)
	case ProcessorPending:
		return domain.Pending(res.ExternalRef)
	case ProcessorRejected:
		reason := res.Reason
		if reason == "" {
			reason = "processor_rejected"
		}
		return domain.Failure(reason, res.Messages...)
	}
	return domain.Failure("processor_unknown_status", string(res.Status))
}
