package strategies

import (
	"context"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// ACHAdapter debits a member's bank account for funding and credits it for
// payouts. ACH settles over days, so a timed-out call is polled again later.
type ACHAdapter struct {
	processor ACHProcessor
}

var _ portssvc.StrategyAdapter = (*ACHAdapter)(nil)

func NewACHAdapter(processor ACHProcessor) *ACHAdapter {
	return &ACHAdapter{processor: processor}
}

func (a *ACHAdapter) RetryOnTimeout() bool { return true }

func (a *ACHAdapter) Execute(ctx context.Context, txn domain.Settleable) (domain.StrategyOutcome, error) {
	base := txn.Base()
	strategy, ok := base.Strategy.(domain.ACHDebitStrategy)
	if !ok {
		return domain.StrategyOutcome{}, fmt.Errorf("ach adapter cannot execute %s strategy", base.Strategy.Kind())
	}

	if base.ExternalRef != "" {
		res, err := a.processor.Status(ctx, base.ExternalRef)
		if err != nil {
			return domain.StrategyOutcome{}, fmt.Errorf("ach status %s: %w", base.ExternalRef, err)
		}
		return withRef(toOutcome(res), base.ExternalRef), nil
	}

	var (
		res ProcessorResult
		err error
	)
	switch txn.Ref().Kind {
	case domain.SubjectPayout:
		res, err = a.processor.Credit(ctx, strategy.BankAccountID, movementFor(txn))
	default:
		res, err = a.processor.Debit(ctx, strategy.BankAccountID, movementFor(txn))
	}
	if err != nil {
		return domain.StrategyOutcome{}, fmt.Errorf("ach %s: %w", txn.Ref().Kind, err)
	}
	return toOutcome(res), nil
}

// withRef keeps the stored reference when a status poll does not echo it.
func withRef(o domain.StrategyOutcome, ref string) domain.StrategyOutcome {
	if o.ExternalRef == "" && o.Kind != domain.OutcomeFailure {
		o.ExternalRef = ref
	}
	return o
}
