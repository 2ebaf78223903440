package strategies

import (
	"context"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// CardAdapter charges a stored card for funding and refunds it for payouts.
type CardAdapter struct {
	processor CardProcessor
}

var _ portssvc.StrategyAdapter = (*CardAdapter)(nil)

func NewCardAdapter(processor CardProcessor) *CardAdapter {
	return &CardAdapter{processor: processor}
}

func (a *CardAdapter) RetryOnTimeout() bool { return false }

func (a *CardAdapter) Execute(ctx context.Context, txn domain.Settleable) (domain.StrategyOutcome, error) {
	base := txn.Base()
	strategy, ok := base.Strategy.(domain.CardChargeStrategy)
	if !ok {
		return domain.StrategyOutcome{}, fmt.Errorf("card adapter cannot execute %s strategy", base.Strategy.Kind())
	}

	if base.ExternalRef != "" {
		res, err := a.processor.Status(ctx, base.ExternalRef)
		if err != nil {
			return domain.StrategyOutcome{}, fmt.Errorf("card status %s: %w", base.ExternalRef, err)
		}
		return withRef(toOutcome(res), base.ExternalRef), nil
	}

	var (
		res ProcessorResult
		err error
	)
	if txn.Ref().Kind == domain.SubjectPayout {
		res, err = a.processor.Refund(ctx, strategy.CardID, movementFor(txn))
	} else {
		res, err = a.processor.Charge(ctx, strategy.CardID, movementFor(txn))
	}
	if err != nil {
		return domain.StrategyOutcome{}, fmt.Errorf("card %s: %w", txn.Ref().Kind, err)
	}
	return toOutcome(res), nil
}
