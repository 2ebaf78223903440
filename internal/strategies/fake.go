package strategies

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// FakeAdapter resolves a FakeStrategy to its configured outcome. Delay makes
// it wait before answering, honoring context cancellation.
type FakeAdapter struct {
	Delay   time.Duration
	Retry   bool
	invoked atomic.Int64
}

var _ portssvc.StrategyAdapter = (*FakeAdapter)(nil)

func (f *FakeAdapter) RetryOnTimeout() bool { return f.Retry }

// Invocations counts Execute calls.
func (f *FakeAdapter) Invocations() int64 { return f.invoked.Load() }

func (f *FakeAdapter) Execute(ctx context.Context, txn domain.Settleable) (domain.StrategyOutcome, error) {
	f.invoked.Add(1)
	strategy, ok := txn.Base().Strategy.(domain.FakeStrategy)
	if !ok {
		return domain.StrategyOutcome{}, fmt.Errorf("fake adapter cannot execute %s strategy", txn.Base().Strategy.Kind())
	}
	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return domain.StrategyOutcome{}, ctx.Err()
		case <-time.After(f.Delay):
		}
	}

	ref := strategy.ExternalRef
	if ref == "" {
		ref = "fake-" + txn.Base().ID
	}
	switch strategy.Outcome {
	case domain.OutcomeSuccess, "":
		return domain.Success(ref), nil
	case domain.OutcomePending:
		return domain.Pending(ref), nil
	case domain.OutcomeFailure:
		reason := strategy.Reason
		if reason == "" {
			reason = "fake_failure"
		}
		return domain.Failure(reason), nil
	}
	return domain.StrategyOutcome{}, fmt.Errorf("fake strategy has unknown outcome %q", strategy.Outcome)
}
