package strategies

import (
	"context"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// OffPlatformAdapter settles money an admin already received or sent outside
// the platform, such as a check.
type OffPlatformAdapter struct{}

var _ portssvc.StrategyAdapter = OffPlatformAdapter{}

func (OffPlatformAdapter) RetryOnTimeout() bool { return false }

func (OffPlatformAdapter) Execute(_ context.Context, txn domain.Settleable) (domain.StrategyOutcome, error) {
	strategy, ok := txn.Base().Strategy.(domain.OffPlatformStrategy)
	if !ok {
		return domain.StrategyOutcome{}, fmt.Errorf("off-platform adapter cannot execute %s strategy", txn.Base().Strategy.Kind())
	}
	ref := strategy.CheckOrTransactionNumber
	if ref == "" {
		ref = "off-platform-" + txn.Base().ID
	}
	return domain.Success(ref), nil
}
