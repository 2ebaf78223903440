package repositories

import (
	"context"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// ChargeRepositoryFacade persists charges and their line items.
type ChargeRepositoryFacade interface {
	// FindChargeByID returns the charge with its line items.
	FindChargeByID(ctx context.Context, chargeID string) (*domain.Charge, error)
	FindLineItemByBookTransaction(ctx context.Context, bookTransactionID string) (*domain.ChargeLineItem, error)

	SaveCharge(ctx context.Context, charge domain.Charge) error
	UpdateChargeOffPlatformAmount(ctx context.Context, chargeID string, amount domain.Money) error
	// SaveLineItems fails with domain.ErrBookTransactionAlreadyCharged when a
	// book transaction is already attributed to any charge.
	SaveLineItems(ctx context.Context, items []domain.ChargeLineItem) error
}
