package memory

import (
	"context"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
)

func (v *view) FindChargeByID(_ context.Context, chargeID string) (*domain.Charge, error) {
	defer v.rlock()()
	c, ok := v.data().charges[chargeID]
	if !ok {
		return nil, fmt.Errorf("%w: charge %s", apperrors.ErrNotFound, chargeID)
	}
	c.LineItems = nil
	for _, li := range v.data().lineItems {
		if li.ChargeID == chargeID {
			c.LineItems = append(c.LineItems, li)
		}
	}
	return &c, nil
}

func (v *view) FindLineItemByBookTransaction(_ context.Context, bookTransactionID string) (*domain.ChargeLineItem, error) {
	defer v.rlock()()
	for _, li := range v.data().lineItems {
		if li.BookTransactionID != nil && *li.BookTransactionID == bookTransactionID {
			return &li, nil
		}
	}
	return nil, fmt.Errorf("%w: line item for book transaction %s", apperrors.ErrNotFound, bookTransactionID)
}

func (v *view) SaveCharge(_ context.Context, c domain.Charge) error {
	defer v.lock()()
	if _, ok := v.data().charges[c.ChargeID]; ok {
		return fmt.Errorf("%w: charge %s", apperrors.ErrDuplicate, c.ChargeID)
	}
	c.LineItems = nil
	v.data().charges[c.ChargeID] = c
	return nil
}

func (v *view) UpdateChargeOffPlatformAmount(_ context.Context, chargeID string, amount domain.Money) error {
	defer v.lock()()
	c, ok := v.data().charges[chargeID]
	if !ok {
		return fmt.Errorf("%w: charge %s", apperrors.ErrNotFound, chargeID)
	}
	c.OffPlatformAmount = amount
	v.data().charges[chargeID] = c
	return nil
}

func (v *view) SaveLineItems(_ context.Context, items []domain.ChargeLineItem) error {
	defer v.lock()()
	d := v.data()
	taken := make(map[string]bool)
	for _, li := range d.lineItems {
		if li.BookTransactionID != nil {
			taken[*li.BookTransactionID] = true
		}
	}
	for _, li := range items {
		if _, ok := d.charges[li.ChargeID]; !ok {
			return fmt.Errorf("%w: charge %s", apperrors.ErrNotFound, li.ChargeID)
		}
		if li.BookTransactionID == nil {
			continue
		}
		if taken[*li.BookTransactionID] {
			return fmt.Errorf("%w: %s", domain.ErrBookTransactionAlreadyCharged, *li.BookTransactionID)
		}
		taken[*li.BookTransactionID] = true
	}
	d.lineItems = append(d.lineItems, items...)
	return nil
}
