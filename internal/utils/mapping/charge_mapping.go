package mapping

import (
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/models"
)

func ToModelCharge(d domain.Charge) models.Charge {
	return models.Charge{
		ChargeID:                  d.ChargeID,
		MemberID:                  d.MemberID,
		CommerceOrderID:           d.CommerceOrderID,
		MobilityTripID:            d.MobilityTripID,
		UndiscountedSubtotalCents: d.UndiscountedSubtotal.Cents,
		OffPlatformAmountCents:    d.OffPlatformAmount.Cents,
		Currency:                  d.UndiscountedSubtotal.Currency,
		CreatedAt:                 d.CreatedAt,
	}
}

// ToDomainCharge converts a charges row and its line items to a domain Charge.
func ToDomainCharge(m models.Charge, items []models.ChargeLineItem) domain.Charge {
	lineItems := make([]domain.ChargeLineItem, len(items))
	for i, li := range items {
		lineItems[i] = ToDomainLineItem(li)
	}
	return domain.Charge{
		ChargeID:             m.ChargeID,
		MemberID:             m.MemberID,
		CommerceOrderID:      m.CommerceOrderID,
		MobilityTripID:       m.MobilityTripID,
		UndiscountedSubtotal: domain.Money{Cents: m.UndiscountedSubtotalCents, Currency: m.Currency},
		OffPlatformAmount:    domain.Money{Cents: m.OffPlatformAmountCents, Currency: m.Currency},
		LineItems:            lineItems,
		CreatedAt:            m.CreatedAt.UTC(),
	}
}

func ToModelLineItem(d domain.ChargeLineItem) models.ChargeLineItem {
	return models.ChargeLineItem{
		LineItemID:        d.LineItemID,
		ChargeID:          d.ChargeID,
		BookTransactionID: d.BookTransactionID,
		AmountCents:       d.Amount.Cents,
		Currency:          d.Amount.Currency,
		Memo:              ToModelMemo(d.Memo),
		CreatedAt:         d.CreatedAt,
	}
}

func ToDomainLineItem(m models.ChargeLineItem) domain.ChargeLineItem {
	return domain.ChargeLineItem{
		LineItemID:        m.LineItemID,
		ChargeID:          m.ChargeID,
		BookTransactionID: m.BookTransactionID,
		Amount:            domain.Money{Cents: m.AmountCents, Currency: m.Currency},
		Memo:              ToDomainMemo(m.Memo),
		CreatedAt:         m.CreatedAt.UTC(),
	}
}
