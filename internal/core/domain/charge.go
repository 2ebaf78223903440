package domain

import "time"

// Charge is a customer-facing cost for a commerce order and/or a mobility trip.
type Charge struct {
	ChargeID             string           `json:"chargeID"`
	MemberID             string           `json:"memberID"`
	CommerceOrderID      *string          `json:"commerceOrderID,omitempty"`
	MobilityTripID       *string          `json:"mobilityTripID,omitempty"`
	UndiscountedSubtotal Money            `json:"undiscountedSubtotal"`
	OffPlatformAmount    Money            `json:"offPlatformAmount"`
	LineItems            []ChargeLineItem `json:"lineItems"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Validate checks that the charge references something that was bought.
func (c Charge) Validate() error {
	if c.CommerceOrderID == nil && c.MobilityTripID == nil {
		return ErrChargeWithoutSubject
	}
	if c.UndiscountedSubtotal.IsNegative() || c.OffPlatformAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if c.OffPlatformAmount.Currency != "" && c.OffPlatformAmount.Currency != c.UndiscountedSubtotal.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// AttributedTotal is the sum of all line items.
func (c Charge) AttributedTotal() Money {
	total := Money{Currency: c.UndiscountedSubtotal.Currency}
	for _, li := range c.LineItems {
		total = total.Add(li.Amount)
	}
	return total
}

// ChargeLineItem attributes part of a charge to one book transaction, or to
// off-platform payment when BookTransactionID is nil.
type ChargeLineItem struct {
	LineItemID        string        `json:"lineItemID"`
	ChargeID          string        `json:"chargeID"`
	BookTransactionID *string       `json:"bookTransactionID,omitempty"`
	Amount            Money         `json:"amount"`
	Memo              LocalizedText `json:"memo"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// IsOffPlatform reports whether the line item has no backing book transaction.
func (li ChargeLineItem) IsOffPlatform() bool {
	return li.BookTransactionID == nil
}
