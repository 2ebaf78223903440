package models

import "time"

// Charge is a row of charges.
type Charge struct {
	ChargeID                  string    `db:"charge_id"`
	MemberID                  string    `db:"member_id"`
	CommerceOrderID           *string   `db:"commerce_order_id"`
	MobilityTripID            *string   `db:"mobility_trip_id"`
	UndiscountedSubtotalCents int64     `db:"undiscounted_subtotal_cents"`
	OffPlatformAmountCents    int64     `db:"off_platform_amount_cents"`
	Currency                  string    `db:"currency"`
	CreatedAt                 time.Time `db:"created_at"`
}

// ChargeLineItem is a row of charge_line_items. A NULL BookTransactionID marks off-platform payment.
type ChargeLineItem struct {
	LineItemID        string  `db:"line_item_id"`
	ChargeID          string  `db:"charge_id"`
	BookTransactionID *string `db:"book_transaction_id"`
	AmountCents       int64   `db:"amount_cents"`
	Currency          string  `db:"currency"`
	Memo
	CreatedAt time.Time `db:"created_at"`
}
