package models

import "time"

// PaymentAccount is a row of payment_accounts. Exactly one of CustomerID,
// VendorID and IsPlatform is set.
type PaymentAccount struct {
	AccountID  string    `db:"account_id"`
	CustomerID *string   `db:"customer_id"`
	VendorID   *string   `db:"vendor_id"`
	IsPlatform bool      `db:"is_platform"`
	CreatedAt  time.Time `db:"created_at"`
}

// Ledger is a row of ledgers.
type Ledger struct {
	LedgerID  string    `db:"ledger_id"`
	AccountID string    `db:"account_id"`
	Currency  string    `db:"currency"`
	Label     string    `db:"label"`
	CreatedAt time.Time `db:"created_at"`
}
