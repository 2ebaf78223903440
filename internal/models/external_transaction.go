package models

import "time"

// ExternalTransaction holds the columns shared by funding_transactions and payout_transactions.
type ExternalTransaction struct {
	ID                        string     `db:"id"`
	AccountID                 string     `db:"account_id"`
	AccountLedgerID           string     `db:"account_ledger_id"`
	PlatformLedgerID          string     `db:"platform_ledger_id"`
	AmountCents               int64      `db:"amount_cents"`
	Currency                  string     `db:"currency"`
	StrategyKind              string     `db:"strategy_kind"`
	StrategyDetails           []byte     `db:"strategy_details"`
	Status                    string     `db:"status"`
	ExternalRef               string     `db:"external_ref"`
	ReversalBookTransactionID *string    `db:"reversal_book_transaction_id"`
	SubmittingUntil           *time.Time `db:"submitting_until"`
	CreatedAt                 time.Time  `db:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at"`
	Memo
}

// FundingTransaction is a row of funding_transactions.
type FundingTransaction struct {
	ExternalTransaction
	OriginatedBookTransactionID *string `db:"originated_book_transaction_id"`
}

// PayoutTransaction is a row of payout_transactions.
type PayoutTransaction struct {
	ExternalTransaction
	CreditingBookTransactionID   *string `db:"crediting_book_transaction_id"`
	RefundedFundingTransactionID *string `db:"refunded_funding_transaction_id"`
}

// AuditLogEntry is a row of transaction_audit_log.
type AuditLogEntry struct {
	AuditLogEntryID string    `db:"audit_log_entry_id"`
	SubjectKind     string    `db:"subject_kind"`
	SubjectID       string    `db:"subject_id"`
	At              time.Time `db:"at"`
	Event           string    `db:"event"`
	FromState       string    `db:"from_state"`
	ToState         string    `db:"to_state"`
	Reason          string    `db:"reason"`
	Messages        []string  `db:"messages"`
	ActorID         *string   `db:"actor_id"`
}

// IdempotencyKey is a row of idempotency_keys.
type IdempotencyKey struct {
	Key     string    `db:"key"`
	LastRun time.Time `db:"last_run"`
	Result  []byte    `db:"result"`
}
