package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTrigger is a row of payment_triggers. A NULL ActiveUntil means open-ended.
type PaymentTrigger struct {
	TriggerID                     string          `db:"trigger_id"`
	Label                         string          `db:"label"`
	ActiveFrom                    time.Time       `db:"active_from"`
	ActiveUntil                   *time.Time      `db:"active_until"`
	MatchMultiplier               decimal.Decimal `db:"match_multiplier"`
	MaximumCumulativeSubsidyCents int64           `db:"maximum_cumulative_subsidy_cents"`
	UnmatchedAmountCents          int64           `db:"unmatched_amount_cents"`
	UnmatchedPolicy               string          `db:"unmatched_policy"`
	ActAsCredit                   bool            `db:"act_as_credit"`
	CreditAmountCents             int64           `db:"credit_amount_cents"`
	OriginatingLedgerID           string          `db:"originating_ledger_id"`
	ReceivingLedgerLabel          string          `db:"receiving_ledger_label"`
	Memo
	CreatedAt time.Time `db:"created_at"`
}

// PaymentTriggerExecution is a row of payment_trigger_executions.
type PaymentTriggerExecution struct {
	ExecutionID             string    `db:"execution_id"`
	TriggerID               string    `db:"trigger_id"`
	SourceBookTransactionID string    `db:"source_book_transaction_id"`
	MatchBookTransactionID  string    `db:"match_book_transaction_id"`
	MatchedCents            int64     `db:"matched_cents"`
	CreatedAt               time.Time `db:"created_at"`
}
