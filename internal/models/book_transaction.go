package models

import "time"

// Memo holds the localized memo columns shared by several tables.
type Memo struct {
	MemoEn string `db:"memo_en"`
	MemoEs string `db:"memo_es"`
}

// BookTransaction is a row of book_transactions. Rows are never updated.
type BookTransaction struct {
	BookTransactionID   string    `db:"book_transaction_id"`
	OriginatingLedgerID string    `db:"originating_ledger_id"`
	ReceivingLedgerID   string    `db:"receiving_ledger_id"`
	AmountCents         int64     `db:"amount_cents"`
	Currency            string    `db:"currency"`
	ApplyAt             time.Time `db:"apply_at"`
	CreatedAt           time.Time `db:"created_at"`
	Category            string    `db:"category"`
	Memo
	ActorID *string `db:"actor_id"`
}
