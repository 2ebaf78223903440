package domain

import "time"

// BookTransaction is an immutable transfer between two ledgers.
// Corrections are made with an offsetting transaction, never by editing.
type BookTransaction struct {
	BookTransactionID   string        `json:"bookTransactionID"`
	OriginatingLedgerID string        `json:"originatingLedgerID"`
	ReceivingLedgerID   string        `json:"receivingLedgerID"`
	Amount              Money         `json:"amount"`
	ApplyAt             time.Time     `json:"applyAt"`
	CreatedAt           time.Time     `json:"createdAt"`
	Category            string        `json:"category,omitempty"`
	Memo                LocalizedText `json:"memo"`
	ActorID             *string       `json:"actorID,omitempty"`
}

// ValidateTransfer checks the preconditions of a transfer between two ledgers.
func ValidateTransfer(from, to Ledger, amount Money) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if from.LedgerID == to.LedgerID {
		return ErrSameLedger
	}
	if amount.Currency != from.Currency || amount.Currency != to.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// SignedCentsFor returns the effect of the transaction on ledgerID's balance.
func (t BookTransaction) SignedCentsFor(ledgerID string) int64 {
	switch ledgerID {
	case t.ReceivingLedgerID:
		return t.Amount.Cents
	case t.OriginatingLedgerID:
		return -t.Amount.Cents
	default:
		return 0
	}
}

// Touches reports whether the transaction moves money in or out of ledgerID.
func (t BookTransaction) Touches(ledgerID string) bool {
	return t.OriginatingLedgerID == ledgerID || t.ReceivingLedgerID == ledgerID
}

// CountsAt reports whether the transaction is included in a balance taken at asOf.
// Pending (future-dated) transactions are only counted when includePending is set.
func (t BookTransaction) CountsAt(asOf time.Time, includePending bool) bool {
	return includePending || !t.ApplyAt.After(asOf)
}

// ByApplyAtDesc orders transactions newest first, ties broken by id descending.
func ByApplyAtDesc(a, b BookTransaction) int {
	if c := b.ApplyAt.Compare(a.ApplyAt); c != 0 {
		return c
	}
	switch {
	case a.BookTransactionID > b.BookTransactionID:
		return -1
	case a.BookTransactionID < b.BookTransactionID:
		return 1
	default:
		return 0
	}
}

// Categories assigned to book transactions written by the settlement and trigger engines.
const (
	CategoryFunding      = "funding"
	CategoryPayout       = "payout"
	CategoryReversal     = "reversal"
	CategoryRefund       = "refund"
	CategorySubsidyMatch = "subsidy_match"
)
