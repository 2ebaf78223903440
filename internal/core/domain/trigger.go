package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UnmatchedPolicy decides how UnmatchedAmountCents reduces the matchable base.
type UnmatchedPolicy string

const (
	// UnmatchedExclude subtracts the unmatched amount from every source amount.
	UnmatchedExclude UnmatchedPolicy = "exclude"
	// UnmatchedThreshold matches the whole source amount once it exceeds the unmatched amount.
	UnmatchedThreshold UnmatchedPolicy = "threshold"
)

// PaymentTrigger is a subsidy matching rule.
type PaymentTrigger struct {
	TriggerID                     string          `json:"triggerID"`
	Label                         string          `json:"label"`
	ActiveDuring                  TimeRange       `json:"activeDuring"`
	MatchMultiplier               decimal.Decimal `json:"matchMultiplier"`
	MaximumCumulativeSubsidyCents int64           `json:"maximumCumulativeSubsidyCents"`
	UnmatchedAmountCents          int64           `json:"unmatchedAmountCents"`
	UnmatchedPolicy               UnmatchedPolicy `json:"unmatchedPolicy"`
	ActAsCredit                   bool            `json:"actAsCredit"`
	CreditAmountCents             int64           `json:"creditAmountCents"`
	OriginatingLedgerID           string          `json:"originatingLedgerID"`
	ReceivingLedgerLabel          string          `json:"receivingLedgerLabel"`
	Memo                          LocalizedText   `json:"memo"`
	CreatedAt                     time.Time       `json:"createdAt"`
}

// Validate checks the trigger's configuration.
func (t PaymentTrigger) Validate() error {
	if t.Label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidTrigger)
	}
	if t.OriginatingLedgerID == "" || t.ReceivingLedgerLabel == "" {
		return fmt.Errorf("%w: originating ledger and receiving ledger label are required", ErrInvalidTrigger)
	}
	if err := t.ActiveDuring.Validate(); err != nil {
		return err
	}
	if t.MaximumCumulativeSubsidyCents < 0 || t.UnmatchedAmountCents < 0 || t.CreditAmountCents < 0 {
		return fmt.Errorf("%w: cent amounts must not be negative", ErrInvalidTrigger)
	}
	if t.MatchMultiplier.IsNegative() {
		return fmt.Errorf("%w: match multiplier must not be negative", ErrInvalidTrigger)
	}
	switch t.UnmatchedPolicy {
	case UnmatchedExclude, UnmatchedThreshold:
	default:
		return fmt.Errorf("%w: unknown unmatched policy %q", ErrInvalidTrigger, t.UnmatchedPolicy)
	}
	return nil
}

// IsActiveAt reports whether the trigger applies to a transaction applied at t.
func (t PaymentTrigger) IsActiveAt(at time.Time) bool {
	return t.ActiveDuring.Contains(at)
}

// MatchableBase applies the unmatched policy to a source amount.
func (t PaymentTrigger) MatchableBase(sourceCents int64) int64 {
	switch t.UnmatchedPolicy {
	case UnmatchedThreshold:
		if sourceCents > t.UnmatchedAmountCents {
			return sourceCents
		}
		return 0
	default:
		return max(0, sourceCents-t.UnmatchedAmountCents)
	}
}

// ComputeMatch returns the subsidy for a source amount given what the trigger
// has already granted. The result never takes the trigger past its cap.
func (t PaymentTrigger) ComputeMatch(sourceCents, cumulativeCents int64) int64 {
	remaining := t.MaximumCumulativeSubsidyCents - cumulativeCents
	if remaining <= 0 {
		return 0
	}
	if t.ActAsCredit {
		return max(0, min(t.CreditAmountCents, remaining))
	}
	base := t.MatchableBase(sourceCents)
	if base <= 0 {
		return 0
	}
	match := decimal.NewFromInt(min(base, remaining)).Mul(t.MatchMultiplier).Floor().IntPart()
	return max(0, min(match, remaining))
}

// PaymentTriggerExecution records the match a trigger produced for a source transaction.
// There is at most one per (TriggerID, SourceBookTransactionID).
type PaymentTriggerExecution struct {
	ExecutionID             string    `json:"executionID"`
	TriggerID               string    `json:"triggerID"`
	SourceBookTransactionID string    `json:"sourceBookTransactionID"`
	MatchBookTransactionID  string    `json:"matchBookTransactionID"`
	MatchedCents            int64     `json:"matchedCents"`
	CreatedAt               time.Time `json:"createdAt"`
}
