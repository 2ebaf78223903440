package dto

import (
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTriggerRequest defines a new subsidy matching rule.
type CreateTriggerRequest struct {
	Label                         string                 `json:"label" validate:"required"`
	ActiveFrom                    time.Time              `json:"activeFrom" validate:"required"`
	ActiveUntil                   time.Time              `json:"activeUntil"`
	MatchMultiplier               decimal.Decimal        `json:"matchMultiplier"`
	MaximumCumulativeSubsidyCents int64                  `json:"maximumCumulativeSubsidyCents" validate:"min=0"`
	UnmatchedAmountCents          int64                  `json:"unmatchedAmountCents" validate:"min=0"`
	UnmatchedPolicy               domain.UnmatchedPolicy `json:"unmatchedPolicy" validate:"omitempty,oneof=exclude threshold"`
	ActAsCredit                   bool                   `json:"actAsCredit"`
	CreditAmountCents             int64                  `json:"creditAmountCents" validate:"min=0"`
	OriginatingLedgerID           string                 `json:"originatingLedgerID" validate:"required"`
	ReceivingLedgerLabel          string                 `json:"receivingLedgerLabel" validate:"required"`
	Memo                          domain.LocalizedText   `json:"memo"`
}
