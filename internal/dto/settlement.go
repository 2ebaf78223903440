package dto

import "github.com/lithictech/suma-sub001/internal/core/domain"

// CreateFundingRequest creates a funding transaction in the created state.
// AccountLedgerID defaults to the account's cash ledger in the amount's currency.
type CreateFundingRequest struct {
	AccountID       string               `json:"accountID" validate:"required"`
	AccountLedgerID string               `json:"accountLedgerID,omitempty"`
	Amount          domain.Money         `json:"amount"`
	Strategy        domain.Strategy      `json:"-"`
	Memo            domain.LocalizedText `json:"memo"`
	ActorID         *string              `json:"actorID,omitempty"`
}

// CreatePayoutRequest creates a payout transaction in the created state.
type CreatePayoutRequest struct {
	AccountID       string               `json:"accountID" validate:"required"`
	AccountLedgerID string               `json:"accountLedgerID,omitempty"`
	Amount          domain.Money         `json:"amount"`
	Strategy        domain.Strategy      `json:"-"`
	Memo            domain.LocalizedText `json:"memo"`
	ActorID         *string              `json:"actorID,omitempty"`
}

// RefundRequest refunds a settled funding transaction through a new payout.
// A zero Amount refunds the whole funding amount.
type RefundRequest struct {
	Amount   domain.Money         `json:"amount"`
	Strategy domain.Strategy      `json:"-"`
	Reason   string               `json:"reason" validate:"required"`
	Memo     domain.LocalizedText `json:"memo"`
	ActorID  *string              `json:"actorID,omitempty"`
}

// ReverseRequest reverses a settled funding or payout transaction.
type ReverseRequest struct {
	Reason  string  `json:"reason" validate:"required"`
	ActorID *string `json:"actorID,omitempty"`
}
