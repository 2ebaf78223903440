package dto

import (
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
)

// OpenLedgerRequest opens a ledger on an existing account.
type OpenLedgerRequest struct {
	AccountID string `json:"accountID" validate:"required"`
	Currency  string `json:"currency" validate:"required,len=3,uppercase"`
	Label     string `json:"label" validate:"required"`
}

// BalanceQuery selects the point in time a balance is taken at.
// A zero AsOf means now.
type BalanceQuery struct {
	AsOf           time.Time `json:"asOf"`
	IncludePending bool      `json:"includePending"`
}

// ListLedgerTransactionsParams defines the parameters for listing a ledger's statement.
type ListLedgerTransactionsParams struct {
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=500"`
	NextToken *string `json:"nextToken,omitempty"`
}

// ListLedgerTransactionsResponse is one page of a ledger statement.
type ListLedgerTransactionsResponse struct {
	Transactions []LedgerStatementLine `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// LedgerStatementLine is a book transaction seen from one ledger.
type LedgerStatementLine struct {
	BookTransaction domain.BookTransaction `json:"bookTransaction"`
	SignedCents     int64                  `json:"signedCents"`
}

// TransferRequest moves money between two ledgers.
// A zero ApplyAt means now.
type TransferRequest struct {
	OriginatingLedgerID string               `json:"originatingLedgerID" validate:"required"`
	ReceivingLedgerID   string               `json:"receivingLedgerID" validate:"required"`
	Amount              domain.Money         `json:"amount"`
	Memo                domain.LocalizedText `json:"memo"`
	Category            string               `json:"category,omitempty"`
	ActorID             *string              `json:"actorID,omitempty"`
	ApplyAt             time.Time            `json:"applyAt"`
}
