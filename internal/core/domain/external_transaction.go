package domain

import "time"

// SubjectKind identifies which kind of external transaction an entry refers to.
type SubjectKind string

const (
	SubjectFunding SubjectKind = "funding_transaction"
	SubjectPayout  SubjectKind = "payout_transaction"
)

// SubjectRef points at a funding or payout transaction.
type SubjectRef struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

// ExternalTransaction holds the fields shared by funding and payout transactions.
// Only Status, ExternalRef, the submission lease and the book transaction links
// change after creation.
type ExternalTransaction struct {
	ID                        string            `json:"id"`
	AccountID                 string            `json:"accountID"`
	AccountLedgerID           string            `json:"accountLedgerID"`
	PlatformLedgerID          string            `json:"platformLedgerID"`
	Amount                    Money             `json:"amount"`
	Strategy                  Strategy          `json:"strategy"`
	Status                    TransactionStatus `json:"status"`
	ExternalRef               string            `json:"externalRef,omitempty"`
	ReversalBookTransactionID *string           `json:"reversalBookTransactionID,omitempty"`
	// SubmittingUntil is set while one caller is running the strategy.
	SubmittingUntil *time.Time    `json:"submittingUntil,omitempty"`
	Memo            LocalizedText `json:"memo"`
	Timestamps
}

// LeaseHeld reports whether another caller is running the strategy at now.
func (t *ExternalTransaction) LeaseHeld(now time.Time) bool {
	return t.SubmittingUntil != nil && now.Before(*t.SubmittingUntil)
}

// Settleable is implemented by FundingTransaction and PayoutTransaction.
type Settleable interface {
	Ref() SubjectRef
	Base() *ExternalTransaction
	// SettlementLegs returns the originating and receiving ledger of the success transfer.
	SettlementLegs() (from, to string)
	// SettledBookTransactionID is the transfer recorded on success, if any.
	SettledBookTransactionID() *string
	SetSettledBookTransactionID(id string)
}

// Transition moves s to next or returns an InvalidStateTransitionError.
func Transition(s Settleable, next TransactionStatus, at time.Time) error {
	base := s.Base()
	if !base.Status.CanTransitionTo(next) {
		return &InvalidStateTransitionError{Subject: s.Ref(), From: base.Status, To: next}
	}
	base.Status = next
	base.UpdatedAt = at
	return nil
}

// FundingTransaction brings external money onto the platform.
type FundingTransaction struct {
	ExternalTransaction
	OriginatedBookTransactionID *string `json:"originatedBookTransactionID,omitempty"`
}

func (f *FundingTransaction) Ref() SubjectRef {
	return SubjectRef{Kind: SubjectFunding, ID: f.ID}
}

func (f *FundingTransaction) Base() *ExternalTransaction { return &f.ExternalTransaction }

func (f *FundingTransaction) SettlementLegs() (string, string) {
	return f.AccountLedgerID, f.PlatformLedgerID
}

func (f *FundingTransaction) SettledBookTransactionID() *string {
	return f.OriginatedBookTransactionID
}

func (f *FundingTransaction) SetSettledBookTransactionID(id string) {
	f.OriginatedBookTransactionID = &id
}

// PayoutTransaction sends platform money out. A payout that refunds a funding
// transaction carries both the refunded funding id and its crediting book transaction.
type PayoutTransaction struct {
	ExternalTransaction
	CreditingBookTransactionID   *string `json:"creditingBookTransactionID,omitempty"`
	RefundedFundingTransactionID *string `json:"refundedFundingTransactionID,omitempty"`
}

func (p *PayoutTransaction) Ref() SubjectRef {
	return SubjectRef{Kind: SubjectPayout, ID: p.ID}
}

func (p *PayoutTransaction) Base() *ExternalTransaction { return &p.ExternalTransaction }

func (p *PayoutTransaction) SettlementLegs() (string, string) {
	return p.PlatformLedgerID, p.AccountLedgerID
}

func (p *PayoutTransaction) SettledBookTransactionID() *string {
	return p.CreditingBookTransactionID
}

func (p *PayoutTransaction) SetSettledBookTransactionID(id string) {
	p.CreditingBookTransactionID = &id
}

// IsRefund reports whether the payout refunds a funding transaction.
func (p *PayoutTransaction) IsRefund() bool {
	return p.RefundedFundingTransactionID != nil
}

// Validate enforces the refund pair invariant.
func (p *PayoutTransaction) Validate() error {
	if p.RefundedFundingTransactionID != nil && p.CreditingBookTransactionID == nil {
		return ErrRefundPairIncomplete
	}
	return nil
}

var (
	_ Settleable = (*FundingTransaction)(nil)
	_ Settleable = (*PayoutTransaction)(nil)
)
