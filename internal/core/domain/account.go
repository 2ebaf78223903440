package domain

import "time"

// OwnerKind identifies who holds a PaymentAccount.
type OwnerKind string

const (
	OwnerCustomer OwnerKind = "customer"
	OwnerVendor   OwnerKind = "vendor"
	OwnerPlatform OwnerKind = "platform"
)

// AccountOwner is exactly one of a customer, a vendor, or the platform.
type AccountOwner struct {
	CustomerID *string `json:"customerID,omitempty"`
	VendorID   *string `json:"vendorID,omitempty"`
	Platform   bool    `json:"platform"`
}

func CustomerOwner(id string) AccountOwner { return AccountOwner{CustomerID: &id} }
func VendorOwner(id string) AccountOwner   { return AccountOwner{VendorID: &id} }
func PlatformOwner() AccountOwner          { return AccountOwner{Platform: true} }

// Validate enforces the owner exclusivity rule.
func (o AccountOwner) Validate() error {
	set := 0
	if o.CustomerID != nil {
		if *o.CustomerID == "" {
			return ErrAccountAmbiguousOwner
		}
		set++
	}
	if o.VendorID != nil {
		if *o.VendorID == "" {
			return ErrAccountAmbiguousOwner
		}
		set++
	}
	if o.Platform {
		set++
	}
	if set != 1 {
		return ErrAccountAmbiguousOwner
	}
	return nil
}

// Kind returns the owner kind. It assumes Validate has passed.
func (o AccountOwner) Kind() OwnerKind {
	switch {
	case o.Platform:
		return OwnerPlatform
	case o.VendorID != nil:
		return OwnerVendor
	default:
		return OwnerCustomer
	}
}

// ID returns the customer or vendor id, or "" for the platform.
func (o AccountOwner) ID() string {
	switch {
	case o.CustomerID != nil:
		return *o.CustomerID
	case o.VendorID != nil:
		return *o.VendorID
	default:
		return ""
	}
}

// PaymentAccount holds the ledgers of one owner. Accounts are never deleted.
type PaymentAccount struct {
	AccountID string       `json:"accountID"`
	Owner     AccountOwner `json:"owner"`
	CreatedAt time.Time    `json:"createdAt"`
}

// IsPlatform reports whether this is the single platform account.
func (a PaymentAccount) IsPlatform() bool {
	return a.Owner.Platform
}

// Ledger belongs to one account and holds money in one currency.
// Its balance is always derived from book transactions.
type Ledger struct {
	LedgerID  string    `json:"ledgerID"`
	AccountID string    `json:"accountID"`
	Currency  string    `json:"currency"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlatformCashLabel is the label of the platform ledger that funding lands in.
const PlatformCashLabel = "cash"
