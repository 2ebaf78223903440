package domain

import "time"

// LedgerBalance is one ledger's balance in a report.
type LedgerBalance struct {
	LedgerID     string    `json:"ledgerID"`
	AccountID    string    `json:"accountID"`
	OwnerKind    OwnerKind `json:"ownerKind"`
	Label        string    `json:"label"`
	Currency     string    `json:"currency"`
	BalanceCents int64     `json:"balanceCents"`
}

// TrialBalance lists every ledger's balance at a point in time.
// Money is only ever moved between ledgers, so each currency nets to zero.
type TrialBalance struct {
	AsOf          time.Time        `json:"asOf"`
	Rows          []LedgerBalance  `json:"rows"`
	NetByCurrency map[string]int64 `json:"netByCurrency"`
}

// Balanced reports whether every currency nets to zero.
func (tb TrialBalance) Balanced() bool {
	for _, net := range tb.NetByCurrency {
		if net != 0 {
			return false
		}
	}
	return true
}
