package mapping

import (
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/models"
)

// ToModelAccount converts a domain PaymentAccount to its row.
func ToModelAccount(d domain.PaymentAccount) models.PaymentAccount {
	return models.PaymentAccount{
		AccountID:  d.AccountID,
		CustomerID: d.Owner.CustomerID,
		VendorID:   d.Owner.VendorID,
		IsPlatform: d.Owner.Platform,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAccount converts a payment_accounts row to a domain PaymentAccount.
func ToDomainAccount(m models.PaymentAccount) domain.PaymentAccount {
	return domain.PaymentAccount{
		AccountID: m.AccountID,
		Owner: domain.AccountOwner{
			CustomerID: m.CustomerID,
			VendorID:   m.VendorID,
			Platform:   m.IsPlatform,
		},
		CreatedAt: m.CreatedAt,
	}
}

func ToDomainAccounts(ms []models.PaymentAccount) []domain.PaymentAccount {
	ds := make([]domain.PaymentAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

func ToModelLedger(d domain.Ledger) models.Ledger {
	return models.Ledger{
		LedgerID:  d.LedgerID,
		AccountID: d.AccountID,
		Currency:  d.Currency,
		Label:     d.Label,
		CreatedAt: d.CreatedAt,
	}
}

func ToDomainLedger(m models.Ledger) domain.Ledger {
	return domain.Ledger{
		LedgerID:  m.LedgerID,
		AccountID: m.AccountID,
		Currency:  m.Currency,
		Label:     m.Label,
		CreatedAt: m.CreatedAt,
	}
}

func ToDomainLedgers(ms []models.Ledger) []domain.Ledger {
	ds := make([]domain.Ledger, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedger(m)
	}
	return ds
}
