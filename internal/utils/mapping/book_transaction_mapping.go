package mapping

import (
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/models"
)

func ToModelMemo(t domain.LocalizedText) models.Memo {
	return models.Memo{MemoEn: t.En, MemoEs: t.Es}
}

func ToDomainMemo(m models.Memo) domain.LocalizedText {
	return domain.LocalizedText{En: m.MemoEn, Es: m.MemoEs}
}

// ToModelBookTransaction converts a domain BookTransaction to its row.
func ToModelBookTransaction(d domain.BookTransaction) models.BookTransaction {
	return models.BookTransaction{
		BookTransactionID:   d.BookTransactionID,
		OriginatingLedgerID: d.OriginatingLedgerID,
		ReceivingLedgerID:   d.ReceivingLedgerID,
		AmountCents:         d.Amount.Cents,
		Currency:            d.Amount.Currency,
		ApplyAt:             d.ApplyAt,
		CreatedAt:           d.CreatedAt,
		Category:            d.Category,
		Memo:                ToModelMemo(d.Memo),
		ActorID:             d.ActorID,
	}
}

// ToDomainBookTransaction converts a book_transactions row to a domain BookTransaction.
// Timestamps come back from Postgres in local time and are normalized to UTC.
func ToDomainBookTransaction(m models.BookTransaction) domain.BookTransaction {
	return domain.BookTransaction{
		BookTransactionID:   m.BookTransactionID,
		OriginatingLedgerID: m.OriginatingLedgerID,
		ReceivingLedgerID:   m.ReceivingLedgerID,
		Amount:              domain.Money{Cents: m.AmountCents, Currency: m.Currency},
		ApplyAt:             m.ApplyAt.UTC(),
		CreatedAt:           m.CreatedAt.UTC(),
		Category:            m.Category,
		Memo:                ToDomainMemo(m.Memo),
		ActorID:             m.ActorID,
	}
}

func ToDomainBookTransactions(ms []models.BookTransaction) []domain.BookTransaction {
	ds := make([]domain.BookTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBookTransaction(m)
	}
	return ds
}
