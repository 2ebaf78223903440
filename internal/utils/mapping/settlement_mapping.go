package mapping

import (
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/models"
)

// ToModelExternalTransaction encodes the shared columns, including the strategy details.
func ToModelExternalTransaction(d domain.ExternalTransaction) (models.ExternalTransaction, error) {
	kind, details, err := domain.MarshalStrategy(d.Strategy)
	if err != nil {
		return models.ExternalTransaction{}, err
	}
	return models.ExternalTransaction{
		ID:                        d.ID,
		AccountID:                 d.AccountID,
		AccountLedgerID:           d.AccountLedgerID,
		PlatformLedgerID:          d.PlatformLedgerID,
		AmountCents:               d.Amount.Cents,
		Currency:                  d.Amount.Currency,
		StrategyKind:              string(kind),
		StrategyDetails:           details,
		Status:                    string(d.Status),
		ExternalRef:               d.ExternalRef,
		ReversalBookTransactionID: d.ReversalBookTransactionID,
		SubmittingUntil:           d.SubmittingUntil,
		CreatedAt:                 d.CreatedAt,
		UpdatedAt:                 d.UpdatedAt,
		Memo:                      ToModelMemo(d.Memo),
	}, nil
}

func ToDomainExternalTransaction(m models.ExternalTransaction) (domain.ExternalTransaction, error) {
	strategy, err := domain.UnmarshalStrategy(domain.StrategyKind(m.StrategyKind), m.StrategyDetails)
	if err != nil {
		return domain.ExternalTransaction{}, err
	}
	return domain.ExternalTransaction{
		ID:                        m.ID,
		AccountID:                 m.AccountID,
		AccountLedgerID:           m.AccountLedgerID,
		PlatformLedgerID:          m.PlatformLedgerID,
		Amount:                    domain.Money{Cents: m.AmountCents, Currency: m.Currency},
		Strategy:                  strategy,
		Status:                    domain.TransactionStatus(m.Status),
		ExternalRef:               m.ExternalRef,
		ReversalBookTransactionID: m.ReversalBookTransactionID,
		SubmittingUntil:           utcPtr(m.SubmittingUntil),
		Memo:                      ToDomainMemo(m.Memo),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func ToModelFunding(d *domain.FundingTransaction) (models.FundingTransaction, error) {
	base, err := ToModelExternalTransaction(d.ExternalTransaction)
	if err != nil {
		return models.FundingTransaction{}, err
	}
	return models.FundingTransaction{
		ExternalTransaction:         base,
		OriginatedBookTransactionID: d.OriginatedBookTransactionID,
	}, nil
}

func ToDomainFunding(m models.FundingTransaction) (*domain.FundingTransaction, error) {
	base, err := ToDomainExternalTransaction(m.ExternalTransaction)
	if err != nil {
		return nil, err
	}
	return &domain.FundingTransaction{
		ExternalTransaction:         base,
		OriginatedBookTransactionID: m.OriginatedBookTransactionID,
	}, nil
}

func ToModelPayout(d *domain.PayoutTransaction) (models.PayoutTransaction, error) {
	base, err := ToModelExternalTransaction(d.ExternalTransaction)
	if err != nil {
		return models.PayoutTransaction{}, err
	}
	return models.PayoutTransaction{
		ExternalTransaction:          base,
		CreditingBookTransactionID:   d.CreditingBookTransactionID,
		RefundedFundingTransactionID: d.RefundedFundingTransactionID,
	}, nil
}

func ToDomainPayout(m models.PayoutTransaction) (*domain.PayoutTransaction, error) {
	base, err := ToDomainExternalTransaction(m.ExternalTransaction)
	if err != nil {
		return nil, err
	}
	return &domain.PayoutTransaction{
		ExternalTransaction:          base,
		CreditingBookTransactionID:   m.CreditingBookTransactionID,
		RefundedFundingTransactionID: m.RefundedFundingTransactionID,
	}, nil
}

func ToModelAuditLogEntry(d domain.TransactionAuditLogEntry) models.AuditLogEntry {
	messages := d.Messages
	if messages == nil {
		messages = []string{}
	}
	return models.AuditLogEntry{
		AuditLogEntryID: d.AuditLogEntryID,
		SubjectKind:     string(d.Subject.Kind),
		SubjectID:       d.Subject.ID,
		At:              d.At,
		Event:           string(d.Event),
		FromState:       string(d.FromState),
		ToState:         string(d.ToState),
		Reason:          d.Reason,
		Messages:        messages,
		ActorID:         d.ActorID,
	}
}

func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.TransactionAuditLogEntry {
	messages := m.Messages
	if messages == nil {
		messages = []string{}
	}
	return domain.TransactionAuditLogEntry{
		AuditLogEntryID: m.AuditLogEntryID,
		Subject:         domain.SubjectRef{Kind: domain.SubjectKind(m.SubjectKind), ID: m.SubjectID},
		At:              m.At.UTC(),
		Event:           domain.AuditEvent(m.Event),
		FromState:       domain.TransactionStatus(m.FromState),
		ToState:         domain.TransactionStatus(m.ToState),
		Reason:          m.Reason,
		Messages:        messages,
		ActorID:         m.ActorID,
	}
}

func ToDomainIdempotencyRecord(m models.IdempotencyKey) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{Key: m.Key, LastRun: m.LastRun.UTC(), Result: m.Result}
}
