package mapping

import (
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/models"
)

// ToModelTrigger converts a PaymentTrigger to its row. An open-ended range is stored as NULL.
func ToModelTrigger(d domain.PaymentTrigger) models.PaymentTrigger {
	var until *time.Time
	if !d.ActiveDuring.End.IsZero() {
		end := d.ActiveDuring.End
		until = &end
	}
	return models.PaymentTrigger{
		TriggerID:                     d.TriggerID,
		Label:                         d.Label,
		ActiveFrom:                    d.ActiveDuring.Start,
		ActiveUntil:                   until,
		MatchMultiplier:               d.MatchMultiplier,
		MaximumCumulativeSubsidyCents: d.MaximumCumulativeSubsidyCents,
		UnmatchedAmountCents:          d.UnmatchedAmountCents,
		UnmatchedPolicy:               string(d.UnmatchedPolicy),
		ActAsCredit:                   d.ActAsCredit,
		CreditAmountCents:             d.CreditAmountCents,
		OriginatingLedgerID:           d.OriginatingLedgerID,
		ReceivingLedgerLabel:          d.ReceivingLedgerLabel,
		Memo:                          ToModelMemo(d.Memo),
		CreatedAt:                     d.CreatedAt,
	}
}

func ToDomainTrigger(m models.PaymentTrigger) domain.PaymentTrigger {
	active := domain.TimeRange{Start: m.ActiveFrom.UTC()}
	if m.ActiveUntil != nil {
		active.End = m.ActiveUntil.UTC()
	}
	return domain.PaymentTrigger{
		TriggerID:                     m.TriggerID,
		Label:                         m.Label,
		ActiveDuring:                  active,
		MatchMultiplier:               m.MatchMultiplier,
		MaximumCumulativeSubsidyCents: m.MaximumCumulativeSubsidyCents,
		UnmatchedAmountCents:          m.UnmatchedAmountCents,
		UnmatchedPolicy:               domain.UnmatchedPolicy(m.UnmatchedPolicy),
		ActAsCredit:                   m.ActAsCredit,
		CreditAmountCents:             m.CreditAmountCents,
		OriginatingLedgerID:           m.OriginatingLedgerID,
		ReceivingLedgerLabel:          m.ReceivingLedgerLabel,
		Memo:                          ToDomainMemo(m.Memo),
		CreatedAt:                     m.CreatedAt.UTC(),
	}
}

func ToDomainTriggers(ms []models.PaymentTrigger) []domain.PaymentTrigger {
	ds := make([]domain.PaymentTrigger, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTrigger(m)
	}
	return ds
}

func ToModelExecution(d domain.PaymentTriggerExecution) models.PaymentTriggerExecution {
	return models.PaymentTriggerExecution(d)
}

func ToDomainExecution(m models.PaymentTriggerExecution) domain.PaymentTriggerExecution {
	d := domain.PaymentTriggerExecution(m)
	d.CreatedAt = d.CreatedAt.UTC()
	return d
}

func ToDomainExecutions(ms []models.PaymentTriggerExecution) []domain.PaymentTriggerExecution {
	ds := make([]domain.PaymentTriggerExecution, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExecution(m)
	}
	return ds
}
