package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
)

func (v *view) FindFundingTransactionByID(_ context.Context, id string) (*domain.FundingTransaction, error) {
	defer v.rlock()()
	f, ok := v.data().funding[id]
	if !ok {
		return nil, fmt.Errorf("%w: funding transaction %s", apperrors.ErrNotFound, id)
	}
	return &f, nil
}

// LockFundingTransaction is a plain read: the store lock is already exclusive.
func (v *view) LockFundingTransaction(ctx context.Context, id string) (*domain.FundingTransaction, error) {
	return v.FindFundingTransactionByID(ctx, id)
}

func (v *view) SaveFundingTransaction(_ context.Context, f *domain.FundingTransaction) error {
	defer v.lock()()
	if _, ok := v.data().funding[f.ID]; ok {
		return fmt.Errorf("%w: funding transaction %s", apperrors.ErrDuplicate, f.ID)
	}
	v.data().funding[f.ID] = *f
	return nil
}

func (v *view) UpdateFundingTransaction(_ context.Context, f *domain.FundingTransaction) error {
	defer v.lock()()
	existing, ok := v.data().funding[f.ID]
	if !ok {
		return fmt.Errorf("%w: funding transaction %s", apperrors.ErrNotFound, f.ID)
	}
	existing.Status = f.Status
	existing.ExternalRef = f.ExternalRef
	existing.OriginatedBookTransactionID = f.OriginatedBookTransactionID
	existing.ReversalBookTransactionID = f.ReversalBookTransactionID
	existing.SubmittingUntil = f.SubmittingUntil
	existing.UpdatedAt = f.UpdatedAt
	v.data().funding[f.ID] = existing
	return nil
}

func (v *view) FindPayoutTransactionByID(_ context.Context, id string) (*domain.PayoutTransaction, error) {
	defer v.rlock()()
	p, ok := v.data().payouts[id]
	if !ok {
		return nil, fmt.Errorf("%w: payout transaction %s", apperrors.ErrNotFound, id)
	}
	return &p, nil
}

func (v *view) LockPayoutTransaction(ctx context.Context, id string) (*domain.PayoutTransaction, error) {
	return v.FindPayoutTransactionByID(ctx, id)
}

func (v *view) SavePayoutTransaction(_ context.Context, p *domain.PayoutTransaction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	defer v.lock()()
	if _, ok := v.data().payouts[p.ID]; ok {
		return fmt.Errorf("%w: payout transaction %s", apperrors.ErrDuplicate, p.ID)
	}
	v.data().payouts[p.ID] = *p
	return nil
}

func (v *view) UpdatePayoutTransaction(_ context.Context, p *domain.PayoutTransaction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	defer v.lock()()
	existing, ok := v.data().payouts[p.ID]
	if !ok {
		return fmt.Errorf("%w: payout transaction %s", apperrors.ErrNotFound, p.ID)
	}
	existing.Status = p.Status
	existing.ExternalRef = p.ExternalRef
	existing.CreditingBookTransactionID = p.CreditingBookTransactionID
	existing.ReversalBookTransactionID = p.ReversalBookTransactionID
	existing.SubmittingUntil = p.SubmittingUntil
	existing.UpdatedAt = p.UpdatedAt
	v.data().payouts[p.ID] = existing
	return nil
}

func (v *view) FindPayoutsRefundingFunding(_ context.Context, fundingID string) ([]domain.PayoutTransaction, error) {
	defer v.rlock()()
	var out []domain.PayoutTransaction
	for _, p := range v.data().payouts {
		if p.RefundedFundingTransactionID != nil && *p.RefundedFundingTransactionID == fundingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (v *view) AppendAuditLogEntry(_ context.Context, entry domain.TransactionAuditLogEntry) error {
	defer v.lock()()
	v.data().audit = append(v.data().audit, entry)
	return nil
}

func (v *view) ListAuditLogEntries(_ context.Context, subject domain.SubjectRef) ([]domain.TransactionAuditLogEntry, error) {
	defer v.rlock()()
	var out []domain.TransactionAuditLogEntry
	for _, e := range v.data().audit {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	// Entries with equal timestamps keep their append order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (v *view) ClaimIdempotencyKey(_ context.Context, key string, at time.Time) (bool, error) {
	defer v.lock()()
	if _, ok := v.data().idempotency[key]; ok {
		return false, nil
	}
	v.data().idempotency[key] = domain.IdempotencyRecord{Key: key, LastRun: at}
	return true, nil
}

func (v *view) SaveIdempotencyResult(_ context.Context, key string, result []byte) error {
	defer v.lock()()
	rec, ok := v.data().idempotency[key]
	if !ok {
		return fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
	}
	rec.Result = append([]byte(nil), result...)
	v.data().idempotency[key] = rec
	return nil
}

func (v *view) FindIdempotencyRecord(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	defer v.rlock()()
	rec, ok := v.data().idempotency[key]
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
	}
	return &rec, nil
}
