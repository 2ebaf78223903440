package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
)

func sameOwner(a, b domain.AccountOwner) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	return a.ID() == b.ID()
}

func (v *view) FindAccountByID(_ context.Context, accountID string) (*domain.PaymentAccount, error) {
	defer v.rlock()()
	a, ok := v.data().accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (v *view) FindAccountByOwner(_ context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error) {
	defer v.rlock()()
	for _, a := range v.data().accounts {
		if sameOwner(a.Owner, owner) {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: account for %s %s", apperrors.ErrNotFound, owner.Kind(), owner.ID())
}

func (v *view) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.PaymentAccount, error) {
	defer v.rlock()()
	out := make(map[string]domain.PaymentAccount, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := v.data().accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (v *view) SaveAccount(_ context.Context, account domain.PaymentAccount) error {
	defer v.lock()()
	d := v.data()
	if _, ok := d.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, existing := range d.accounts {
		if account.Owner.Platform && existing.Owner.Platform {
			return domain.ErrDuplicatePlatformAccount
		}
		if sameOwner(existing.Owner, account.Owner) {
			return fmt.Errorf("%w: account for %s %s", apperrors.ErrDuplicate, account.Owner.Kind(), account.Owner.ID())
		}
	}
	d.accounts[account.AccountID] = account
	return nil
}

func (v *view) FindLedgerByID(_ context.Context, ledgerID string) (*domain.Ledger, error) {
	defer v.rlock()()
	l, ok := v.data().ledgers[ledgerID]
	if !ok {
		return nil, fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, ledgerID)
	}
	return &l, nil
}

func (v *view) FindLedgersByIDs(_ context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	defer v.rlock()()
	out := make(map[string]domain.Ledger, len(ledgerIDs))
	for _, id := range ledgerIDs {
		if l, ok := v.data().ledgers[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (v *view) FindLedgerByLabel(_ context.Context, accountID, currency, label string) (*domain.Ledger, error) {
	defer v.rlock()()
	for _, l := range v.data().ledgers {
		if l.AccountID == accountID && l.Currency == currency && l.Label == label {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("%w: ledger %q (%s) on account %s", apperrors.ErrNotFound, label, currency, accountID)
}

func (v *view) ListLedgersByAccount(_ context.Context, accountID string) ([]domain.Ledger, error) {
	defer v.rlock()()
	var out []domain.Ledger
	for _, l := range v.data().ledgers {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	sortLedgers(out)
	return out, nil
}

func (v *view) ListLedgers(_ context.Context) ([]domain.Ledger, error) {
	defer v.rlock()()
	out := make([]domain.Ledger, 0, len(v.data().ledgers))
	for _, l := range v.data().ledgers {
		out = append(out, l)
	}
	sortLedgers(out)
	return out, nil
}

func sortLedgers(ls []domain.Ledger) {
	sort.Slice(ls, func(i, j int) bool {
		if !ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].CreatedAt.Before(ls[j].CreatedAt)
		}
		return ls[i].LedgerID < ls[j].LedgerID
	})
}

func (v *view) SaveLedger(_ context.Context, ledger domain.Ledger) error {
	defer v.lock()()
	d := v.data()
	if _, ok := d.accounts[ledger.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, ledger.AccountID)
	}
	if _, ok := d.ledgers[ledger.LedgerID]; ok {
		return fmt.Errorf("%w: ledger %s", apperrors.ErrDuplicate, ledger.LedgerID)
	}
	for _, l := range d.ledgers {
		if l.AccountID == ledger.AccountID && l.Currency == ledger.Currency && l.Label == ledger.Label {
			return domain.ErrLedgerLabelTaken
		}
	}
	d.ledgers[ledger.LedgerID] = ledger
	return nil
}
