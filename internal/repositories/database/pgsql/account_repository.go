package pgsql

import (
	"context"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/models"
	"github.com/lithictech/suma-sub001/internal/utils/mapping"
)

const accountColumns = "account_id, customer_id, vendor_id, is_platform, created_at"

type accountRepository struct {
	BaseRepository
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.PaymentAccount, error) {
	query := "SELECT " + accountColumns + " FROM payment_accounts WHERE account_id = $1"
	m, err := getOne[models.PaymentAccount](ctx, r.q, query, accountID)
	if err != nil {
		return nil, r.translate(err, "find", "payment account "+accountID)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *accountRepository) FindAccountByOwner(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error) {
	var (
		where string
		args  []any
	)
	switch owner.Kind() {
	case domain.OwnerPlatform:
		where = "is_platform"
	case domain.OwnerVendor:
		where, args = "vendor_id = $1", []any{owner.ID()}
	default:
		where, args = "customer_id = $1", []any{owner.ID()}
	}
	query := "SELECT " + accountColumns + " FROM payment_accounts WHERE " + where
	m, err := getOne[models.PaymentAccount](ctx, r.q, query, args...)
	if err != nil {
		return nil, r.translate(err, "find", fmt.Sprintf("payment account for %s %q", owner.Kind(), owner.ID()))
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.PaymentAccount, error) {
	out := make(map[string]domain.PaymentAccount, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + accountColumns + " FROM payment_accounts WHERE account_id = ANY($1)"
	ms, err := getMany[models.PaymentAccount](ctx, r.q, query, accountIDs)
	if err != nil {
		return nil, r.translate(err, "list", "payment accounts")
	}
	for _, a := range mapping.ToDomainAccounts(ms) {
		out[a.AccountID] = a
	}
	return out, nil
}

// SaveAccount relies on the partial unique indexes over customer_id, vendor_id
// and is_platform to reject a second account for the same owner.
func (r *accountRepository) SaveAccount(ctx context.Context, account domain.PaymentAccount) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO payment_accounts (account_id, customer_id, vendor_id, is_platform, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.q.Exec(ctx, query, m.AccountID, m.CustomerID, m.VendorID, m.IsPlatform, m.CreatedAt)
	return r.translate(err, "save", "payment account "+m.AccountID)
}

const ledgerColumns = "ledger_id, account_id, currency, label, created_at"

type ledgerRepository struct {
	BaseRepository
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := "SELECT " + ledgerColumns + " FROM ledgers WHERE ledger_id = $1"
	m, err := getOne[models.Ledger](ctx, r.q, query, ledgerID)
	if err != nil {
		return nil, r.translate(err, "find", "ledger "+ledgerID)
	}
	ledger := mapping.ToDomainLedger(m)
	return &ledger, nil
}

func (r *ledgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	out := make(map[string]domain.Ledger, len(ledgerIDs))
	if len(ledgerIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + ledgerColumns + " FROM ledgers WHERE ledger_id = ANY($1)"
	ms, err := getMany[models.Ledger](ctx, r.q, query, ledgerIDs)
	if err != nil {
		return nil, r.translate(err, "list", "ledgers")
	}
	for _, l := range mapping.ToDomainLedgers(ms) {
		out[l.LedgerID] = l
	}
	return out, nil
}

func (r *ledgerRepository) FindLedgerByLabel(ctx context.Context, accountID, currency, label string) (*domain.Ledger, error) {
	query := "SELECT " + ledgerColumns + " FROM ledgers WHERE account_id = $1 AND currency = $2 AND label = $3"
	m, err := getOne[models.Ledger](ctx, r.q, query, accountID, currency, label)
	if err != nil {
		return nil, r.translate(err, "find", fmt.Sprintf("ledger %q (%s) of account %s", label, currency, accountID))
	}
	ledger := mapping.ToDomainLedger(m)
	return &ledger, nil
}

func (r *ledgerRepository) ListLedgersByAccount(ctx context.Context, accountID string) ([]domain.Ledger, error) {
	query := "SELECT " + ledgerColumns + " FROM ledgers WHERE account_id = $1 ORDER BY created_at, ledger_id COLLATE \"C\""
	ms, err := getMany[models.Ledger](ctx, r.q, query, accountID)
	if err != nil {
		return nil, r.translate(err, "list", "ledgers of account "+accountID)
	}
	return mapping.ToDomainLedgers(ms), nil
}

func (r *ledgerRepository) ListLedgers(ctx context.Context) ([]domain.Ledger, error) {
	query := "SELECT " + ledgerColumns + " FROM ledgers ORDER BY created_at, ledger_id COLLATE \"C\""
	ms, err := getMany[models.Ledger](ctx, r.q, query)
	if err != nil {
		return nil, r.translate(err, "list", "ledgers")
	}
	return mapping.ToDomainLedgers(ms), nil
}

// SaveLedger skips the insert on a label conflict instead of raising it, so a
// caller inside a transaction can recover by loading the existing ledger.
func (r *ledgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)
	query := `
		INSERT INTO ledgers (ledger_id, account_id, currency, label, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT ledgers_account_currency_label_key DO NOTHING;
	`
	tag, err := r.q.Exec(ctx, query, m.LedgerID, m.AccountID, m.Currency, m.Label, m.CreatedAt)
	if err != nil {
		return r.translate(err, "save", "ledger "+m.LedgerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q (%s) on account %s", domain.ErrLedgerLabelTaken, m.Label, m.Currency, m.AccountID)
	}
	return nil
}
