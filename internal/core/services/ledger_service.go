package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/utils/pagination"
)

type ledgerService struct {
	BaseService
	store      portsrepo.UnitOfWork
	currencies domain.CurrencySet
}

// NewLedgerService creates the account and ledger service. Ledgers may only be
// opened in currencies from the allow-list; an empty list allows any currency.
func NewLedgerService(store portsrepo.UnitOfWork, currencies domain.CurrencySet, options ...ServiceOption) portssvc.LedgerSvc {
	return &ledgerService{
		BaseService: newBaseService(options),
		store:       store,
		currencies:  currencies,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) OpenAccount(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error) {
	logger := s.GetLogger(ctx)
	if err := owner.Validate(); err != nil {
		logger.Warn("Rejected account owner", slog.String("error", err.Error()))
		return nil, err
	}

	account := domain.PaymentAccount{
		AccountID: uuid.NewString(),
		Owner:     owner,
		CreatedAt: s.now(),
	}
	if err := s.store.Accounts().SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Account already exists for owner", slog.String("owner_kind", string(owner.Kind())), slog.String("owner_id", owner.ID()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account")
		return nil, fmt.Errorf("failed to open account: %w", err)
	}

	logger.Info("Payment account opened",
		slog.String("account_id", account.AccountID),
		slog.String("owner_kind", string(owner.Kind())))
	return &account, nil
}

func (s *ledgerService) EnsureAccount(ctx context.Context, owner domain.AccountOwner) (*domain.PaymentAccount, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	account, err := s.store.Accounts().FindAccountByOwner(ctx, owner)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	account, err = s.OpenAccount(ctx, owner)
	if errors.Is(err, apperrors.ErrDuplicate) {
		// Lost a race with a concurrent opener.
		return s.store.Accounts().FindAccountByOwner(ctx, owner)
	}
	return account, err
}

func (s *ledgerService) OpenLedger(ctx context.Context, req dto.OpenLedgerRequest) (*domain.Ledger, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.currencies.Check(req.Currency); err != nil {
		return nil, err
	}
	if _, err := s.store.Accounts().FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, err
	}

	ledger := domain.Ledger{
		LedgerID:  uuid.NewString(),
		AccountID: req.AccountID,
		Currency:  req.Currency,
		Label:     req.Label,
		CreatedAt: s.now(),
	}
	if err := s.store.Ledgers().SaveLedger(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	s.GetLogger(ctx).Info("Ledger opened",
		slog.String("ledger_id", ledger.LedgerID),
		slog.String("account_id", ledger.AccountID),
		slog.String("label", ledger.Label))
	return &ledger, nil
}

func (s *ledgerService) EnsureLedger(ctx context.Context, accountID, currency, label string) (*domain.Ledger, error) {
	var ledger *domain.Ledger
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		ledger, err = s.EnsureLedgerWithin(ctx, tx, accountID, currency, label)
		return err
	})
	return ledger, err
}

func (s *ledgerService) EnsureLedgerWithin(ctx context.Context, tx portsrepo.Store, accountID, currency, label string) (*domain.Ledger, error) {
	ledger, err := tx.Ledgers().FindLedgerByLabel(ctx, accountID, currency, label)
	if err == nil {
		return ledger, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err := s.currencies.Check(currency); err != nil {
		return nil, err
	}

	created := domain.Ledger{
		LedgerID:  uuid.NewString(),
		AccountID: accountID,
		Currency:  currency,
		Label:     label,
		CreatedAt: s.now(),
	}
	if err := tx.Ledgers().SaveLedger(ctx, created); err != nil {
		if errors.Is(err, domain.ErrLedgerLabelTaken) {
			return tx.Ledgers().FindLedgerByLabel(ctx, accountID, currency, label)
		}
		return nil, fmt.Errorf("failed to open ledger %q: %w", label, err)
	}
	s.GetLogger(ctx).Info("Ledger opened lazily",
		slog.String("ledger_id", created.LedgerID),
		slog.String("account_id", accountID),
		slog.String("label", label))
	return &created, nil
}

func (s *ledgerService) PlatformLedger(ctx context.Context, currency string) (*domain.Ledger, error) {
	account, err := s.EnsureAccount(ctx, domain.PlatformOwner())
	if err != nil {
		return nil, err
	}
	return s.EnsureLedger(ctx, account.AccountID, currency, domain.PlatformCashLabel)
}

func (s *ledgerService) GetLedger(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	return s.store.Ledgers().FindLedgerByID(ctx, ledgerID)
}

func (s *ledgerService) Balance(ctx context.Context, ledgerID string, q dto.BalanceQuery) (domain.Money, error) {
	ledger, err := s.store.Ledgers().FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return domain.Money{}, err
	}
	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	cents, err := s.store.BookTransactions().SumLedgerBalance(ctx, ledgerID, asOf, q.IncludePending)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to compute balance of ledger %s: %w", ledgerID, err)
	}
	return domain.NewMoney(cents, ledger.Currency), nil
}

func (s *ledgerService) ListLedgerTransactions(ctx context.Context, ledgerID string, params dto.ListLedgerTransactionsParams) (*dto.ListLedgerTransactionsResponse, error) {
	if err := s.validateRequest(params); err != nil {
		return nil, err
	}
	if _, err := s.store.Ledgers().FindLedgerByID(ctx, ledgerID); err != nil {
		return nil, err
	}

	txns, nextToken, err := s.store.BookTransactions().ListBookTransactionsByLedger(ctx, ledgerID, pagination.NormalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions of ledger %s: %w", ledgerID, err)
	}

	lines := make([]dto.LedgerStatementLine, len(txns))
	for i, bt := range txns {
		lines[i] = dto.LedgerStatementLine{BookTransaction: bt, SignedCents: bt.SignedCentsFor(ledgerID)}
	}
	return &dto.ListLedgerTransactionsResponse{Transactions: lines, NextToken: nextToken}, nil
}
