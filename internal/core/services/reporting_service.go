package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

type reportingService struct {
	BaseService
	store portsrepo.Store
}

func NewReportingService(store portsrepo.Store, options ...ServiceOption) portssvc.ReportingSvc {
	return &reportingService{BaseService: newBaseService(options), store: store}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	ledgers, err := s.store.Ledgers().ListLedgers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	sums, err := s.store.BookTransactions().SumLedgerBalances(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger balances: %w", err)
	}
	accountIDs := make([]string, 0, len(ledgers))
	for _, l := range ledgers {
		accountIDs = append(accountIDs, l.AccountID)
	}
	accounts, err := s.store.Accounts().FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	tb := &domain.TrialBalance{AsOf: asOf, Rows: make([]domain.LedgerBalance, 0, len(ledgers)), NetByCurrency: map[string]int64{}}
	for _, l := range ledgers {
		balance := sums[l.LedgerID]
		tb.Rows = append(tb.Rows, domain.LedgerBalance{
			LedgerID:     l.LedgerID,
			AccountID:    l.AccountID,
			OwnerKind:    accounts[l.AccountID].Owner.Kind(),
			Label:        l.Label,
			Currency:     l.Currency,
			BalanceCents: balance,
		})
		tb.NetByCurrency[l.Currency] += balance
	}
	sort.Slice(tb.Rows, func(i, j int) bool {
		if tb.Rows[i].AccountID != tb.Rows[j].AccountID {
			return tb.Rows[i].AccountID < tb.Rows[j].AccountID
		}
		return tb.Rows[i].LedgerID < tb.Rows[j].LedgerID
	})
	return tb, nil
}
