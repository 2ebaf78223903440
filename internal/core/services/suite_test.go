package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/core/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
	"github.com/lithictech/suma-sub001/internal/repositories/memory"
	"github.com/lithictech/suma-sub001/internal/strategies"
)

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- Mock EligibilityChecker ---
type MockEligibility struct {
	mock.Mock
}

var _ portssvc.EligibilityChecker = (*MockEligibility)(nil)

func (m *MockEligibility) IsEligible(ctx context.Context, actorID string, trigger domain.PaymentTrigger) (bool, error) {
	args := m.Called(ctx, actorID, trigger)
	return args.Bool(0), args.Error(1)
}

// scriptedAdapter returns its outcomes in order, repeating the last one.
// With block set it waits for the context instead.
type scriptedAdapter struct {
	mu       sync.Mutex
	outcomes []domain.StrategyOutcome
	calls    int
	block    bool
	retry    bool
}

func (a *scriptedAdapter) RetryOnTimeout() bool { return a.retry }

func (a *scriptedAdapter) Execute(ctx context.Context, _ domain.Settleable) (domain.StrategyOutcome, error) {
	a.mu.Lock()
	a.calls++
	n := a.calls
	block := a.block
	a.mu.Unlock()
	if block {
		<-ctx.Done()
		return domain.StrategyOutcome{}, ctx.Err()
	}
	idx := min(n, len(a.outcomes)) - 1
	return a.outcomes[idx], nil
}

func (a *scriptedAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type ServicesTestSuite struct {
	suite.Suite
	ctx         context.Context
	store       *memory.Store
	clock       *fixedClock
	fake        *strategies.FakeAdapter
	ach         *scriptedAdapter
	eligibility *MockEligibility
	registry    *prometheus.Registry
	svc         *portssvc.ServiceContainer
}

func (s *ServicesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.clock = &fixedClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.fake = &strategies.FakeAdapter{}
	s.ach = &scriptedAdapter{retry: true}
	s.eligibility = new(MockEligibility)
	s.registry = prometheus.NewRegistry()

	resolver := strategies.NewDefaultRegistry(nil, nil)
	resolver.Register(domain.StrategyFake, s.fake)
	resolver.Register(domain.StrategyACHDebit, s.ach)

	s.svc = services.NewServiceContainer(
		s.store,
		resolver,
		s.eligibility,
		services.ContainerConfig{
			Currencies:      domain.NewCurrencySet("USD", "EUR"),
			StrategyTimeout: 50 * time.Millisecond,
		},
		services.WithClock(s.clock),
		services.WithMetrics(metrics.New(s.registry)),
	)
}

// memberLedger returns the customer's ledger with the label, opening account and ledger as needed.
func (s *ServicesTestSuite) memberLedger(customerID, currency, label string) *domain.Ledger {
	account, err := s.svc.Ledger.EnsureAccount(s.ctx, domain.CustomerOwner(customerID))
	s.Require().NoError(err)
	ledger, err := s.svc.Ledger.EnsureLedger(s.ctx, account.AccountID, currency, label)
	s.Require().NoError(err)
	return ledger
}

func (s *ServicesTestSuite) balance(ledgerID string) int64 {
	m, err := s.svc.Ledger.Balance(s.ctx, ledgerID, dto.BalanceQuery{})
	s.Require().NoError(err)
	return m.Cents
}

func (s *ServicesTestSuite) statement(ledgerID string) []dto.LedgerStatementLine {
	resp, err := s.svc.Ledger.ListLedgerTransactions(s.ctx, ledgerID, dto.ListLedgerTransactionsParams{})
	s.Require().NoError(err)
	return resp.Transactions
}

func (s *ServicesTestSuite) transfer(from, to *domain.Ledger, cents int64) *domain.BookTransaction {
	bt, err := s.svc.Book.Transfer(s.ctx, dto.TransferRequest{
		OriginatingLedgerID: from.LedgerID,
		ReceivingLedgerID:   to.LedgerID,
		Amount:              domain.NewMoney(cents, from.Currency),
		Memo:                domain.NewText("test transfer"),
	})
	s.Require().NoError(err)
	return bt
}

func (s *ServicesTestSuite) createFunding(customerID string, cents int64, strategy domain.Strategy) *domain.FundingTransaction {
	account, err := s.svc.Ledger.EnsureAccount(s.ctx, domain.CustomerOwner(customerID))
	s.Require().NoError(err)
	funding, err := s.svc.Settlement.CreateFunding(s.ctx, dto.CreateFundingRequest{
		AccountID: account.AccountID,
		Amount:    domain.NewMoney(cents, "USD"),
		Strategy:  strategy,
		Memo:      domain.NewText("Add funds"),
	})
	s.Require().NoError(err)
	return funding
}

func (s *ServicesTestSuite) settledFunding(customerID string, cents int64) *domain.FundingTransaction {
	funding := s.createFunding(customerID, cents, domain.FakeStrategy{Outcome: domain.OutcomeSuccess})
	settled, err := s.svc.Settlement.SubmitFunding(s.ctx, funding.ID, nil)
	s.Require().NoError(err)
	s.Require().Equal(domain.StatusSettled, settled.Status)
	return settled
}
