package strategies_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/strategies"
)

// --- Mock ACHProcessor ---
type MockACHProcessor struct {
	mock.Mock
}

var _ strategies.ACHProcessor = (*MockACHProcessor)(nil)

func (m *MockACHProcessor) Debit(ctx context.Context, bankAccountID string, req strategies.MovementRequest) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, bankAccountID, req)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

func (m *MockACHProcessor) Credit(ctx context.Context, bankAccountID string, req strategies.MovementRequest) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, bankAccountID, req)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

func (m *MockACHProcessor) Status(ctx context.Context, externalRef string) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, externalRef)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

// --- Mock CardProcessor ---
type MockCardProcessor struct {
	mock.Mock
}

var _ strategies.CardProcessor = (*MockCardProcessor)(nil)

func (m *MockCardProcessor) Charge(ctx context.Context, cardID string, req strategies.MovementRequest) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, cardID, req)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

func (m *MockCardProcessor) Refund(ctx context.Context, cardID string, req strategies.MovementRequest) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, cardID, req)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

func (m *MockCardProcessor) Status(ctx context.Context, externalRef string) (strategies.ProcessorResult, error) {
	args := m.Called(ctx, externalRef)
	return args.Get(0).(strategies.ProcessorResult), args.Error(1)
}

func funding(strategy domain.Strategy) *domain.FundingTransaction {
	return &domain.FundingTransaction{ExternalTransaction: domain.ExternalTransaction{
		ID:       "fund-1",
		Amount:   domain.NewMoney(1500, "USD"),
		Strategy: strategy,
		Status:   domain.StatusSubmitted,
		Memo:     domain.NewText("Top up"),
	}}
}

func payout(strategy domain.Strategy) *domain.PayoutTransaction {
	return &domain.PayoutTransaction{ExternalTransaction: domain.ExternalTransaction{
		ID:       "pay-1",
		Amount:   domain.NewMoney(700, "USD"),
		Strategy: strategy,
		Status:   domain.StatusSubmitted,
	}}
}

func TestRegistry_AdapterFor(t *testing.T) {
	r := strategies.NewDefaultRegistry(nil, nil)

	adapter, err := r.AdapterFor(domain.StrategyFake)
	require.NoError(t, err)
	assert.NotNil(t, adapter)

	_, err = r.AdapterFor(domain.StrategyACHDebit)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	r.Register(domain.StrategyACHDebit, strategies.NewACHAdapter(new(MockACHProcessor)))
	_, err = r.AdapterFor(domain.StrategyACHDebit)
	assert.NoError(t, err)
}

func TestFakeAdapter_Outcomes(t *testing.T) {
	ctx := context.Background()
	adapter := &strategies.FakeAdapter{}

	testCases := []struct {
		name     string
		strategy domain.FakeStrategy
		expected domain.StrategyOutcome
	}{
		{"success default ref", domain.FakeStrategy{Outcome: domain.OutcomeSuccess}, domain.Success("fake-fund-1")},
		{"success explicit ref", domain.FakeStrategy{Outcome: domain.OutcomeSuccess, ExternalRef: "ext-9"}, domain.Success("ext-9")},
		{"pending", domain.FakeStrategy{Outcome: domain.OutcomePending, ExternalRef: "ext-9"}, domain.Pending("ext-9")},
		{"failure", domain.FakeStrategy{Outcome: domain.OutcomeFailure, Reason: "insufficient_funds"}, domain.Failure("insufficient_funds")},
		{"failure default reason", domain.FakeStrategy{Outcome: domain.OutcomeFailure}, domain.Failure("fake_failure")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := adapter.Execute(ctx, funding(tc.strategy))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, outcome)
		})
	}
	assert.Equal(t, int64(len(testCases)), adapter.Invocations())
}

func TestFakeAdapter_DelayHonorsDeadline(t *testing.T) {
	adapter := &strategies.FakeAdapter{Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := adapter.Execute(ctx, funding(domain.FakeStrategy{Outcome: domain.OutcomeSuccess}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestACHAdapter_DebitsForFunding(t *testing.T) {
	ctx := context.Background()
	processor := new(MockACHProcessor)
	adapter := strategies.NewACHAdapter(processor)
	txn := funding(domain.ACHDebitStrategy{BankAccountID: "ba-1"})

	processor.On("Debit", ctx, "ba-1", strategies.MovementRequest{
		IdempotencyKey: "fund-1",
		Amount:         domain.NewMoney(1500, "USD"),
		Memo:           "Top up",
	}).Return(strategies.ProcessorResult{Status: strategies.ProcessorPending, ExternalRef: "ach-1"}, nil).Once()

	outcome, err := adapter.Execute(ctx, txn)
	require.NoError(t, err)
	assert.Equal(t, domain.Pending("ach-1"), outcome)
	assert.True(t, adapter.RetryOnTimeout())
	processor.AssertExpectations(t)
}

func TestACHAdapter_PollsStatusOnceReferenced(t *testing.T) {
	ctx := context.Background()
	processor := new(MockACHProcessor)
	adapter := strategies.NewACHAdapter(processor)
	txn := funding(domain.ACHDebitStrategy{BankAccountID: "ba-1"})
	txn.ExternalRef = "ach-1"

	processor.On("Status", ctx, "ach-1").Return(strategies.ProcessorResult{Status: strategies.ProcessorSettled}, nil).Once()

	outcome, err := adapter.Execute(ctx, txn)
	require.NoError(t, err)
	assert.Equal(t, domain.Success("ach-1"), outcome)
	processor.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	processor.AssertExpectations(t)
}

func TestACHAdapter_CreditsForPayout(t *testing.T) {
	ctx := context.Background()
	processor := new(MockACHProcessor)
	adapter := strategies.NewACHAdapter(processor)

	processor.On("Credit", ctx, "ba-2", mock.AnythingOfType("strategies.MovementRequest")).
		Return(strategies.ProcessorResult{Status: strategies.ProcessorRejected, Reason: "account_closed", Messages: []string{"R02"}}, nil).Once()

	outcome, err := adapter.Execute(ctx, payout(domain.ACHDebitStrategy{BankAccountID: "ba-2"}))
	require.NoError(t, err)
	assert.Equal(t, domain.Failure("account_closed", "R02"), outcome)
	processor.AssertExpectations(t)
}

func TestACHAdapter_ProcessorErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	processor := new(MockACHProcessor)
	adapter := strategies.NewACHAdapter(processor)
	boom := errors.New("connection reset")

	processor.On("Debit", ctx, "ba-1", mock.Anything).Return(strategies.ProcessorResult{}, boom).Once()

	_, err := adapter.Execute(ctx, funding(domain.ACHDebitStrategy{BankAccountID: "ba-1"}))
	assert.ErrorIs(t, err, boom)
}

func TestCardAdapter(t *testing.T) {
	ctx := context.Background()
	processor := new(MockCardProcessor)
	adapter := strategies.NewCardAdapter(processor)
	assert.False(t, adapter.RetryOnTimeout())

	processor.On("Charge", ctx, "card-1", mock.Anything).
		Return(strategies.ProcessorResult{Status: strategies.ProcessorSettled, ExternalRef: "ch_1"}, nil).Once()
	processor.On("Refund", ctx, "card-1", mock.Anything).
		Return(strategies.ProcessorResult{Status: "weird"}, nil).Once()

	outcome, err := adapter.Execute(ctx, funding(domain.CardChargeStrategy{CardID: "card-1"}))
	require.NoError(t, err)
	assert.Equal(t, domain.Success("ch_1"), outcome)

	outcome, err = adapter.Execute(ctx, payout(domain.CardChargeStrategy{CardID: "card-1"}))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailure, outcome.Kind)
	assert.Equal(t, "processor_unknown_status", outcome.Reason)
	processor.AssertExpectations(t)
}

func TestCardAdapter_RejectsOtherStrategies(t *testing.T) {
	adapter := strategies.NewCardAdapter(new(MockCardProcessor))
	_, err := adapter.Execute(context.Background(), funding(domain.ACHDebitStrategy{BankAccountID: "ba-1"}))
	assert.Error(t, err)
}

func TestOffPlatformAdapter(t *testing.T) {
	adapter := strategies.OffPlatformAdapter{}

	outcome, err := adapter.Execute(context.Background(), funding(domain.OffPlatformStrategy{
		Note: "Check received", CheckOrTransactionNumber: "1042", CreatedByID: "admin-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.Success("1042"), outcome)

	outcome, err = adapter.Execute(context.Background(), funding(domain.OffPlatformStrategy{Note: "Cash", CreatedByID: "admin-1"}))
	require.NoError(t, err)
	assert.Equal(t, domain.Success("off-platform-fund-1"), outcome)
}
