package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLedgers(t *testing.T, s *memory.Store) (domain.Ledger, domain.Ledger) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Accounts().SaveAccount(ctx, domain.PaymentAccount{AccountID: "acct_1", Owner: domain.CustomerOwner("cust_1")}))
	x := domain.Ledger{LedgerID: "x", AccountID: "acct_1", Currency: "USD", Label: "cash"}
	y := domain.Ledger{LedgerID: "y", AccountID: "acct_1", Currency: "USD", Label: "food"}
	require.NoError(t, s.Ledgers().SaveLedger(ctx, x))
	require.NoError(t, s.Ledgers().SaveLedger(ctx, y))
	return x, y
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	x, y := seedLedgers(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		bt := domain.BookTransaction{BookTransactionID: "bt1", OriginatingLedgerID: x.LedgerID, ReceivingLedgerID: y.LedgerID, Amount: domain.NewMoney(500, "USD")}
		require.NoError(t, tx.BookTransactions().SaveBookTransaction(ctx, bt))
		claimed, err := tx.Idempotency().ClaimIdempotencyKey(ctx, "k", time.Now())
		require.NoError(t, err)
		require.True(t, claimed)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.BookTransactions().FindBookTransactionByID(ctx, "bt1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Idempotency().FindIdempotencyRecord(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveAccount_OnePlatformAccount(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	require.NoError(t, s.Accounts().SaveAccount(ctx, domain.PaymentAccount{AccountID: "p1", Owner: domain.PlatformOwner()}))
	err := s.Accounts().SaveAccount(ctx, domain.PaymentAccount{AccountID: "p2", Owner: domain.PlatformOwner()})
	assert.ErrorIs(t, err, domain.ErrDuplicatePlatformAccount)

	require.NoError(t, s.Accounts().SaveAccount(ctx, domain.PaymentAccount{AccountID: "c1", Owner: domain.CustomerOwner("cust")}))
	err = s.Accounts().SaveAccount(ctx, domain.PaymentAccount{AccountID: "c2", Owner: domain.CustomerOwner("cust")})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := s.Accounts().FindAccountByOwner(ctx, domain.CustomerOwner("cust"))
	require.NoError(t, err)
	assert.Equal(t, "c1", found.AccountID)
}

func TestClaimIdempotencyKey_InsertThenCheck(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	first, err := s.Idempotency().ClaimIdempotencyKey(ctx, "funding-1-resolve", time.Now())
	require.NoError(t, err)
	second, err := s.Idempotency().ClaimIdempotencyKey(ctx, "funding-1-resolve", time.Now())
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestListBookTransactionsByLedger_Pages(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	x, y := seedLedgers(t, s)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		bt := domain.BookTransaction{
			BookTransactionID:   fmt.Sprintf("bt%d", i),
			OriginatingLedgerID: x.LedgerID,
			ReceivingLedgerID:   y.LedgerID,
			Amount:              domain.NewMoney(int64(100*(i+1)), "USD"),
			ApplyAt:             base.Add(time.Duration(i/2) * time.Hour),
		}
		require.NoError(t, s.BookTransactions().SaveBookTransaction(ctx, bt))
	}

	var ids []string
	var token *string
	for {
		page, next, err := s.BookTransactions().ListBookTransactionsByLedger(ctx, y.LedgerID, 2, token)
		require.NoError(t, err)
		for _, bt := range page {
			ids = append(ids, bt.BookTransactionID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"bt4", "bt3", "bt2", "bt1", "bt0"}, ids)

	bal, err := s.BookTransactions().SumLedgerBalance(ctx, x.LedgerID, base.Add(30*time.Minute), false)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), bal)
}

func TestSaveLineItems_BookTransactionChargedOnce(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	order := "order_1"
	require.NoError(t, s.Charges().SaveCharge(ctx, domain.Charge{ChargeID: "c1", CommerceOrderID: &order}))
	require.NoError(t, s.Charges().SaveCharge(ctx, domain.Charge{ChargeID: "c2", CommerceOrderID: &order}))
	bt := "bt1"

	require.NoError(t, s.Charges().SaveLineItems(ctx, []domain.ChargeLineItem{{LineItemID: "li1", ChargeID: "c1", BookTransactionID: &bt}}))
	err := s.Charges().SaveLineItems(ctx, []domain.ChargeLineItem{{LineItemID: "li2", ChargeID: "c2", BookTransactionID: &bt}})
	assert.ErrorIs(t, err, domain.ErrBookTransactionAlreadyCharged)

	c, err := s.Charges().FindChargeByID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, c.LineItems, 1)
}

func TestSaveExecution_UniquePerTriggerAndSource(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	e := domain.PaymentTriggerExecution{ExecutionID: "e1", TriggerID: "t1", SourceBookTransactionID: "bt1", MatchBookTransactionID: "bt2", MatchedCents: 10}

	require.NoError(t, s.Triggers().SaveExecution(ctx, e))
	e.ExecutionID = "e2"
	assert.ErrorIs(t, s.Triggers().SaveExecution(ctx, e), domain.ErrTriggerAlreadyExecuted)

	isMatch, err := s.Triggers().IsMatchTransaction(ctx, "bt2")
	require.NoError(t, err)
	assert.True(t, isMatch)
}
