package pgsql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/utils/pagination"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookTransactionRowColumns = []string{
	"book_transaction_id", "originating_ledger_id", "receiving_ledger_id", "amount_cents",
	"currency", "apply_at", "created_at", "category", "memo_en", "memo_es", "actor_id",
}

func bookTransactionRow(rows *pgxmock.Rows, id string, applyAt time.Time, cents int64) *pgxmock.Rows {
	return rows.AddRow(id, "platform", "l1", cents, "USD", applyAt, applyAt, "funding", "Top up", "Recarga", nil)
}

func TestSumLedgerBalance(t *testing.T) {
	store, mock := newMockStore(t)
	asOf := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM book_transactions WHERE (receiving_ledger_id = $1 OR originating_ledger_id = $1)")

	mock.ExpectQuery(query).
		WithArgs("l1", asOf, false).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(1500)))
	mock.ExpectQuery(query).
		WithArgs("l1", asOf, true).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(-250)))
	mock.ExpectQuery(query).
		WithArgs("l2", asOf, false).
		WillReturnError(errors.New("connection reset"))

	ctx := context.Background()
	balance, err := store.BookTransactions().SumLedgerBalance(ctx, "l1", asOf, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)

	balance, err = store.BookTransactions().SumLedgerBalance(ctx, "l1", asOf, true)
	require.NoError(t, err)
	assert.Equal(t, int64(-250), balance)

	_, err = store.BookTransactions().SumLedgerBalance(ctx, "l2", asOf, false)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Contains(t, err.Error(), "ledger l2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookTransactionsByLedger(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := pgxmock.NewRows(bookTransactionRowColumns)
	bookTransactionRow(first, "bt_3", t0.Add(2*time.Hour), 300)
	bookTransactionRow(first, "bt_2", t0.Add(time.Hour), 200)
	bookTransactionRow(first, "bt_1", t0, 100)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY apply_at DESC, book_transaction_id COLLATE "C" DESC LIMIT $2`)).
		WithArgs("l1", 3).
		WillReturnRows(first)

	page, next, err := store.BookTransactions().ListBookTransactionsByLedger(ctx, "l1", 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "bt_3", page[0].BookTransactionID)
	assert.Equal(t, int64(300), page[0].Amount.Cents)
	assert.Equal(t, "Recarga", page[0].Memo.Es)
	assert.Nil(t, page[0].ActorID)
	require.NotNil(t, next)
	assert.Equal(t, pagination.EncodeToken(t0.Add(time.Hour), "bt_2"), *next)

	second := pgxmock.NewRows(bookTransactionRowColumns)
	bookTransactionRow(second, "bt_1", t0, 100)
	mock.ExpectQuery(regexp.QuoteMeta(`AND (apply_at, book_transaction_id COLLATE "C") < ($2, $3)`)).
		WithArgs("l1", pgxmock.AnyArg(), "bt_2", 3).
		WillReturnRows(second)

	page, next, err = store.BookTransactions().ListBookTransactionsByLedger(ctx, "l1", 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bt_1", page[0].BookTransactionID)
	assert.Nil(t, next)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookTransactionsByLedger_BadToken(t *testing.T) {
	store, mock := newMockStore(t)
	bad := "not a token"

	_, _, err := store.BookTransactions().ListBookTransactionsByLedger(context.Background(), "l1", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
