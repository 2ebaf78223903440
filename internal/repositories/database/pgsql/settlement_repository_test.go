package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimIdempotencyKey(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	query := "INSERT INTO idempotency_keys .* ON CONFLICT \\(key\\) DO NOTHING"

	mock.ExpectExec(query).WithArgs("fund-1", at).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(query).WithArgs("fund-1", at).WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(query).WithArgs("fund-2", at).WillReturnError(&pgconn.PgError{Code: "40P01"})

	claimed, err := store.Idempotency().ClaimIdempotencyKey(ctx, "fund-1", at)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = store.Idempotency().ClaimIdempotencyKey(ctx, "fund-1", at)
	require.NoError(t, err)
	assert.False(t, claimed, "a key that already exists is not claimed again")

	_, err = store.Idempotency().ClaimIdempotencyKey(ctx, "fund-2", at)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveIdempotencyResult_MissingKey(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("UPDATE idempotency_keys SET result").
		WithArgs("gone", []byte(`{}`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.Idempotency().SaveIdempotencyResult(context.Background(), "gone", []byte(`{}`))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
