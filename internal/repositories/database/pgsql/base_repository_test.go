package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	r := BaseRepository{}
	unique := func(constraint string) error {
		return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint}
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"second platform account", unique("payment_accounts_single_platform"), domain.ErrDuplicatePlatformAccount},
		{"ledger label", unique("ledgers_account_currency_label_key"), domain.ErrLedgerLabelTaken},
		{"trigger execution", unique("payment_trigger_executions_trigger_source_key"), domain.ErrTriggerAlreadyExecuted},
		{"charged twice", unique("charge_line_items_book_transaction_id_key"), domain.ErrBookTransactionAlreadyCharged},
		{"other unique", unique("payment_accounts_customer_id_key"), apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "ledgers_account_id_fkey"}, apperrors.ErrNotFound},
		{"anything else", errors.New("connection reset"), apperrors.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.translate(tt.err, "save", "thing 1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "thing 1")
		})
	}

	assert.NoError(t, r.translate(nil, "save", "thing 1"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "4", placeholder(4))
}
