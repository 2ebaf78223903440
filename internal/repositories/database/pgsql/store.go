// Package pgsql implements the repository ports on PostgreSQL through pgx.
// Row locks (SELECT ... FOR UPDATE) and unique constraints carry the
// concurrency guarantees the services rely on.
package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/middleware"
)

// Pool is the part of *pgxpool.Pool the Store uses.
type Pool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store implements portsrepo.UnitOfWork on a pgx pool.
type Store struct {
	pool Pool
	tx   pgx.Tx
	base BaseRepository
}

// NewStore returns a Store that runs statements directly on the pool.
func NewStore(pool Pool) *Store {
	return &Store{pool: pool, base: BaseRepository{q: pool}}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx runs fn in a database transaction. On a transaction-bound Store it
// opens a savepoint instead.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Store) error) error {
	var (
		tx  pgx.Tx
		err error
	)
	if s.tx != nil {
		tx, err = s.tx.Begin(ctx)
	} else {
		tx, err = s.pool.Begin(ctx)
	}
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, &Store{pool: s.pool, tx: tx, base: BaseRepository{q: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	committed = true
	return nil
}

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade {
	return &accountRepository{BaseRepository: s.base}
}

func (s *Store) Ledgers() portsrepo.LedgerRepositoryFacade {
	return &ledgerRepository{BaseRepository: s.base}
}

func (s *Store) BookTransactions() portsrepo.BookTransactionRepositoryFacade {
	return &bookTransactionRepository{BaseRepository: s.base}
}

func (s *Store) FundingTransactions() portsrepo.FundingTransactionRepositoryFacade {
	return &fundingRepository{BaseRepository: s.base}
}

func (s *Store) PayoutTransactions() portsrepo.PayoutTransactionRepositoryFacade {
	return &payoutRepository{BaseRepository: s.base}
}

func (s *Store) AuditLog() portsrepo.AuditLogRepositoryFacade {
	return &auditLogRepository{BaseRepository: s.base}
}

func (s *Store) Idempotency() portsrepo.IdempotencyRepositoryFacade {
	return &idempotencyRepository{BaseRepository: s.base}
}

func (s *Store) Triggers() portsrepo.PaymentTriggerRepositoryFacade {
	return &triggerRepository{BaseRepository: s.base}
}

func (s *Store) Charges() portsrepo.ChargeRepositoryFacade {
	return &chargeRepository{BaseRepository: s.base}
}
