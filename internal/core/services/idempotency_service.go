package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

type idempotencyService struct {
	BaseService
	store portsrepo.UnitOfWork
}

// NewIdempotencyService creates the at-most-once guard. Keys are claimed in
// the same transaction as the work they protect, so a rolled back run leaves
// the key free for the next attempt.
func NewIdempotencyService(store portsrepo.UnitOfWork, options ...ServiceOption) portssvc.IdempotencySvc {
	return &idempotencyService{BaseService: newBaseService(options), store: store}
}

var _ portssvc.IdempotencySvc = (*idempotencyService)(nil)

func (s *idempotencyService) RunOnce(ctx context.Context, key string, fn func(ctx context.Context, tx portsrepo.Store) ([]byte, error)) ([]byte, bool, error) {
	var (
		result []byte
		ran    bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		claimed, err := s.ClaimWithin(ctx, tx, key)
		if err != nil {
			return err
		}
		if !claimed {
			record, err := tx.Idempotency().FindIdempotencyRecord(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to load idempotency record %s: %w", key, err)
			}
			result = record.Result
			return nil
		}

		out, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.Idempotency().SaveIdempotencyResult(ctx, key, out); err != nil {
			return fmt.Errorf("failed to save idempotency result %s: %w", key, err)
		}
		result, ran = out, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !ran {
		s.GetLogger(ctx).Debug("Skipped already-run operation", slog.String("idempotency_key", key))
	}
	return result, ran, nil
}

func (s *idempotencyService) ClaimWithin(ctx context.Context, tx portsrepo.Store, key string) (bool, error) {
	claimed, err := tx.Idempotency().ClaimIdempotencyKey(ctx, key, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key %s: %w", key, err)
	}
	return claimed, nil
}
