package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
)

type bookService struct {
	BaseService
	store portsrepo.UnitOfWork

	mu        sync.RWMutex
	observers []portssvc.BookTransactionObserver
}

// NewBookService creates the service that writes book transactions.
func NewBookService(store portsrepo.UnitOfWork, options ...ServiceOption) portssvc.BookSvc {
	return &bookService{
		BaseService: newBaseService(options),
		store:       store,
	}
}

var _ portssvc.BookSvc = (*bookService)(nil)

func (s *bookService) Transfer(ctx context.Context, req dto.TransferRequest) (*domain.BookTransaction, error) {
	var bt *domain.BookTransaction
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		bt, err = s.TransferWithin(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Publish(ctx, *bt)
	return bt, nil
}

func (s *bookService) TransferWithin(ctx context.Context, tx portsrepo.Store, req dto.TransferRequest) (*domain.BookTransaction, error) {
	logger := s.GetLogger(ctx)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	amount := domain.NewMoney(req.Amount.Cents, req.Amount.Currency)
	if amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	ledgers, err := tx.Ledgers().FindLedgersByIDs(ctx, []string{req.OriginatingLedgerID, req.ReceivingLedgerID})
	if err != nil {
		return nil, fmt.Errorf("failed to load ledgers: %w", err)
	}
	from, ok := ledgers[req.OriginatingLedgerID]
	if !ok {
		return nil, fmt.Errorf("%w: originating ledger %s", apperrors.ErrNotFound, req.OriginatingLedgerID)
	}
	to, ok := ledgers[req.ReceivingLedgerID]
	if !ok {
		return nil, fmt.Errorf("%w: receiving ledger %s", apperrors.ErrNotFound, req.ReceivingLedgerID)
	}
	if err := domain.ValidateTransfer(from, to, amount); err != nil {
		logger.Warn("Rejected transfer",
			slog.String("originating_ledger_id", from.LedgerID),
			slog.String("receiving_ledger_id", to.LedgerID),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()
	applyAt := req.ApplyAt
	if applyAt.IsZero() {
		applyAt = now
	}
	bt := domain.BookTransaction{
		BookTransactionID:   uuid.NewString(),
		OriginatingLedgerID: from.LedgerID,
		ReceivingLedgerID:   to.LedgerID,
		Amount:              amount,
		ApplyAt:             applyAt.UTC(),
		CreatedAt:           now,
		Category:            req.Category,
		Memo:                req.Memo,
		ActorID:             req.ActorID,
	}
	if err := tx.BookTransactions().SaveBookTransaction(ctx, bt); err != nil {
		s.LogError(ctx, err, "Failed to save book transaction")
		return nil, fmt.Errorf("failed to save book transaction: %w", err)
	}

	logger.Debug("Book transaction written",
		slog.String("book_transaction_id", bt.BookTransactionID),
		slog.String("category", bt.Category),
		slog.String("amount", bt.Amount.String()))
	return &bt, nil
}

// Publish must only be called once the transactions are committed.
// Observers run synchronously in subscription order.
func (s *bookService) Publish(ctx context.Context, bookTransactions ...domain.BookTransaction) {
	s.mu.RLock()
	observers := append([]portssvc.BookTransactionObserver(nil), s.observers...)
	s.mu.RUnlock()

	for _, bt := range bookTransactions {
		s.metrics.BookTransaction(bt.Category)
		for _, o := range observers {
			o.OnBookTransaction(ctx, bt)
		}
	}
}

func (s *bookService) Subscribe(observer portssvc.BookTransactionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}
