package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
)

// DefaultStrategyTimeout bounds a single strategy call.
const DefaultStrategyTimeout = 30 * time.Second

const reasonStrategyError = "strategy_error"

// leaseFactor sizes the submission lease as a multiple of the strategy timeout.
const leaseFactor = 2

type settlementService struct {
	BaseService
	store       portsrepo.UnitOfWork
	ledgers     portssvc.LedgerSvc
	book        portssvc.BookSvc
	audit       portssvc.AuditSvc
	idempotency portssvc.IdempotencySvc
	strategies  portssvc.StrategyResolver
	timeout     time.Duration
}

// SettlementDeps groups the collaborators of the settlement service.
type SettlementDeps struct {
	Store           portsrepo.UnitOfWork
	Ledgers         portssvc.LedgerSvc
	Book            portssvc.BookSvc
	Audit           portssvc.AuditSvc
	Idempotency     portssvc.IdempotencySvc
	Strategies      portssvc.StrategyResolver
	StrategyTimeout time.Duration
}

func NewSettlementService(deps SettlementDeps, options ...ServiceOption) portssvc.SettlementSvc {
	timeout := deps.StrategyTimeout
	if timeout <= 0 {
		timeout = DefaultStrategyTimeout
	}
	return &settlementService{
		BaseService: newBaseService(options),
		store:       deps.Store,
		ledgers:     deps.Ledgers,
		book:        deps.Book,
		audit:       deps.Audit,
		idempotency: deps.Idempotency,
		strategies:  deps.Strategies,
		timeout:     timeout,
	}
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func (s *settlementService) CreateFunding(ctx context.Context, req dto.CreateFundingRequest) (*domain.FundingTransaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	base, err := s.newExternalTransaction(ctx, req.AccountID, req.AccountLedgerID, req.Amount, req.Strategy, req.Memo)
	if err != nil {
		return nil, err
	}
	funding := &domain.FundingTransaction{ExternalTransaction: *base}
	if err := s.create(ctx, funding, req.ActorID); err != nil {
		return nil, err
	}
	return funding, nil
}

func (s *settlementService) CreatePayout(ctx context.Context, req dto.CreatePayoutRequest) (*domain.PayoutTransaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	base, err := s.newExternalTransaction(ctx, req.AccountID, req.AccountLedgerID, req.Amount, req.Strategy, req.Memo)
	if err != nil {
		return nil, err
	}
	payout := &domain.PayoutTransaction{ExternalTransaction: *base}
	if err := s.create(ctx, payout, req.ActorID); err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *settlementService) newExternalTransaction(
	ctx context.Context,
	accountID, accountLedgerID string,
	amount domain.Money,
	strategy domain.Strategy,
	memo domain.LocalizedText,
) (*domain.ExternalTransaction, error) {
	strategy, err := domain.ExactlyOneStrategy(strategy)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequest(strategy); err != nil {
		return nil, err
	}
	if _, err := s.adapterFor(strategy.Kind()); err != nil {
		return nil, err
	}
	amount = domain.NewMoney(amount.Cents, amount.Currency)
	if amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.store.Accounts().FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsPlatform() {
		return nil, fmt.Errorf("%w: the platform account cannot fund or be paid out", apperrors.ErrValidation)
	}

	var accountLedger *domain.Ledger
	if accountLedgerID != "" {
		accountLedger, err = s.store.Ledgers().FindLedgerByID(ctx, accountLedgerID)
		if err != nil {
			return nil, err
		}
		if accountLedger.AccountID != account.AccountID {
			return nil, fmt.Errorf("%w: ledger %s does not belong to account %s", apperrors.ErrValidation, accountLedgerID, accountID)
		}
		if accountLedger.Currency != amount.Currency {
			return nil, domain.ErrCurrencyMismatch
		}
	} else {
		accountLedger, err = s.ledgers.EnsureLedger(ctx, account.AccountID, amount.Currency, domain.PlatformCashLabel)
		if err != nil {
			return nil, err
		}
	}

	platformLedger, err := s.ledgers.PlatformLedger(ctx, amount.Currency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &domain.ExternalTransaction{
		ID:               uuid.NewString(),
		AccountID:        account.AccountID,
		AccountLedgerID:  accountLedger.LedgerID,
		PlatformLedgerID: platformLedger.LedgerID,
		Amount:           amount,
		Strategy:         strategy,
		Status:           domain.StatusCreated,
		Memo:             memo,
		Timestamps:       domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}, nil
}

func (s *settlementService) create(ctx context.Context, subject domain.Settleable, actorID *string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		if err := s.insert(ctx, tx, subject); err != nil {
			return err
		}
		return s.audit.RecordWithin(ctx, tx, domain.TransactionAuditLogEntry{
			Subject: subject.Ref(),
			At:      subject.Base().CreatedAt,
			Event:   domain.EventCreated,
			ToState: domain.StatusCreated,
			ActorID: actorID,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create external transaction", slog.String("kind", string(subject.Ref().Kind)))
		return err
	}
	base := subject.Base()
	s.GetLogger(ctx).Info("External transaction created",
		slog.String("kind", string(subject.Ref().Kind)),
		slog.String("id", base.ID),
		slog.String("strategy", string(base.Strategy.Kind())),
		slog.String("amount", base.Amount.String()))
	return nil
}

func (s *settlementService) GetFunding(ctx context.Context, id string) (*domain.FundingTransaction, error) {
	return s.store.FundingTransactions().FindFundingTransactionByID(ctx, id)
}

func (s *settlementService) GetPayout(ctx context.Context, id string) (*domain.PayoutTransaction, error) {
	return s.store.PayoutTransactions().FindPayoutTransactionByID(ctx, id)
}

func (s *settlementService) SubmitFunding(ctx context.Context, id string, actorID *string) (*domain.FundingTransaction, error) {
	subject, err := s.settle(ctx, domain.SubjectRef{Kind: domain.SubjectFunding, ID: id}, actorID, false)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.FundingTransaction), nil
}

func (s *settlementService) SubmitPayout(ctx context.Context, id string, actorID *string) (*domain.PayoutTransaction, error) {
	subject, err := s.settle(ctx, domain.SubjectRef{Kind: domain.SubjectPayout, ID: id}, actorID, false)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.PayoutTransaction), nil
}

func (s *settlementService) RefreshFunding(ctx context.Context, id string) (*domain.FundingTransaction, error) {
	subject, err := s.settle(ctx, domain.SubjectRef{Kind: domain.SubjectFunding, ID: id}, nil, true)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.FundingTransaction), nil
}

func (s *settlementService) RefreshPayout(ctx context.Context, id string) (*domain.PayoutTransaction, error) {
	subject, err := s.settle(ctx, domain.SubjectRef{Kind: domain.SubjectPayout, ID: id}, nil, true)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.PayoutTransaction), nil
}

// settle moves a created transaction to submitted, runs its strategy outside
// of any database transaction and commits a terminal outcome exactly once.
// The caller that moves the transaction takes a submission lease; concurrent
// callers see the lease and return the submitted state without running the
// strategy. Refresh only re-polls transactions that are already submitted.
func (s *settlementService) settle(ctx context.Context, ref domain.SubjectRef, actorID *string, refresh bool) (domain.Settleable, error) {
	logger := s.GetLogger(ctx).With(slog.String("kind", string(ref.Kind)), slog.String("id", ref.ID))

	var (
		subject domain.Settleable
		adapter portssvc.StrategyAdapter
		done    bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		subject, err = s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}
		base := subject.Base()
		now := s.now()
		switch {
		case base.Status.IsResolved():
			done = true
			return nil
		case base.Status == domain.StatusCreated && refresh:
			done = true
			return nil
		case base.Status == domain.StatusSubmitted && base.LeaseHeld(now):
			done = true
			return nil
		}

		adapter, err = s.adapterFor(base.Strategy.Kind())
		if err != nil {
			return err
		}
		until := now.Add(leaseFactor * s.timeout)
		base.SubmittingUntil = &until
		if base.Status == domain.StatusSubmitted {
			return s.update(ctx, tx, subject)
		}

		from := base.Status
		if err := domain.Transition(subject, domain.StatusSubmitted, now); err != nil {
			return err
		}
		if err := s.update(ctx, tx, subject); err != nil {
			return err
		}
		return s.audit.RecordWithin(ctx, tx, domain.TransactionAuditLogEntry{
			Subject:   ref,
			Event:     domain.EventSubmitted,
			FromState: from,
			ToState:   domain.StatusSubmitted,
			ActorID:   actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	if done {
		logger.Debug("Nothing to settle",
			slog.String("status", string(subject.Base().Status)),
			slog.Bool("lease_held", subject.Base().SubmittingUntil != nil))
		return subject, nil
	}

	outcome, err := s.execute(ctx, subject, adapter)
	if err != nil {
		if relErr := s.releaseLease(context.WithoutCancel(ctx), ref, domain.StrategyOutcome{}); relErr != nil {
			s.LogError(ctx, relErr, "Failed to release submission lease", slog.String("kind", string(ref.Kind)), slog.String("id", ref.ID))
		}
		return nil, err
	}
	logger.Info("Strategy returned",
		slog.String("outcome", string(outcome.Kind)),
		slog.String("external_ref", outcome.ExternalRef),
		slog.String("reason", outcome.Reason))

	if outcome.Kind == domain.OutcomePending {
		if err := s.releaseLease(ctx, ref, outcome); err != nil {
			return nil, err
		}
		return s.find(ctx, ref)
	}

	published, resolved, err := s.resolve(ctx, ref, outcome, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to commit strategy outcome", slog.String("kind", string(ref.Kind)), slog.String("id", ref.ID))
		return nil, err
	}
	if resolved {
		s.book.Publish(ctx, published...)
		s.metrics.SettlementOutcome(string(ref.Kind), string(subject.Base().Strategy.Kind()), string(outcome.Kind))
	} else {
		logger.Info("Outcome already committed by a concurrent settlement")
	}
	return s.find(ctx, ref)
}

// adapterFor rejects strategy kinds this process cannot execute.
func (s *settlementService) adapterFor(kind domain.StrategyKind) (portssvc.StrategyAdapter, error) {
	adapter, err := s.strategies.AdapterFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: strategy %q is not available: %v", apperrors.ErrValidation, kind, err)
	}
	return adapter, nil
}

// execute calls the strategy adapter under the configured timeout and
// turns adapter errors into outcomes.
func (s *settlementService) execute(ctx context.Context, subject domain.Settleable, adapter portssvc.StrategyAdapter) (domain.StrategyOutcome, error) {
	kind := subject.Base().Strategy.Kind()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	outcome, err := adapter.Execute(callCtx, subject)
	s.metrics.ObserveStrategy(string(kind), time.Since(started))
	if err == nil {
		switch outcome.Kind {
		case domain.OutcomeSuccess, domain.OutcomePending, domain.OutcomeFailure:
			return outcome, nil
		default:
			return domain.Failure(reasonStrategyError, fmt.Sprintf("unknown outcome %q", outcome.Kind)), nil
		}
	}

	if ctx.Err() != nil {
		// The caller went away; leave the transaction submitted for a later refresh.
		return domain.StrategyOutcome{}, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		if adapter.RetryOnTimeout() {
			return domain.Pending(subject.Base().ExternalRef), nil
		}
		return domain.Failure(domain.ReasonStrategyTimeout), nil
	}
	return domain.Failure(reasonStrategyError, err.Error()), nil
}

// releaseLease frees the submission lease of a still submitted transaction
// so the next re-poll runs the strategy, keeping any external reference the
// strategy reported.
func (s *settlementService) releaseLease(ctx context.Context, ref domain.SubjectRef, outcome domain.StrategyOutcome) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		subject, err := s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}
		base := subject.Base()
		if base.Status != domain.StatusSubmitted {
			return nil
		}
		if outcome.ExternalRef != "" {
			base.ExternalRef = outcome.ExternalRef
		}
		base.SubmittingUntil = nil
		base.UpdatedAt = s.now()
		return s.update(ctx, tx, subject)
	})
}

func resolveKey(ref domain.SubjectRef) string {
	return fmt.Sprintf("%s-%s-resolve", ref.Kind, ref.ID)
}

// resolve commits a Success or Failure outcome. It reports resolved=false
// when another settlement already committed an outcome for the transaction.
func (s *settlementService) resolve(ctx context.Context, ref domain.SubjectRef, outcome domain.StrategyOutcome, actorID *string) ([]domain.BookTransaction, bool, error) {
	var (
		published []domain.BookTransaction
		resolved  bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		key := resolveKey(ref)
		claimed, err := s.idempotency.ClaimWithin(ctx, tx, key)
		if err != nil || !claimed {
			return err
		}
		subject, err := s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}
		base := subject.Base()
		if base.Status != domain.StatusSubmitted {
			return nil
		}
		if outcome.ExternalRef != "" {
			base.ExternalRef = outcome.ExternalRef
		}
		base.SubmittingUntil = nil

		entry := domain.TransactionAuditLogEntry{
			Subject:   ref,
			FromState: base.Status,
			Reason:    outcome.Reason,
			Messages:  outcome.Messages,
			ActorID:   actorID,
		}
		switch outcome.Kind {
		case domain.OutcomeSuccess:
			if subject.SettledBookTransactionID() == nil {
				from, to := subject.SettlementLegs()
				bt, err := s.book.TransferWithin(ctx, tx, dto.TransferRequest{
					OriginatingLedgerID: from,
					ReceivingLedgerID:   to,
					Amount:              base.Amount,
					Memo:                base.Memo,
					Category:            settlementCategory(ref.Kind),
					ActorID:             actorID,
				})
				if err != nil {
					return err
				}
				subject.SetSettledBookTransactionID(bt.BookTransactionID)
				published = append(published, *bt)
			}
			if err := domain.Transition(subject, domain.StatusSettled, s.now()); err != nil {
				return err
			}
			entry.Event = domain.EventStrategySucceeded
		default:
			if err := domain.Transition(subject, domain.StatusFailed, s.now()); err != nil {
				return err
			}
			entry.Event = domain.EventStrategyFailed
		}
		entry.ToState = base.Status

		if err := s.update(ctx, tx, subject); err != nil {
			return err
		}
		if err := s.audit.RecordWithin(ctx, tx, entry); err != nil {
			return err
		}
		result, err := json.Marshal(outcome)
		if err != nil {
			return err
		}
		if err := tx.Idempotency().SaveIdempotencyResult(ctx, key, result); err != nil {
			return err
		}
		resolved = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return published, resolved, nil
}

func settlementCategory(kind domain.SubjectKind) string {
	if kind == domain.SubjectPayout {
		return domain.CategoryPayout
	}
	return domain.CategoryFunding
}

func (s *settlementService) ReverseFunding(ctx context.Context, id string, req dto.ReverseRequest) (*domain.FundingTransaction, error) {
	subject, err := s.reverse(ctx, domain.SubjectRef{Kind: domain.SubjectFunding, ID: id}, req)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.FundingTransaction), nil
}

func (s *settlementService) ReversePayout(ctx context.Context, id string, req dto.ReverseRequest) (*domain.PayoutTransaction, error) {
	subject, err := s.reverse(ctx, domain.SubjectRef{Kind: domain.SubjectPayout, ID: id}, req)
	if err != nil {
		return nil, err
	}
	return subject.(*domain.PayoutTransaction), nil
}

// reverse undoes the settlement transfer of a settled transaction with a
// transfer in the opposite direction.
func (s *settlementService) reverse(ctx context.Context, ref domain.SubjectRef, req dto.ReverseRequest) (domain.Settleable, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var (
		subject  domain.Settleable
		reversal *domain.BookTransaction
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		subject, err = s.lock(ctx, tx, ref)
		if err != nil {
			return err
		}
		base := subject.Base()
		if base.Status != domain.StatusSettled {
			return &domain.InvalidStateTransitionError{Subject: ref, From: base.Status, To: domain.StatusReversed}
		}

		from, to := subject.SettlementLegs()
		reversal, err = s.book.TransferWithin(ctx, tx, dto.TransferRequest{
			OriginatingLedgerID: to,
			ReceivingLedgerID:   from,
			Amount:              base.Amount,
			Memo:                reversalMemo(base.Memo),
			Category:            domain.CategoryReversal,
			ActorID:             req.ActorID,
		})
		if err != nil {
			return err
		}
		base.ReversalBookTransactionID = &reversal.BookTransactionID
		if err := domain.Transition(subject, domain.StatusReversed, s.now()); err != nil {
			return err
		}
		if err := s.update(ctx, tx, subject); err != nil {
			return err
		}
		return s.audit.RecordWithin(ctx, tx, domain.TransactionAuditLogEntry{
			Subject:   ref,
			Event:     domain.EventReversed,
			FromState: domain.StatusSettled,
			ToState:   domain.StatusReversed,
			Reason:    req.Reason,
			ActorID:   req.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.book.Publish(ctx, *reversal)
	s.GetLogger(ctx).Info("External transaction reversed",
		slog.String("kind", string(ref.Kind)),
		slog.String("id", ref.ID),
		slog.String("reversal_book_transaction_id", reversal.BookTransactionID))
	return subject, nil
}

func reversalMemo(memo domain.LocalizedText) domain.LocalizedText {
	return domain.LocalizedText{En: "Reversal: " + memo.En, Es: "Reversión: " + memo.Es}
}

func (s *settlementService) InitiateRefund(ctx context.Context, fundingID string, req dto.RefundRequest) (*domain.PayoutTransaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	strategy, err := domain.ExactlyOneStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequest(strategy); err != nil {
		return nil, err
	}
	if _, err := s.adapterFor(strategy.Kind()); err != nil {
		return nil, err
	}

	var (
		payout    *domain.PayoutTransaction
		crediting *domain.BookTransaction
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		funding, err := tx.FundingTransactions().LockFundingTransaction(ctx, fundingID)
		if err != nil {
			return err
		}
		if funding.Status != domain.StatusSettled {
			return &domain.InvalidStateTransitionError{Subject: funding.Ref(), From: funding.Status, To: domain.StatusReversed}
		}

		amount := funding.Amount
		if !req.Amount.IsZero() {
			amount = domain.NewMoney(req.Amount.Cents, req.Amount.Currency)
			switch {
			case amount.IsNegative():
				return domain.ErrNegativeAmount
			case !amount.SameCurrency(funding.Amount):
				return domain.ErrCurrencyMismatch
			case amount.Cents > funding.Amount.Cents:
				return fmt.Errorf("%w: refund of %s exceeds funding of %s", apperrors.ErrValidation, amount, funding.Amount)
			}
		}

		memo := req.Memo
		if memo == (domain.LocalizedText{}) {
			memo = domain.LocalizedText{En: "Refund: " + funding.Memo.En, Es: "Reembolso: " + funding.Memo.Es}
		}
		crediting, err = s.book.TransferWithin(ctx, tx, dto.TransferRequest{
			OriginatingLedgerID: funding.PlatformLedgerID,
			ReceivingLedgerID:   funding.AccountLedgerID,
			Amount:              amount,
			Memo:                memo,
			Category:            domain.CategoryRefund,
			ActorID:             req.ActorID,
		})
		if err != nil {
			return err
		}

		funding.ReversalBookTransactionID = &crediting.BookTransactionID
		if err := domain.Transition(funding, domain.StatusReversed, s.now()); err != nil {
			return err
		}
		if err := tx.FundingTransactions().UpdateFundingTransaction(ctx, funding); err != nil {
			return err
		}
		if err := s.audit.RecordWithin(ctx, tx, domain.TransactionAuditLogEntry{
			Subject:   funding.Ref(),
			Event:     domain.EventReversed,
			FromState: domain.StatusSettled,
			ToState:   domain.StatusReversed,
			Reason:    req.Reason,
			ActorID:   req.ActorID,
		}); err != nil {
			return err
		}

		now := s.now()
		payout = &domain.PayoutTransaction{
			ExternalTransaction: domain.ExternalTransaction{
				ID:               uuid.NewString(),
				AccountID:        funding.AccountID,
				AccountLedgerID:  funding.AccountLedgerID,
				PlatformLedgerID: funding.PlatformLedgerID,
				Amount:           amount,
				Strategy:         strategy,
				Status:           domain.StatusCreated,
				Memo:             memo,
				Timestamps:       domain.Timestamps{CreatedAt: now, UpdatedAt: now},
			},
			CreditingBookTransactionID:   &crediting.BookTransactionID,
			RefundedFundingTransactionID: &funding.ID,
		}
		if err := payout.Validate(); err != nil {
			return err
		}
		if err := tx.PayoutTransactions().SavePayoutTransaction(ctx, payout); err != nil {
			return err
		}
		return s.audit.RecordWithin(ctx, tx, domain.TransactionAuditLogEntry{
			Subject: payout.Ref(),
			Event:   domain.EventRefundInitiated,
			ToState: domain.StatusCreated,
			Reason:  req.Reason,
			ActorID: req.ActorID,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to initiate refund", slog.String("funding_id", fundingID))
		return nil, err
	}

	s.book.Publish(ctx, *crediting)
	s.GetLogger(ctx).Info("Refund initiated",
		slog.String("funding_id", fundingID),
		slog.String("payout_id", payout.ID),
		slog.String("amount", payout.Amount.String()))
	return payout, nil
}

func (s *settlementService) lock(ctx context.Context, tx portsrepo.Store, ref domain.SubjectRef) (domain.Settleable, error) {
	switch ref.Kind {
	case domain.SubjectFunding:
		return tx.FundingTransactions().LockFundingTransaction(ctx, ref.ID)
	case domain.SubjectPayout:
		return tx.PayoutTransactions().LockPayoutTransaction(ctx, ref.ID)
	}
	return nil, fmt.Errorf("%w: unknown subject kind %q", apperrors.ErrValidation, ref.Kind)
}

func (s *settlementService) find(ctx context.Context, ref domain.SubjectRef) (domain.Settleable, error) {
	switch ref.Kind {
	case domain.SubjectFunding:
		return s.store.FundingTransactions().FindFundingTransactionByID(ctx, ref.ID)
	case domain.SubjectPayout:
		return s.store.PayoutTransactions().FindPayoutTransactionByID(ctx, ref.ID)
	}
	return nil, fmt.Errorf("%w: unknown subject kind %q", apperrors.ErrValidation, ref.Kind)
}

func (s *settlementService) insert(ctx context.Context, tx portsrepo.Store, subject domain.Settleable) error {
	switch v := subject.(type) {
	case *domain.FundingTransaction:
		return tx.FundingTransactions().SaveFundingTransaction(ctx, v)
	case *domain.PayoutTransaction:
		if err := v.Validate(); err != nil {
			return err
		}
		return tx.PayoutTransactions().SavePayoutTransaction(ctx, v)
	}
	return fmt.Errorf("%w: unsupported transaction type %T", apperrors.ErrValidation, subject)
}

func (s *settlementService) update(ctx context.Context, tx portsrepo.Store, subject domain.Settleable) error {
	switch v := subject.(type) {
	case *domain.FundingTransaction:
		return tx.FundingTransactions().UpdateFundingTransaction(ctx, v)
	case *domain.PayoutTransaction:
		return tx.PayoutTransactions().UpdatePayoutTransaction(ctx, v)
	}
	return fmt.Errorf("%w: unsupported transaction type %T", apperrors.ErrValidation, subject)
}
