package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/observability/metrics"
)

type triggerService struct {
	BaseService
	store       portsrepo.UnitOfWork
	ledgers     portssvc.LedgerSvc
	book        portssvc.BookSvc
	eligibility portssvc.EligibilityChecker
}

// NewTriggerService creates the subsidy matching engine. Subscribe it to the
// book service so every committed transfer is evaluated.
func NewTriggerService(
	store portsrepo.UnitOfWork,
	ledgers portssvc.LedgerSvc,
	book portssvc.BookSvc,
	eligibility portssvc.EligibilityChecker,
	options ...ServiceOption,
) portssvc.TriggerSvc {
	return &triggerService{
		BaseService: newBaseService(options),
		store:       store,
		ledgers:     ledgers,
		book:        book,
		eligibility: eligibility,
	}
}

var _ portssvc.TriggerSvc = (*triggerService)(nil)

func (s *triggerService) CreateTrigger(ctx context.Context, req dto.CreateTriggerRequest) (*domain.PaymentTrigger, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.store.Ledgers().FindLedgerByID(ctx, req.OriginatingLedgerID); err != nil {
		return nil, fmt.Errorf("originating ledger: %w", err)
	}

	policy := req.UnmatchedPolicy
	if policy == "" {
		policy = domain.UnmatchedExclude
	}
	trigger := domain.PaymentTrigger{
		TriggerID:                     uuid.NewString(),
		Label:                         req.Label,
		ActiveDuring:                  domain.TimeRange{Start: req.ActiveFrom.UTC(), End: req.ActiveUntil.UTC()},
		MatchMultiplier:               req.MatchMultiplier,
		MaximumCumulativeSubsidyCents: req.MaximumCumulativeSubsidyCents,
		UnmatchedAmountCents:          req.UnmatchedAmountCents,
		UnmatchedPolicy:               policy,
		ActAsCredit:                   req.ActAsCredit,
		CreditAmountCents:             req.CreditAmountCents,
		OriginatingLedgerID:           req.OriginatingLedgerID,
		ReceivingLedgerLabel:          req.ReceivingLedgerLabel,
		Memo:                          req.Memo,
		CreatedAt:                     s.now(),
	}
	if err := trigger.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Triggers().SaveTrigger(ctx, trigger); err != nil {
		return nil, fmt.Errorf("failed to save trigger %q: %w", trigger.Label, err)
	}

	s.GetLogger(ctx).Info("Payment trigger created",
		slog.String("trigger_id", trigger.TriggerID),
		slog.String("label", trigger.Label),
		slog.String("match_multiplier", trigger.MatchMultiplier.String()))
	return &trigger, nil
}

func (s *triggerService) GetTriggerByLabel(ctx context.Context, label string) (*domain.PaymentTrigger, error) {
	return s.store.Triggers().FindTriggerByLabel(ctx, label)
}

func (s *triggerService) ListExecutions(ctx context.Context, triggerID string) ([]domain.PaymentTriggerExecution, error) {
	return s.store.Triggers().ListExecutions(ctx, triggerID)
}

func (s *triggerService) CumulativeSubsidy(ctx context.Context, triggerID string) (int64, error) {
	if _, err := s.store.Triggers().FindTriggerByID(ctx, triggerID); err != nil {
		return 0, err
	}
	return s.store.Triggers().SumMatchedCents(ctx, triggerID)
}

// OnBookTransaction evaluates triggers for a freshly committed transfer.
// Failures are logged; the source transfer is already committed.
func (s *triggerService) OnBookTransaction(ctx context.Context, bt domain.BookTransaction) {
	if _, err := s.evaluate(ctx, bt); err != nil {
		s.LogError(ctx, err, "Trigger evaluation failed", slog.String("book_transaction_id", bt.BookTransactionID))
	}
}

func (s *triggerService) EvaluateTriggers(ctx context.Context, bookTransactionID string) ([]domain.PaymentTriggerExecution, error) {
	bt, err := s.store.BookTransactions().FindBookTransactionByID(ctx, bookTransactionID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, *bt)
}

// qualify decides whether bt is a member contribution that triggers may
// match. It returns the receiving account when it is.
func (s *triggerService) qualify(ctx context.Context, bt domain.BookTransaction) (*domain.PaymentAccount, error) {
	ledgers, err := s.store.Ledgers().FindLedgersByIDs(ctx, []string{bt.OriginatingLedgerID, bt.ReceivingLedgerID})
	if err != nil {
		return nil, err
	}
	from, okFrom := ledgers[bt.OriginatingLedgerID]
	to, okTo := ledgers[bt.ReceivingLedgerID]
	if !okFrom || !okTo {
		return nil, fmt.Errorf("%w: ledgers of book transaction %s", apperrors.ErrNotFound, bt.BookTransactionID)
	}
	accounts, err := s.store.Accounts().FindAccountsByIDs(ctx, []string{from.AccountID, to.AccountID})
	if err != nil {
		return nil, err
	}
	fromAccount, okFrom := accounts[from.AccountID]
	toAccount, okTo := accounts[to.AccountID]
	if !okFrom || !okTo {
		return nil, fmt.Errorf("%w: accounts of book transaction %s", apperrors.ErrNotFound, bt.BookTransactionID)
	}
	if fromAccount.Owner.Kind() != domain.OwnerCustomer || toAccount.Owner.Kind() != domain.OwnerCustomer {
		return nil, nil
	}
	isMatch, err := s.store.Triggers().IsMatchTransaction(ctx, bt.BookTransactionID)
	if err != nil || isMatch {
		return nil, err
	}
	return &toAccount, nil
}

func (s *triggerService) evaluate(ctx context.Context, bt domain.BookTransaction) ([]domain.PaymentTriggerExecution, error) {
	logger := s.GetLogger(ctx).With(slog.String("book_transaction_id", bt.BookTransactionID))

	account, err := s.qualify(ctx, bt)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	actorID := account.Owner.ID()
	if bt.ActorID != nil && *bt.ActorID != "" {
		actorID = *bt.ActorID
	}

	triggers, err := s.store.Triggers().ListActiveTriggers(ctx, bt.ApplyAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list active triggers: %w", err)
	}

	var (
		executions []domain.PaymentTriggerExecution
		errs       []error
	)
	for _, trigger := range triggers {
		if trigger.OriginatingLedgerID == bt.OriginatingLedgerID {
			continue
		}
		if _, err := s.store.Triggers().FindExecution(ctx, trigger.TriggerID, bt.BookTransactionID); err == nil {
			s.metrics.TriggerEvaluated(metrics.ResultSkipped)
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			errs = append(errs, err)
			continue
		}

		eligible, err := s.eligibility.IsEligible(ctx, actorID, trigger)
		if err != nil {
			s.metrics.TriggerEvaluated(metrics.ResultError)
			errs = append(errs, fmt.Errorf("eligibility for trigger %s: %w", trigger.Label, err))
			continue
		}
		if !eligible {
			s.metrics.TriggerEvaluated(metrics.ResultIneligible)
			logger.Debug("Actor not eligible for trigger", slog.String("trigger", trigger.Label), slog.String("actor_id", actorID))
			continue
		}

		execution, match, result, err := s.apply(ctx, trigger, bt, account.AccountID)
		if err != nil {
			s.metrics.TriggerEvaluated(metrics.ResultError)
			errs = append(errs, fmt.Errorf("trigger %s: %w", trigger.Label, err))
			continue
		}
		s.metrics.TriggerEvaluated(result)
		if execution == nil {
			continue
		}

		s.book.Publish(ctx, *match)
		s.metrics.SubsidyGranted(match.Amount.Currency, execution.MatchedCents)
		logger.Info("Subsidy matched",
			slog.String("trigger", trigger.Label),
			slog.String("match_book_transaction_id", match.BookTransactionID),
			slog.Int64("matched_cents", execution.MatchedCents))
		executions = append(executions, *execution)
	}
	return executions, errors.Join(errs...)
}

// apply writes the match for one trigger with the trigger row locked, so the
// cumulative cap and the once-per-source rule hold under concurrency.
func (s *triggerService) apply(
	ctx context.Context,
	trigger domain.PaymentTrigger,
	source domain.BookTransaction,
	accountID string,
) (*domain.PaymentTriggerExecution, *domain.BookTransaction, string, error) {
	var (
		execution *domain.PaymentTriggerExecution
		match     *domain.BookTransaction
		result    = metrics.ResultSkipped
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		if err := tx.Triggers().LockTrigger(ctx, trigger.TriggerID); err != nil {
			return err
		}
		if _, err := tx.Triggers().FindExecution(ctx, trigger.TriggerID, source.BookTransactionID); err == nil {
			return nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		cumulative, err := tx.Triggers().SumMatchedCents(ctx, trigger.TriggerID)
		if err != nil {
			return err
		}
		cents := trigger.ComputeMatch(source.Amount.Cents, cumulative)
		if cents <= 0 {
			if cumulative >= trigger.MaximumCumulativeSubsidyCents {
				result = metrics.ResultCapped
			}
			return nil
		}

		receiving, err := s.ledgers.EnsureLedgerWithin(ctx, tx, accountID, source.Amount.Currency, trigger.ReceivingLedgerLabel)
		if err != nil {
			return err
		}
		memo := trigger.Memo
		if memo == (domain.LocalizedText{}) {
			memo = domain.LocalizedText{En: "Subsidy from " + trigger.Label, Es: "Subsidio de " + trigger.Label}
		}
		match, err = s.book.TransferWithin(ctx, tx, dto.TransferRequest{
			OriginatingLedgerID: trigger.OriginatingLedgerID,
			ReceivingLedgerID:   receiving.LedgerID,
			Amount:              domain.NewMoney(cents, source.Amount.Currency),
			Memo:                memo,
			Category:            domain.CategorySubsidyMatch,
			ActorID:             source.ActorID,
			ApplyAt:             source.ApplyAt,
		})
		if err != nil {
			return err
		}

		execution = &domain.PaymentTriggerExecution{
			ExecutionID:             uuid.NewString(),
			TriggerID:               trigger.TriggerID,
			SourceBookTransactionID: source.BookTransactionID,
			MatchBookTransactionID:  match.BookTransactionID,
			MatchedCents:            cents,
			CreatedAt:               s.now(),
		}
		if err := tx.Triggers().SaveExecution(ctx, *execution); err != nil {
			return err
		}
		result = metrics.ResultMatched
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrTriggerAlreadyExecuted) {
			return nil, nil, metrics.ResultSkipped, nil
		}
		return nil, nil, metrics.ResultError, err
	}
	return execution, match, result, nil
}
