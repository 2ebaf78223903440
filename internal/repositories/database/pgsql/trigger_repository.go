package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/models"
	"github.com/lithictech/suma-sub001/internal/utils/mapping"
)

// match_multiplier is read as text so it scans into decimal.Decimal without a custom codec.
const triggerColumns = `trigger_id, label, active_from, active_until, match_multiplier::text AS match_multiplier,
	maximum_cumulative_subsidy_cents, unmatched_amount_cents, unmatched_policy, act_as_credit,
	credit_amount_cents, originating_ledger_id, receiving_ledger_label, memo_en, memo_es, created_at`

const executionColumns = "execution_id, trigger_id, source_book_transaction_id, match_book_transaction_id, matched_cents, created_at"

type triggerRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentTriggerRepositoryFacade = (*triggerRepository)(nil)

func (r *triggerRepository) FindTriggerByID(ctx context.Context, triggerID string) (*domain.PaymentTrigger, error) {
	query := "SELECT " + triggerColumns + " FROM payment_triggers WHERE trigger_id = $1"
	m, err := getOne[models.PaymentTrigger](ctx, r.q, query, triggerID)
	if err != nil {
		return nil, r.translate(err, "find", "payment trigger "+triggerID)
	}
	t := mapping.ToDomainTrigger(m)
	return &t, nil
}

func (r *triggerRepository) FindTriggerByLabel(ctx context.Context, label string) (*domain.PaymentTrigger, error) {
	query := "SELECT " + triggerColumns + " FROM payment_triggers WHERE label = $1"
	m, err := getOne[models.PaymentTrigger](ctx, r.q, query, label)
	if err != nil {
		return nil, r.translate(err, "find", fmt.Sprintf("payment trigger %q", label))
	}
	t := mapping.ToDomainTrigger(m)
	return &t, nil
}

func (r *triggerRepository) ListActiveTriggers(ctx context.Context, at time.Time) ([]domain.PaymentTrigger, error) {
	query := "SELECT " + triggerColumns + `
		FROM payment_triggers
		WHERE active_from <= $1 AND (active_until IS NULL OR active_until > $1)
		ORDER BY trigger_id COLLATE "C"`
	ms, err := getMany[models.PaymentTrigger](ctx, r.q, query, at)
	if err != nil {
		return nil, r.translate(err, "list", "active payment triggers")
	}
	return mapping.ToDomainTriggers(ms), nil
}

func (r *triggerRepository) FindExecution(ctx context.Context, triggerID, sourceBookTransactionID string) (*domain.PaymentTriggerExecution, error) {
	query := "SELECT " + executionColumns + " FROM payment_trigger_executions WHERE trigger_id = $1 AND source_book_transaction_id = $2"
	m, err := getOne[models.PaymentTriggerExecution](ctx, r.q, query, triggerID, sourceBookTransactionID)
	if err != nil {
		return nil, r.translate(err, "find", fmt.Sprintf("execution of trigger %s for %s", triggerID, sourceBookTransactionID))
	}
	e := mapping.ToDomainExecution(m)
	return &e, nil
}

func (r *triggerRepository) ListExecutions(ctx context.Context, triggerID string) ([]domain.PaymentTriggerExecution, error) {
	query := "SELECT " + executionColumns + " FROM payment_trigger_executions WHERE trigger_id = $1 ORDER BY created_at, execution_id COLLATE \"C\""
	ms, err := getMany[models.PaymentTriggerExecution](ctx, r.q, query, triggerID)
	if err != nil {
		return nil, r.translate(err, "list", "executions of trigger "+triggerID)
	}
	return mapping.ToDomainExecutions(ms), nil
}

func (r *triggerRepository) SumMatchedCents(ctx context.Context, triggerID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		"SELECT COALESCE(SUM(matched_cents), 0)::bigint FROM payment_trigger_executions WHERE trigger_id = $1",
		triggerID,
	).Scan(&sum)
	if err != nil {
		return 0, r.translate(err, "sum", "matches of trigger "+triggerID)
	}
	return sum, nil
}

func (r *triggerRepository) IsMatchTransaction(ctx context.Context, bookTransactionID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM payment_trigger_executions WHERE match_book_transaction_id = $1)",
		bookTransactionID,
	).Scan(&exists)
	if err != nil {
		return false, r.translate(err, "check", "book transaction "+bookTransactionID)
	}
	return exists, nil
}

func (r *triggerRepository) SaveTrigger(ctx context.Context, trigger domain.PaymentTrigger) error {
	m := mapping.ToModelTrigger(trigger)
	query := `
		INSERT INTO payment_triggers (trigger_id, label, active_from, active_until, match_multiplier,
			maximum_cumulative_subsidy_cents, unmatched_amount_cents, unmatched_policy, act_as_credit,
			credit_amount_cents, originating_ledger_id, receiving_ledger_label, memo_en, memo_es, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.q.Exec(ctx, query,
		m.TriggerID,
		m.Label,
		m.ActiveFrom,
		m.ActiveUntil,
		m.MatchMultiplier.String(),
		m.MaximumCumulativeSubsidyCents,
		m.UnmatchedAmountCents,
		m.UnmatchedPolicy,
		m.ActAsCredit,
		m.CreditAmountCents,
		m.OriginatingLedgerID,
		m.ReceivingLedgerLabel,
		m.MemoEn,
		m.MemoEs,
		m.CreatedAt,
	)
	return r.translate(err, "save", fmt.Sprintf("payment trigger %q", m.Label))
}

// LockTrigger takes a row lock that serializes evaluations of the trigger.
func (r *triggerRepository) LockTrigger(ctx context.Context, triggerID string) error {
	var id string
	err := r.q.QueryRow(ctx, "SELECT trigger_id FROM payment_triggers WHERE trigger_id = $1 FOR UPDATE", triggerID).Scan(&id)
	return r.translate(err, "lock", "payment trigger "+triggerID)
}

func (r *triggerRepository) SaveExecution(ctx context.Context, execution domain.PaymentTriggerExecution) error {
	m := mapping.ToModelExecution(execution)
	query := `
		INSERT INTO payment_trigger_executions (execution_id, trigger_id, source_book_transaction_id,
			match_book_transaction_id, matched_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.q.Exec(ctx, query,
		m.ExecutionID, m.TriggerID, m.SourceBookTransactionID, m.MatchBookTransactionID, m.MatchedCents, m.CreatedAt,
	)
	return r.translate(err, "save", fmt.Sprintf("execution of trigger %s for %s", m.TriggerID, m.SourceBookTransactionID))
}
