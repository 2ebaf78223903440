package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/models"
	"github.com/lithictech/suma-sub001/internal/utils/mapping"
)

const externalTransactionColumns = `id, account_id, account_ledger_id, platform_ledger_id, amount_cents, currency,
	strategy_kind, strategy_details, status, external_ref, reversal_book_transaction_id, submitting_until,
	created_at, updated_at, memo_en, memo_es`

const (
	fundingColumns = externalTransactionColumns + ", originated_book_transaction_id"
	payoutColumns  = externalTransactionColumns + ", crediting_book_transaction_id, refunded_funding_transaction_id"
)

type fundingRepository struct {
	BaseRepository
}

var _ portsrepo.FundingTransactionRepositoryFacade = (*fundingRepository)(nil)

func (r *fundingRepository) find(ctx context.Context, id, suffix string) (*domain.FundingTransaction, error) {
	query := "SELECT " + fundingColumns + " FROM funding_transactions WHERE id = $1" + suffix
	m, err := getOne[models.FundingTransaction](ctx, r.q, query, id)
	if err != nil {
		return nil, r.translate(err, "find", "funding transaction "+id)
	}
	funding, err := mapping.ToDomainFunding(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode funding transaction "+id, err)
	}
	return funding, nil
}

func (r *fundingRepository) FindFundingTransactionByID(ctx context.Context, id string) (*domain.FundingTransaction, error) {
	return r.find(ctx, id, "")
}

func (r *fundingRepository) LockFundingTransaction(ctx context.Context, id string) (*domain.FundingTransaction, error) {
	return r.find(ctx, id, " FOR UPDATE")
}

func (r *fundingRepository) SaveFundingTransaction(ctx context.Context, funding *domain.FundingTransaction) error {
	m, err := mapping.ToModelFunding(funding)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO funding_transactions (id, account_id, account_ledger_id, platform_ledger_id, amount_cents, currency,
			strategy_kind, strategy_details, status, external_ref, reversal_book_transaction_id,
			created_at, updated_at, memo_en, memo_es, originated_book_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.q.Exec(ctx, query,
		m.ID, m.AccountID, m.AccountLedgerID, m.PlatformLedgerID, m.AmountCents, m.Currency,
		m.StrategyKind, m.StrategyDetails, m.Status, m.ExternalRef, m.ReversalBookTransactionID,
		m.CreatedAt, m.UpdatedAt, m.MemoEn, m.MemoEs, m.OriginatedBookTransactionID,
	)
	return r.translate(err, "save", "funding transaction "+m.ID)
}

func (r *fundingRepository) UpdateFundingTransaction(ctx context.Context, funding *domain.FundingTransaction) error {
	query := `
		UPDATE funding_transactions
		SET status = $2, external_ref = $3, originated_book_transaction_id = $4,
			reversal_book_transaction_id = $5, updated_at = $6, submitting_until = $7
		WHERE id = $1;
	`
	tag, err := r.q.Exec(ctx, query,
		funding.ID,
		string(funding.Status),
		funding.ExternalRef,
		funding.OriginatedBookTransactionID,
		funding.ReversalBookTransactionID,
		funding.UpdatedAt,
		funding.SubmittingUntil,
	)
	if err != nil {
		return r.translate(err, "update", "funding transaction "+funding.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.translate(pgx.ErrNoRows, "update", "funding transaction "+funding.ID)
	}
	return nil
}

type payoutRepository struct {
	BaseRepository
}

var _ portsrepo.PayoutTransactionRepositoryFacade = (*payoutRepository)(nil)

func (r *payoutRepository) find(ctx context.Context, id, suffix string) (*domain.PayoutTransaction, error) {
	query := "SELECT " + payoutColumns + " FROM payout_transactions WHERE id = $1" + suffix
	m, err := getOne[models.PayoutTransaction](ctx, r.q, query, id)
	if err != nil {
		return nil, r.translate(err, "find", "payout transaction "+id)
	}
	payout, err := mapping.ToDomainPayout(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode payout transaction "+id, err)
	}
	return payout, nil
}

func (r *payoutRepository) FindPayoutTransactionByID(ctx context.Context, id string) (*domain.PayoutTransaction, error) {
	return r.find(ctx, id, "")
}

func (r *payoutRepository) LockPayoutTransaction(ctx context.Context, id string) (*domain.PayoutTransaction, error) {
	return r.find(ctx, id, " FOR UPDATE")
}

func (r *payoutRepository) SavePayoutTransaction(ctx context.Context, payout *domain.PayoutTransaction) error {
	if err := payout.Validate(); err != nil {
		return err
	}
	m, err := mapping.ToModelPayout(payout)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO payout_transactions (id, account_id, account_ledger_id, platform_ledger_id, amount_cents, currency,
			strategy_kind, strategy_details, status, external_ref, reversal_book_transaction_id,
			created_at, updated_at, memo_en, memo_es, crediting_book_transaction_id, refunded_funding_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.q.Exec(ctx, query,
		m.ID, m.AccountID, m.AccountLedgerID, m.PlatformLedgerID, m.AmountCents, m.Currency,
		m.StrategyKind, m.StrategyDetails, m.Status, m.ExternalRef, m.ReversalBookTransactionID,
		m.CreatedAt, m.UpdatedAt, m.MemoEn, m.MemoEs, m.CreditingBookTransactionID, m.RefundedFundingTransactionID,
	)
	return r.translate(err, "save", "payout transaction "+m.ID)
}

func (r *payoutRepository) UpdatePayoutTransaction(ctx context.Context, payout *domain.PayoutTransaction) error {
	if err := payout.Validate(); err != nil {
		return err
	}
	query := `
		UPDATE payout_transactions
		SET status = $2, external_ref = $3, crediting_book_transaction_id = $4,
			reversal_book_transaction_id = $5, updated_at = $6, submitting_until = $7
		WHERE id = $1;
	`
	tag, err := r.q.Exec(ctx, query,
		payout.ID,
		string(payout.Status),
		payout.ExternalRef,
		payout.CreditingBookTransactionID,
		payout.ReversalBookTransactionID,
		payout.UpdatedAt,
		payout.SubmittingUntil,
	)
	if err != nil {
		return r.translate(err, "update", "payout transaction "+payout.ID)
	}
	if tag.RowsAffected() == 0 {
		return r.translate(pgx.ErrNoRows, "update", "payout transaction "+payout.ID)
	}
	return nil
}

func (r *payoutRepository) FindPayoutsRefundingFunding(ctx context.Context, fundingID string) ([]domain.PayoutTransaction, error) {
	query := "SELECT " + payoutColumns + " FROM payout_transactions WHERE refunded_funding_transaction_id = $1 ORDER BY created_at, id"
	ms, err := getMany[models.PayoutTransaction](ctx, r.q, query, fundingID)
	if err != nil {
		return nil, r.translate(err, "list", "refunds of funding transaction "+fundingID)
	}
	out := make([]domain.PayoutTransaction, 0, len(ms))
	for _, m := range ms {
		payout, err := mapping.ToDomainPayout(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode payout transaction "+m.ID, err)
		}
		out = append(out, *payout)
	}
	return out, nil
}

const auditLogColumns = "audit_log_entry_id, subject_kind, subject_id, at, event, from_state, to_state, reason, messages, actor_id"

type auditLogRepository struct {
	BaseRepository
}

var _ portsrepo.AuditLogRepositoryFacade = (*auditLogRepository)(nil)

func (r *auditLogRepository) AppendAuditLogEntry(ctx context.Context, entry domain.TransactionAuditLogEntry) error {
	m := mapping.ToModelAuditLogEntry(entry)
	query := `
		INSERT INTO transaction_audit_log (audit_log_entry_id, subject_kind, subject_id, at, event,
			from_state, to_state, reason, messages, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.q.Exec(ctx, query,
		m.AuditLogEntryID, m.SubjectKind, m.SubjectID, m.At, m.Event,
		m.FromState, m.ToState, m.Reason, m.Messages, m.ActorID,
	)
	return r.translate(err, "append", "audit log entry for "+m.SubjectKind+" "+m.SubjectID)
}

// ListAuditLogEntries breaks timestamp ties with the insertion sequence.
func (r *auditLogRepository) ListAuditLogEntries(ctx context.Context, subject domain.SubjectRef) ([]domain.TransactionAuditLogEntry, error) {
	query := "SELECT " + auditLogColumns + " FROM transaction_audit_log WHERE subject_kind = $1 AND subject_id = $2 ORDER BY at, seq"
	ms, err := getMany[models.AuditLogEntry](ctx, r.q, query, string(subject.Kind), subject.ID)
	if err != nil {
		return nil, r.translate(err, "list", "audit log of "+string(subject.Kind)+" "+subject.ID)
	}
	out := make([]domain.TransactionAuditLogEntry, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainAuditLogEntry(m)
	}
	return out, nil
}

type idempotencyRepository struct {
	BaseRepository
}

var _ portsrepo.IdempotencyRepositoryFacade = (*idempotencyRepository)(nil)

// ClaimIdempotencyKey blocks on a concurrent uncommitted claim of the same key
// and only succeeds if that claim rolls back.
func (r *idempotencyRepository) ClaimIdempotencyKey(ctx context.Context, key string, at time.Time) (bool, error) {
	query := `
		INSERT INTO idempotency_keys (key, last_run)
		VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING;
	`
	tag, err := r.q.Exec(ctx, query, key, at)
	if err != nil {
		return false, r.translate(err, "claim", "idempotency key "+key)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *idempotencyRepository) SaveIdempotencyResult(ctx context.Context, key string, result []byte) error {
	tag, err := r.q.Exec(ctx, "UPDATE idempotency_keys SET result = $2 WHERE key = $1", key, result)
	if err != nil {
		return r.translate(err, "update", "idempotency key "+key)
	}
	if tag.RowsAffected() == 0 {
		return r.translate(pgx.ErrNoRows, "update", "idempotency key "+key)
	}
	return nil
}

func (r *idempotencyRepository) FindIdempotencyRecord(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := "SELECT key, last_run, result FROM idempotency_keys WHERE key = $1"
	m, err := getOne[models.IdempotencyKey](ctx, r.q, query, key)
	if err != nil {
		return nil, r.translate(err, "find", "idempotency key "+key)
	}
	rec := mapping.ToDomainIdempotencyRecord(m)
	return &rec, nil
}
