package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/models"
	"github.com/lithictech/suma-sub001/internal/utils/mapping"
)

const (
	chargeColumns = `charge_id, member_id, commerce_order_id, mobility_trip_id, undiscounted_subtotal_cents,
		off_platform_amount_cents, currency, created_at`
	lineItemColumns = "line_item_id, charge_id, book_transaction_id, amount_cents, currency, memo_en, memo_es, created_at"
)

type chargeRepository struct {
	BaseRepository
}

var _ portsrepo.ChargeRepositoryFacade = (*chargeRepository)(nil)

func (r *chargeRepository) FindChargeByID(ctx context.Context, chargeID string) (*domain.Charge, error) {
	m, err := getOne[models.Charge](ctx, r.q, "SELECT "+chargeColumns+" FROM charges WHERE charge_id = $1", chargeID)
	if err != nil {
		return nil, r.translate(err, "find", "charge "+chargeID)
	}
	items, err := getMany[models.ChargeLineItem](ctx, r.q,
		"SELECT "+lineItemColumns+" FROM charge_line_items WHERE charge_id = $1 ORDER BY seq", chargeID)
	if err != nil {
		return nil, r.translate(err, "list", "line items of charge "+chargeID)
	}
	charge := mapping.ToDomainCharge(m, items)
	return &charge, nil
}

func (r *chargeRepository) FindLineItemByBookTransaction(ctx context.Context, bookTransactionID string) (*domain.ChargeLineItem, error) {
	m, err := getOne[models.ChargeLineItem](ctx, r.q,
		"SELECT "+lineItemColumns+" FROM charge_line_items WHERE book_transaction_id = $1", bookTransactionID)
	if err != nil {
		return nil, r.translate(err, "find", "line item for book transaction "+bookTransactionID)
	}
	li := mapping.ToDomainLineItem(m)
	return &li, nil
}

func (r *chargeRepository) SaveCharge(ctx context.Context, charge domain.Charge) error {
	m := mapping.ToModelCharge(charge)
	query := `
		INSERT INTO charges (charge_id, member_id, commerce_order_id, mobility_trip_id,
			undiscounted_subtotal_cents, off_platform_amount_cents, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.q.Exec(ctx, query,
		m.ChargeID, m.MemberID, m.CommerceOrderID, m.MobilityTripID,
		m.UndiscountedSubtotalCents, m.OffPlatformAmountCents, m.Currency, m.CreatedAt,
	)
	return r.translate(err, "save", "charge "+m.ChargeID)
}

func (r *chargeRepository) UpdateChargeOffPlatformAmount(ctx context.Context, chargeID string, amount domain.Money) error {
	tag, err := r.q.Exec(ctx, "UPDATE charges SET off_platform_amount_cents = $2 WHERE charge_id = $1", chargeID, amount.Cents)
	if err != nil {
		return r.translate(err, "update", "charge "+chargeID)
	}
	if tag.RowsAffected() == 0 {
		return r.translate(pgx.ErrNoRows, "update", "charge "+chargeID)
	}
	return nil
}

// SaveLineItems inserts every item in one batch. The unique index on
// book_transaction_id rejects a book transaction charged twice.
func (r *chargeRepository) SaveLineItems(ctx context.Context, items []domain.ChargeLineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO charge_line_items (line_item_id, charge_id, book_transaction_id, amount_cents,
			currency, memo_en, memo_es, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelLineItem(item)
		batch.Queue(query, m.LineItemID, m.ChargeID, m.BookTransactionID, m.AmountCents, m.Currency, m.MemoEn, m.MemoEs, m.CreatedAt)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for _, item := range items {
		if _, err := br.Exec(); err != nil {
			return r.translate(err, "save", "line item "+item.LineItemID)
		}
	}
	return nil
}
