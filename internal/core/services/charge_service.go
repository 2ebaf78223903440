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
)

var offPlatformMemo = domain.LocalizedText{En: "Off-platform payment", Es: "Pago fuera de la plataforma"}

type chargeService struct {
	BaseService
	store portsrepo.UnitOfWork
}

func NewChargeService(store portsrepo.UnitOfWork, options ...ServiceOption) portssvc.ChargeSvc {
	return &chargeService{BaseService: newBaseService(options), store: store}
}

var _ portssvc.ChargeSvc = (*chargeService)(nil)

func (s *chargeService) CreateCharge(ctx context.Context, req dto.CreateChargeRequest) (*domain.Charge, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	subtotal := domain.NewMoney(req.UndiscountedSubtotal.Cents, req.UndiscountedSubtotal.Currency)
	charge := domain.Charge{
		ChargeID:             uuid.NewString(),
		MemberID:             req.MemberID,
		CommerceOrderID:      req.CommerceOrderID,
		MobilityTripID:       req.MobilityTripID,
		UndiscountedSubtotal: subtotal,
		OffPlatformAmount:    domain.Money{Currency: subtotal.Currency},
		LineItems:            []domain.ChargeLineItem{},
		CreatedAt:            s.now(),
	}
	if err := charge.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Charges().SaveCharge(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to save charge: %w", err)
	}
	s.GetLogger(ctx).Info("Charge created",
		slog.String("charge_id", charge.ChargeID),
		slog.String("member_id", charge.MemberID),
		slog.String("subtotal", subtotal.String()))
	return &charge, nil
}

// AttributeCharge links each book transaction to the charge as a line item
// and records any off-platform amount as a line item without a transaction.
// A book transaction can back at most one line item across all charges.
func (s *chargeService) AttributeCharge(ctx context.Context, chargeID string, req dto.AttributeChargeRequest) (*domain.Charge, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(req.BookTransactionIDs))
	for _, id := range req.BookTransactionIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", domain.ErrBookTransactionAlreadyCharged, id)
		}
		seen[id] = struct{}{}
	}
	if req.OffPlatformAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		charge, err := tx.Charges().FindChargeByID(ctx, chargeID)
		if err != nil {
			return err
		}
		currency := charge.UndiscountedSubtotal.Currency

		bts, err := tx.BookTransactions().FindBookTransactionsByIDs(ctx, req.BookTransactionIDs)
		if err != nil {
			return err
		}
		now := s.now()
		items := make([]domain.ChargeLineItem, 0, len(req.BookTransactionIDs)+1)
		for _, id := range req.BookTransactionIDs {
			bt, ok := bts[id]
			if !ok {
				return fmt.Errorf("%w: book transaction %s", apperrors.ErrNotFound, id)
			}
			if bt.Amount.Currency != currency {
				return fmt.Errorf("%w: book transaction %s is in %s, charge is in %s", domain.ErrCurrencyMismatch, id, bt.Amount.Currency, currency)
			}
			_, err := tx.Charges().FindLineItemByBookTransaction(ctx, id)
			switch {
			case err == nil:
				return fmt.Errorf("%w: %s", domain.ErrBookTransactionAlreadyCharged, id)
			case !errors.Is(err, apperrors.ErrNotFound):
				return fmt.Errorf("failed to check line items of book transaction %s: %w", id, err)
			}
			items = append(items, domain.ChargeLineItem{
				LineItemID:        uuid.NewString(),
				ChargeID:          chargeID,
				BookTransactionID: &bt.BookTransactionID,
				Amount:            bt.Amount,
				Memo:              bt.Memo,
				CreatedAt:         now,
			})
		}

		if req.OffPlatformAmount.IsPositive() {
			off := domain.NewMoney(req.OffPlatformAmount.Cents, req.OffPlatformAmount.Currency)
			if off.Currency == "" {
				off.Currency = currency
			}
			if off.Currency != currency {
				return domain.ErrCurrencyMismatch
			}
			items = append(items, domain.ChargeLineItem{
				LineItemID: uuid.NewString(),
				ChargeID:   chargeID,
				Amount:     off,
				Memo:       offPlatformMemo,
				CreatedAt:  now,
			})
			if err := tx.Charges().UpdateChargeOffPlatformAmount(ctx, chargeID, charge.OffPlatformAmount.Add(off)); err != nil {
				return err
			}
		}
		return tx.Charges().SaveLineItems(ctx, items)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to attribute charge", slog.String("charge_id", chargeID))
		return nil, err
	}

	charge, err := s.store.Charges().FindChargeByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("charge_id", chargeID))
	if total := charge.AttributedTotal(); total.Cents != charge.UndiscountedSubtotal.Cents {
		logger.Debug("Attributed total differs from undiscounted subtotal",
			slog.String("attributed", total.String()),
			slog.String("subtotal", charge.UndiscountedSubtotal.String()))
	}
	logger.Info("Charge attributed", slog.Int("line_items", len(charge.LineItems)))
	return charge, nil
}

func (s *chargeService) GetCharge(ctx context.Context, chargeID string) (*domain.Charge, error) {
	return s.store.Charges().FindChargeByID(ctx, chargeID)
}
