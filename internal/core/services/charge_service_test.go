package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	"github.com/lithictech/suma-sub001/internal/core/services"
	"github.com/lithictech/suma-sub001/internal/dto"
	"github.com/lithictech/suma-sub001/internal/repositories/memory"
)

var errLineItemLookup = errors.New("connection reset by peer")

// brokenLineItemsStore fails every line item lookup made inside a transaction.
type brokenLineItemsStore struct {
	*memory.Store
}

func (b brokenLineItemsStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Store) error) error {
	return b.Store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		return fn(ctx, brokenLineItemsTx{Store: tx})
	})
}

type brokenLineItemsTx struct {
	portsrepo.Store
}

func (t brokenLineItemsTx) Charges() portsrepo.ChargeRepositoryFacade {
	return brokenLineItems{ChargeRepositoryFacade: t.Store.Charges()}
}

type brokenLineItems struct {
	portsrepo.ChargeRepositoryFacade
}

func (brokenLineItems) FindLineItemByBookTransaction(context.Context, string) (*domain.ChargeLineItem, error) {
	return nil, errLineItemLookup
}

type ChargeServiceTestSuite struct {
	ServicesTestSuite
}

func TestChargeService(t *testing.T) {
	suite.Run(t, new(ChargeServiceTestSuite))
}

func (s *ChargeServiceTestSuite) newCharge(subtotal int64) *domain.Charge {
	charge, err := s.svc.Charge.CreateCharge(s.ctx, dto.CreateChargeRequest{
		MemberID:             "member-1",
		CommerceOrderID:      domain.StringPtr("order-1"),
		UndiscountedSubtotal: domain.NewMoney(subtotal, "USD"),
	})
	s.Require().NoError(err)
	return charge
}

func (s *ChargeServiceTestSuite) TestCreateCharge_RequiresSubject() {
	_, err := s.svc.Charge.CreateCharge(s.ctx, dto.CreateChargeRequest{
		MemberID:             "member-1",
		UndiscountedSubtotal: domain.NewMoney(100, "USD"),
	})
	s.ErrorIs(err, domain.ErrChargeWithoutSubject)
}

func (s *ChargeServiceTestSuite) TestAttributeCharge() {
	cash := s.memberLedger("member-1", "USD", "cash")
	vendor := s.memberLedger("member-2", "USD", "cash")
	first := s.transfer(cash, vendor, 500)
	second := s.transfer(cash, vendor, 300)
	charge := s.newCharge(1000)

	attributed, err := s.svc.Charge.AttributeCharge(s.ctx, charge.ChargeID, dto.AttributeChargeRequest{
		BookTransactionIDs: []string{first.BookTransactionID, second.BookTransactionID},
		OffPlatformAmount:  domain.NewMoney(200, "USD"),
	})
	s.Require().NoError(err)
	s.Require().Len(attributed.LineItems, 3)
	s.Equal(domain.NewMoney(200, "USD"), attributed.OffPlatformAmount)
	s.Equal(int64(1000), attributed.AttributedTotal().Cents)

	offPlatform := 0
	for _, li := range attributed.LineItems {
		if li.IsOffPlatform() {
			offPlatform++
			s.Equal(int64(200), li.Amount.Cents)
			s.Equal("Off-platform payment", li.Memo.En)
		}
	}
	s.Equal(1, offPlatform)

	fetched, err := s.svc.Charge.GetCharge(s.ctx, charge.ChargeID)
	s.Require().NoError(err)
	s.Len(fetched.LineItems, 3)
}

func (s *ChargeServiceTestSuite) TestAttributeCharge_BookTransactionChargedOnce() {
	cash := s.memberLedger("member-1", "USD", "cash")
	vendor := s.memberLedger("member-2", "USD", "cash")
	bt := s.transfer(cash, vendor, 500)
	other := s.transfer(cash, vendor, 100)

	first := s.newCharge(500)
	_, err := s.svc.Charge.AttributeCharge(s.ctx, first.ChargeID, dto.AttributeChargeRequest{BookTransactionIDs: []string{bt.BookTransactionID}})
	s.Require().NoError(err)

	second := s.newCharge(600)
	_, err = s.svc.Charge.AttributeCharge(s.ctx, second.ChargeID, dto.AttributeChargeRequest{
		BookTransactionIDs: []string{other.BookTransactionID, bt.BookTransactionID},
	})
	s.ErrorIs(err, domain.ErrBookTransactionAlreadyCharged)

	unchanged, err := s.svc.Charge.GetCharge(s.ctx, second.ChargeID)
	s.Require().NoError(err)
	s.Empty(unchanged.LineItems)

	_, err = s.svc.Charge.AttributeCharge(s.ctx, second.ChargeID, dto.AttributeChargeRequest{
		BookTransactionIDs: []string{other.BookTransactionID, other.BookTransactionID},
	})
	s.ErrorIs(err, domain.ErrBookTransactionAlreadyCharged)
}

func (s *ChargeServiceTestSuite) TestAttributeCharge_CurrencyMustMatch() {
	eurA := s.memberLedger("member-1", "EUR", "cash")
	eurB := s.memberLedger("member-2", "EUR", "cash")
	bt := s.transfer(eurA, eurB, 500)
	charge := s.newCharge(500)

	_, err := s.svc.Charge.AttributeCharge(s.ctx, charge.ChargeID, dto.AttributeChargeRequest{BookTransactionIDs: []string{bt.BookTransactionID}})
	s.ErrorIs(err, domain.ErrCurrencyMismatch)

	_, err = s.svc.Charge.AttributeCharge(s.ctx, charge.ChargeID, dto.AttributeChargeRequest{OffPlatformAmount: domain.NewMoney(-1, "USD")})
	s.ErrorIs(err, domain.ErrNegativeAmount)
}

func (s *ChargeServiceTestSuite) TestAttributeCharge_LookupFailureAborts() {
	cash := s.memberLedger("member-1", "USD", "cash")
	vendor := s.memberLedger("member-2", "USD", "cash")
	bt := s.transfer(cash, vendor, 500)
	charge := s.newCharge(500)

	broken := services.NewChargeService(brokenLineItemsStore{Store: s.store}, services.WithClock(s.clock))
	_, err := broken.AttributeCharge(s.ctx, charge.ChargeID, dto.AttributeChargeRequest{BookTransactionIDs: []string{bt.BookTransactionID}})
	s.Require().Error(err)
	s.ErrorIs(err, errLineItemLookup)
	s.NotErrorIs(err, apperrors.ErrDuplicate)

	fetched, err := s.svc.Charge.GetCharge(s.ctx, charge.ChargeID)
	s.Require().NoError(err)
	s.Empty(fetched.LineItems)
}
