package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/utils/pagination"
)

func (v *view) FindBookTransactionByID(_ context.Context, id string) (*domain.BookTransaction, error) {
	defer v.rlock()()
	bt, ok := v.data().bookTxns[id]
	if !ok {
		return nil, fmt.Errorf("%w: book transaction %s", apperrors.ErrNotFound, id)
	}
	return &bt, nil
}

func (v *view) FindBookTransactionsByIDs(_ context.Context, ids []string) (map[string]domain.BookTransaction, error) {
	defer v.rlock()()
	out := make(map[string]domain.BookTransaction, len(ids))
	for _, id := range ids {
		if bt, ok := v.data().bookTxns[id]; ok {
			out[id] = bt
		}
	}
	return out, nil
}

func (v *view) SumLedgerBalance(_ context.Context, ledgerID string, asOf time.Time, includePending bool) (int64, error) {
	defer v.rlock()()
	var sum int64
	for _, bt := range v.data().bookTxns {
		if bt.Touches(ledgerID) && bt.CountsAt(asOf, includePending) {
			sum += bt.SignedCentsFor(ledgerID)
		}
	}
	return sum, nil
}

func (v *view) SumLedgerBalances(_ context.Context, asOf time.Time) (map[string]int64, error) {
	defer v.rlock()()
	out := make(map[string]int64)
	for _, bt := range v.data().bookTxns {
		if !bt.CountsAt(asOf, false) {
			continue
		}
		out[bt.ReceivingLedgerID] += bt.Amount.Cents
		out[bt.OriginatingLedgerID] -= bt.Amount.Cents
	}
	return out, nil
}

func (v *view) ListBookTransactionsByLedger(_ context.Context, ledgerID string, limit int, nextToken *string) ([]domain.BookTransaction, *string, error) {
	var (
		cursorAt time.Time
		cursorID string
	)
	if nextToken != nil {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
	}

	defer v.rlock()()
	var rows []domain.BookTransaction
	for _, bt := range v.data().bookTxns {
		if !bt.Touches(ledgerID) {
			continue
		}
		if nextToken != nil {
			cursor := domain.BookTransaction{ApplyAt: cursorAt, BookTransactionID: cursorID}
			if domain.ByApplyAtDesc(bt, cursor) <= 0 {
				continue
			}
		}
		rows = append(rows, bt)
	}
	slices.SortFunc(rows, domain.ByApplyAtDesc)

	if len(rows) <= limit {
		return rows, nil, nil
	}
	page := rows[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.ApplyAt, last.BookTransactionID)
	return page, &token, nil
}

func (v *view) SaveBookTransaction(_ context.Context, bt domain.BookTransaction) error {
	defer v.lock()()
	d := v.data()
	if _, ok := d.bookTxns[bt.BookTransactionID]; ok {
		return fmt.Errorf("%w: book transaction %s", apperrors.ErrDuplicate, bt.BookTransactionID)
	}
	for _, id := range []string{bt.OriginatingLedgerID, bt.ReceivingLedgerID} {
		if _, ok := d.ledgers[id]; !ok {
			return fmt.Errorf("%w: ledger %s", apperrors.ErrNotFound, id)
		}
	}
	d.bookTxns[bt.BookTransactionID] = bt
	return nil
}
