// Package memory is an in-process implementation of the repository ports.
// A single mutex serializes transactions; a failed transaction restores the
// snapshot taken when it began.
package memory

import (
	"context"
	"sync"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
)

type executionKey struct {
	triggerID string
	sourceID  string
}

type state struct {
	accounts    map[string]domain.PaymentAccount
	ledgers     map[string]domain.Ledger
	bookTxns    map[string]domain.BookTransaction
	funding     map[string]domain.FundingTransaction
	payouts     map[string]domain.PayoutTransaction
	audit       []domain.TransactionAuditLogEntry
	idempotency map[string]domain.IdempotencyRecord
	triggers    map[string]domain.PaymentTrigger
	executions  map[executionKey]domain.PaymentTriggerExecution
	charges     map[string]domain.Charge
	lineItems   []domain.ChargeLineItem
}

func newState() *state {
	return &state{
		accounts:    make(map[string]domain.PaymentAccount),
		ledgers:     make(map[string]domain.Ledger),
		bookTxns:    make(map[string]domain.BookTransaction),
		funding:     make(map[string]domain.FundingTransaction),
		payouts:     make(map[string]domain.PayoutTransaction),
		idempotency: make(map[string]domain.IdempotencyRecord),
		triggers:    make(map[string]domain.PaymentTrigger),
		executions:  make(map[executionKey]domain.PaymentTriggerExecution),
		charges:     make(map[string]domain.Charge),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies every collection. Stored values are never mutated in place, so
// a shallow copy of each map is enough.
func (s *state) clone() *state {
	return &state{
		accounts:    cloneMap(s.accounts),
		ledgers:     cloneMap(s.ledgers),
		bookTxns:    cloneMap(s.bookTxns),
		funding:     cloneMap(s.funding),
		payouts:     cloneMap(s.payouts),
		audit:       append([]domain.TransactionAuditLogEntry(nil), s.audit...),
		idempotency: cloneMap(s.idempotency),
		triggers:    cloneMap(s.triggers),
		executions:  cloneMap(s.executions),
		charges:     cloneMap(s.charges),
		lineItems:   append([]domain.ChargeLineItem(nil), s.lineItems...),
	}
}

// Store implements portsrepo.UnitOfWork in memory.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

var _ portsrepo.UnitOfWork = (*Store)(nil)

// WithinTx holds the store lock for the duration of fn.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &view{store: s, inTx: true}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *Store) root() *view { return &view{store: s} }

func (s *Store) Accounts() portsrepo.AccountRepositoryFacade                 { return s.root() }
func (s *Store) Ledgers() portsrepo.LedgerRepositoryFacade                   { return s.root() }
func (s *Store) BookTransactions() portsrepo.BookTransactionRepositoryFacade { return s.root() }
func (s *Store) FundingTransactions() portsrepo.FundingTransactionRepositoryFacade {
	return s.root()
}
func (s *Store) PayoutTransactions() portsrepo.PayoutTransactionRepositoryFacade {
	return s.root()
}
func (s *Store) AuditLog() portsrepo.AuditLogRepositoryFacade       { return s.root() }
func (s *Store) Idempotency() portsrepo.IdempotencyRepositoryFacade { return s.root() }
func (s *Store) Triggers() portsrepo.PaymentTriggerRepositoryFacade { return s.root() }
func (s *Store) Charges() portsrepo.ChargeRepositoryFacade          { return s.root() }

// view implements every repository facade. Outside a transaction each call
// takes the store lock itself; inside one the lock is already held.
type view struct {
	store *Store
	inTx  bool
}

func (v *view) Accounts() portsrepo.AccountRepositoryFacade                 { return v }
func (v *view) Ledgers() portsrepo.LedgerRepositoryFacade                   { return v }
func (v *view) BookTransactions() portsrepo.BookTransactionRepositoryFacade { return v }
func (v *view) FundingTransactions() portsrepo.FundingTransactionRepositoryFacade {
	return v
}
func (v *view) PayoutTransactions() portsrepo.PayoutTransactionRepositoryFacade {
	return v
}
func (v *view) AuditLog() portsrepo.AuditLogRepositoryFacade       { return v }
func (v *view) Idempotency() portsrepo.IdempotencyRepositoryFacade { return v }
func (v *view) Triggers() portsrepo.PaymentTriggerRepositoryFacade { return v }
func (v *view) Charges() portsrepo.ChargeRepositoryFacade          { return v }

var _ portsrepo.Store = (*view)(nil)

func (v *view) rlock() func() {
	if v.inTx {
		return func() {}
	}
	v.store.mu.RLock()
	return v.store.mu.RUnlock
}

func (v *view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.store.mu.Lock()
	return v.store.mu.Unlock
}

func (v *view) data() *state { return v.store.data }
