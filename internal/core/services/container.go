package services

import (
	"time"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portsrepo "github.com/lithictech/suma-sub001/internal/core/ports/repositories"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// ContainerConfig holds the settings the services are built with.
type ContainerConfig struct {
	Currencies      domain.CurrencySet
	StrategyTimeout time.Duration
}

// NewServiceContainer wires every service over one store. The trigger engine
// is subscribed to the book service.
func NewServiceContainer(
	store portsrepo.UnitOfWork,
	strategies portssvc.StrategyResolver,
	eligibility portssvc.EligibilityChecker,
	cfg ContainerConfig,
	options ...ServiceOption,
) *portssvc.ServiceContainer {
	ledgers := NewLedgerService(store, cfg.Currencies, options...)
	book := NewBookService(store, options...)
	audit := NewAuditService(store, options...)
	idempotency := NewIdempotencyService(store, options...)
	triggers := NewTriggerService(store, ledgers, book, eligibility, options...)
	book.Subscribe(triggers)

	return &portssvc.ServiceContainer{
		Ledger:      ledgers,
		Book:        book,
		Audit:       audit,
		Idempotency: idempotency,
		Settlement: NewSettlementService(SettlementDeps{
			Store:           store,
			Ledgers:         ledgers,
			Book:            book,
			Audit:           audit,
			Idempotency:     idempotency,
			Strategies:      strategies,
			StrategyTimeout: cfg.StrategyTimeout,
		}, options...),
		Trigger:   triggers,
		Charge:    NewChargeService(store, options...),
		Reporting: NewReportingService(store, options...),
	}
}
