package services

import (
	"context"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	"github.com/lithictech/suma-sub001/internal/dto"
)

// EligibilityChecker answers whether a member may receive a trigger's subsidy.
type EligibilityChecker interface {
	IsEligible(ctx context.Context, actorID string, trigger domain.PaymentTrigger) (bool, error)
}

// TriggerSvc manages payment triggers and runs the matching engine.
type TriggerSvc interface {
	BookTransactionObserver

	CreateTrigger(ctx context.Context, req dto.CreateTriggerRequest) (*domain.PaymentTrigger, error)
	GetTriggerByLabel(ctx context.Context, label string) (*domain.PaymentTrigger, error)
	// EvaluateTriggers matches a committed book transaction against every active trigger.
	// It is safe to call repeatedly; each (trigger, transaction) pair matches at most once.
	EvaluateTriggers(ctx context.Context, bookTransactionID string) ([]domain.PaymentTriggerExecution, error)
	ListExecutions(ctx context.Context, triggerID string) ([]domain.PaymentTriggerExecution, error)
	CumulativeSubsidy(ctx context.Context, triggerID string) (int64, error)
}

// ChargeSvc records charges and attributes them to book transactions.
type ChargeSvc interface {
	CreateCharge(ctx context.Context, req dto.CreateChargeRequest) (*domain.Charge, error)
	AttributeCharge(ctx context.Context, chargeID string, req dto.AttributeChargeRequest) (*domain.Charge, error)
	GetCharge(ctx context.Context, chargeID string) (*domain.Charge, error)
}
