// Package eligibility answers whether a member may receive a trigger's subsidy.
// Eligibility is decided by other systems; these implementations serve
// deployments that have no such system and tests.
package eligibility

import (
	"context"
	"sync"

	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// AllowAll makes every member eligible for every trigger.
type AllowAll struct{}

var _ portssvc.EligibilityChecker = AllowAll{}

func (AllowAll) IsEligible(context.Context, string, domain.PaymentTrigger) (bool, error) {
	return true, nil
}

// Static holds explicit grants. A grant with an empty trigger label applies
// to every trigger.
type Static struct {
	mu     sync.RWMutex
	grants map[string]map[string]struct{}
}

var _ portssvc.EligibilityChecker = (*Static)(nil)

func NewStatic() *Static {
	return &Static{grants: make(map[string]map[string]struct{})}
}

// Grant makes actorID eligible for the trigger with triggerLabel.
func (s *Static) Grant(actorID, triggerLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	labels, ok := s.grants[actorID]
	if !ok {
		labels = make(map[string]struct{})
		s.grants[actorID] = labels
	}
	labels[triggerLabel] = struct{}{}
}

// Revoke removes a grant made with the same arguments.
func (s *Static) Revoke(actorID, triggerLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants[actorID], triggerLabel)
}

func (s *Static) IsEligible(_ context.Context, actorID string, trigger domain.PaymentTrigger) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	labels := s.grants[actorID]
	if _, ok := labels[""]; ok {
		return true, nil
	}
	_, ok := labels[trigger.Label]
	return ok, nil
}
