// Package strategies adapts each domain.Strategy variant to the payment
// processor that executes it.
package strategies

import (
	"fmt"
	"sync"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
	portssvc "github.com/lithictech/suma-sub001/internal/core/ports/services"
)

// Registry resolves strategy kinds to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.StrategyKind]portssvc.StrategyAdapter
}

var _ portssvc.StrategyResolver = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.StrategyKind]portssvc.StrategyAdapter)}
}

// NewDefaultRegistry registers the fake and off-platform adapters, plus the
// ACH and card adapters for the processors that are configured.
func NewDefaultRegistry(ach ACHProcessor, card CardProcessor) *Registry {
	r := NewRegistry()
	r.Register(domain.StrategyFake, &FakeAdapter{})
	r.Register(domain.StrategyOffPlatform, OffPlatformAdapter{})
	if ach != nil {
		r.Register(domain.StrategyACHDebit, NewACHAdapter(ach))
	}
	if card != nil {
		r.Register(domain.StrategyCardCharge, NewCardAdapter(card))
	}
	return r
}

// Register replaces any adapter already registered for kind.
func (r *Registry) Register(kind domain.StrategyKind, adapter portssvc.StrategyAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[kind] = adapter
}

func (r *Registry) AdapterFor(kind domain.StrategyKind) (portssvc.StrategyAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for strategy %q", apperrors.ErrNotFound, kind)
	}
	return adapter, nil
}
