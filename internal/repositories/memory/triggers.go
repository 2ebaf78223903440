package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lithictech/suma-sub001/internal/apperrors"
	"github.com/lithictech/suma-sub001/internal/core/domain"
)

func (v *view) FindTriggerByID(_ context.Context, triggerID string) (*domain.PaymentTrigger, error) {
	defer v.rlock()()
	t, ok := v.data().triggers[triggerID]
	if !ok {
		return nil, fmt.Errorf("%w: payment trigger %s", apperrors.ErrNotFound, triggerID)
	}
	return &t, nil
}

func (v *view) FindTriggerByLabel(_ context.Context, label string) (*domain.PaymentTrigger, error) {
	defer v.rlock()()
	for _, t := range v.data().triggers {
		if t.Label == label {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: payment trigger %q", apperrors.ErrNotFound, label)
}

func (v *view) ListActiveTriggers(_ context.Context, at time.Time) ([]domain.PaymentTrigger, error) {
	defer v.rlock()()
	var out []domain.PaymentTrigger
	for _, t := range v.data().triggers {
		if t.IsActiveAt(at) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TriggerID < out[j].TriggerID })
	return out, nil
}

func (v *view) FindExecution(_ context.Context, triggerID, sourceID string) (*domain.PaymentTriggerExecution, error) {
	defer v.rlock()()
	e, ok := v.data().executions[executionKey{triggerID, sourceID}]
	if !ok {
		return nil, fmt.Errorf("%w: execution of trigger %s for %s", apperrors.ErrNotFound, triggerID, sourceID)
	}
	return &e, nil
}

func (v *view) ListExecutions(_ context.Context, triggerID string) ([]domain.PaymentTriggerExecution, error) {
	defer v.rlock()()
	var out []domain.PaymentTriggerExecution
	for k, e := range v.data().executions {
		if k.triggerID == triggerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ExecutionID < out[j].ExecutionID
	})
	return out, nil
}

func (v *view) SumMatchedCents(_ context.Context, triggerID string) (int64, error) {
	defer v.rlock()()
	var sum int64
	for k, e := range v.data().executions {
		if k.triggerID == triggerID {
			sum += e.MatchedCents
		}
	}
	return sum, nil
}

func (v *view) IsMatchTransaction(_ context.Context, bookTransactionID string) (bool, error) {
	defer v.rlock()()
	for _, e := range v.data().executions {
		if e.MatchBookTransactionID == bookTransactionID {
			return true, nil
		}
	}
	return false, nil
}

func (v *view) SaveTrigger(_ context.Context, t domain.PaymentTrigger) error {
	defer v.lock()()
	d := v.data()
	for _, existing := range d.triggers {
		if existing.TriggerID == t.TriggerID || existing.Label == t.Label {
			return fmt.Errorf("%w: payment trigger %q", apperrors.ErrDuplicate, t.Label)
		}
	}
	d.triggers[t.TriggerID] = t
	return nil
}

// LockTrigger only checks existence: the store lock is already exclusive.
func (v *view) LockTrigger(_ context.Context, triggerID string) error {
	defer v.rlock()()
	if _, ok := v.data().triggers[triggerID]; !ok {
		return fmt.Errorf("%w: payment trigger %s", apperrors.ErrNotFound, triggerID)
	}
	return nil
}

func (v *view) SaveExecution(_ context.Context, e domain.PaymentTriggerExecution) error {
	defer v.lock()()
	k := executionKey{e.TriggerID, e.SourceBookTransactionID}
	if _, ok := v.data().executions[k]; ok {
		return domain.ErrTriggerAlreadyExecuted
	}
	v.data().executions[k] = e
	return nil
}
