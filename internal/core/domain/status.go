package domain

import "fmt"

// TransactionStatus is the state of a funding or payout transaction.
type TransactionStatus string

const (
	StatusCreated   TransactionStatus = "created"
	StatusSubmitted TransactionStatus = "submitted"
	StatusSettled   TransactionStatus = "settled"
	StatusFailed    TransactionStatus = "failed"
	StatusReversed  TransactionStatus = "reversed"
)

var transitions = map[TransactionStatus][]TransactionStatus{
	StatusCreated:   {StatusSubmitted},
	StatusSubmitted: {StatusSettled, StatusFailed},
	StatusSettled:   {StatusReversed},
}

// ParseTransactionStatus converts a persisted value into a TransactionStatus.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	st := TransactionStatus(s)
	switch st {
	case StatusCreated, StatusSubmitted, StatusSettled, StatusFailed, StatusReversed:
		return st, nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsResolved reports whether the strategy outcome has been committed.
func (s TransactionStatus) IsResolved() bool {
	return s == StatusSettled || s == StatusFailed || s == StatusReversed
}
