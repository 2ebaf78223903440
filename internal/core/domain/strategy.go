package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// StrategyKind names a strategy variant.
type StrategyKind string

const (
	StrategyFake        StrategyKind = "fake"
	StrategyACHDebit    StrategyKind = "ach_debit"
	StrategyCardCharge  StrategyKind = "card_charge"
	StrategyOffPlatform StrategyKind = "off_platform"
)

// Strategy is the mechanism that moves money in or out of the platform.
// The set of variants is closed: FakeStrategy, ACHDebitStrategy,
// CardChargeStrategy and OffPlatformStrategy.
type Strategy interface {
	Kind() StrategyKind
	sealed()
}

// FakeStrategy resolves to a configured outcome. Used for simulation and tests.
type FakeStrategy struct {
	Outcome     OutcomeKind `json:"outcome"`
	Reason      string      `json:"reason,omitempty"`
	ExternalRef string      `json:"externalRef,omitempty"`
}

// ACHDebitStrategy debits a linked bank account.
type ACHDebitStrategy struct {
	BankAccountID string `json:"bankAccountID" validate:"required"`
}

// CardChargeStrategy charges a stored card.
type CardChargeStrategy struct {
	CardID string `json:"cardID" validate:"required"`
}

// OffPlatformStrategy records money that already moved outside the platform.
type OffPlatformStrategy struct {
	Note                     string    `json:"note" validate:"required"`
	CheckOrTransactionNumber string    `json:"checkOrTransactionNumber,omitempty"`
	CreatedByID              string    `json:"createdByID" validate:"required"`
	TransactedAt             time.Time `json:"transactedAt"`
}

func (FakeStrategy) Kind() StrategyKind        { return StrategyFake }
func (ACHDebitStrategy) Kind() StrategyKind    { return StrategyACHDebit }
func (CardChargeStrategy) Kind() StrategyKind  { return StrategyCardCharge }
func (OffPlatformStrategy) Kind() StrategyKind { return StrategyOffPlatform }

func (FakeStrategy) sealed()        {}
func (ACHDebitStrategy) sealed()    {}
func (CardChargeStrategy) sealed()  {}
func (OffPlatformStrategy) sealed() {}

// ExactlyOneStrategy returns the single non-nil strategy from slots.
// Zero or several attached strategies is ErrAmbiguousStrategy.
func ExactlyOneStrategy(slots ...Strategy) (Strategy, error) {
	var found Strategy
	for _, s := range slots {
		if s == nil {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguousStrategy
		}
		found = s
	}
	if found == nil {
		return nil, ErrAmbiguousStrategy
	}
	return found, nil
}

// MarshalStrategy encodes the strategy details for persistence.
func MarshalStrategy(s Strategy) (StrategyKind, []byte, error) {
	if s == nil {
		return "", nil, ErrAmbiguousStrategy
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", nil, fmt.Errorf("marshal %s strategy: %w", s.Kind(), err)
	}
	return s.Kind(), b, nil
}

// UnmarshalStrategy decodes persisted strategy details.
func UnmarshalStrategy(kind StrategyKind, details []byte) (Strategy, error) {
	var (
		s   Strategy
		err error
	)
	switch kind {
	case StrategyFake:
		var v FakeStrategy
		err = json.Unmarshal(details, &v)
		s = v
	case StrategyACHDebit:
		var v ACHDebitStrategy
		err = json.Unmarshal(details, &v)
		s = v
	case StrategyCardCharge:
		var v CardChargeStrategy
		err = json.Unmarshal(details, &v)
		s = v
	case StrategyOffPlatform:
		var v OffPlatformStrategy
		err = json.Unmarshal(details, &v)
		s = v
	default:
		return nil, fmt.Errorf("%w: unknown strategy kind %q", ErrAmbiguousStrategy, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s strategy: %w", kind, err)
	}
	return s, nil
}

// OutcomeKind is the result class of a strategy execution.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomePending OutcomeKind = "pending"
	OutcomeFailure OutcomeKind = "failure"
)

// StrategyOutcome is what a strategy adapter reports back.
type StrategyOutcome struct {
	Kind        OutcomeKind `json:"kind"`
	ExternalRef string      `json:"externalRef,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Messages    []string    `json:"messages,omitempty"`
}

func Success(externalRef string) StrategyOutcome {
	return StrategyOutcome{Kind: OutcomeSuccess, ExternalRef: externalRef}
}

func Pending(externalRef string) StrategyOutcome {
	return StrategyOutcome{Kind: OutcomePending, ExternalRef: externalRef}
}

func Failure(reason string, messages ...string) StrategyOutcome {
	return StrategyOutcome{Kind: OutcomeFailure, Reason: reason, Messages: messages}
}

// ReasonStrategyTimeout is recorded when a strategy does not answer in time.
const ReasonStrategyTimeout = "strategy_timeout"
