package domain

import "time"

// AuditEvent names what happened to a funding or payout transaction.
type AuditEvent string

const (
	EventCreated           AuditEvent = "created"
	EventSubmitted         AuditEvent = "submitted"
	EventStrategySucceeded AuditEvent = "strategy_succeeded"
	EventStrategyFailed    AuditEvent = "strategy_failed"
	EventReversed          AuditEvent = "reversed"
	EventRefundInitiated   AuditEvent = "refund_initiated"
)

// TransactionAuditLogEntry is append-only and never updated.
type TransactionAuditLogEntry struct {
	AuditLogEntryID string            `json:"auditLogEntryID"`
	Subject         SubjectRef        `json:"subject"`
	At              time.Time         `json:"at"`
	Event           AuditEvent        `json:"event"`
	FromState       TransactionStatus `json:"fromState"`
	ToState         TransactionStatus `json:"toState"`
	Reason          string            `json:"reason"`
	Messages        []string          `json:"messages"`
	ActorID         *string           `json:"actorID,omitempty"`
}

// IdempotencyRecord remembers that the operation identified by Key has run.
type IdempotencyRecord struct {
	Key     string    `json:"key"`
	LastRun time.Time `json:"lastRun"`
	Result  []byte    `json:"result,omitempty"`
}
