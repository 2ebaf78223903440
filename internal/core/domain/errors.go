package domain

import (
	"errors"
	"fmt"

	"github.com/lithictech/suma-sub001/internal/apperrors"
)

// Validation errors are rejected before any mutation happens.
var (
	ErrNegativeAmount        = fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	ErrCurrencyMismatch      = fmt.Errorf("%w: currency does not match ledger currency", apperrors.ErrValidation)
	ErrSameLedger            = fmt.Errorf("%w: originating and receiving ledger must differ", apperrors.ErrValidation)
	ErrAmbiguousStrategy     = fmt.Errorf("%w: exactly one strategy must be attached", apperrors.ErrValidation)
	ErrAccountAmbiguousOwner = fmt.Errorf("%w: account must be owned by exactly one of customer, vendor or platform", apperrors.ErrValidation)
	ErrUnsupportedCurrency   = fmt.Errorf("%w: currency is not supported", apperrors.ErrValidation)
	ErrChargeWithoutSubject  = fmt.Errorf("%w: charge must reference a commerce order or a mobility trip", apperrors.ErrValidation)
	ErrRefundPairIncomplete  = fmt.Errorf("%w: refunded funding transaction requires a crediting book transaction", apperrors.ErrValidation)
	ErrInvalidTimeRange      = fmt.Errorf("%w: time range must end after it starts", apperrors.ErrValidation)
	ErrInvalidTrigger        = fmt.Errorf("%w: invalid payment trigger", apperrors.ErrValidation)
)

// Conflict errors describe state that forbids the operation.
var (
	ErrDuplicatePlatformAccount      = fmt.Errorf("%w: a platform account already exists", apperrors.ErrDuplicate)
	ErrInvalidStateTransition        = fmt.Errorf("%w: invalid state transition", apperrors.ErrConflict)
	ErrBookTransactionAlreadyCharged = fmt.Errorf("%w: book transaction is already attributed to a charge", apperrors.ErrDuplicate)
	ErrTriggerAlreadyExecuted        = fmt.Errorf("%w: trigger already executed for book transaction", apperrors.ErrDuplicate)
	ErrLedgerLabelTaken              = fmt.Errorf("%w: account already has a ledger with this label", apperrors.ErrDuplicate)
)

// InvalidStateTransitionError records the attempted transition.
type InvalidStateTransitionError struct {
	Subject SubjectRef
	From    TransactionStatus
	To      TransactionStatus
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition from %s to %s", e.Subject.Kind, e.Subject.ID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// IsInvalidStateTransition reports whether err is, or wraps, an InvalidStateTransitionError.
func IsInvalidStateTransition(err error) bool {
	var target *InvalidStateTransitionError
	return errors.As(err, &target)
}
