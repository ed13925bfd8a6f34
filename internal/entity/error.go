package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDataNotFound     = errors.New("data not found")
	ErrConflictingData  = errors.New("data conflicts with existing data in unique column")
	ErrConfigPathNotSet = errors.New("CONFIG_PATH not set and -config flag not provided")
)

// ValidationError carries every constraint a payment request violated.
// A create never partially applies: either all rules pass or nothing is recorded.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "payment validation failed: " + strings.Join(e.Errors, "; ")
}

// InvalidTransitionError reports a status change the lifecycle table forbids.
type InvalidTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// UnsupportedCurrencyError reports a currency outside the configured table.
type UnsupportedCurrencyError struct {
	Currency string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Currency)
}
