package workflow

import (
	"fmt"
	"strings"
)

// State represents a lifecycle state of a recommendation
type State string

const (
	StateCreated       State = "CREATED"
	StatePendingReview State = "PENDING_REVIEW"
	StateApproved      State = "APPROVED"
	StateRejected      State = "REJECTED"
)

var validStates = map[State]bool{
	StateCreated:       true,
	StatePendingReview: true,
	StateApproved:      true,
	StateRejected:      true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// PaymentState represents the payment axis of a recommendation
type PaymentState string

const (
	PaymentUnpaid PaymentState = "UNPAID"
	PaymentPaid   PaymentState = "PAID"
)

// ParsePaymentState normalizes a stored payment value into a PaymentState.
// Rows written by older versions of the system carry "COMPLETED" where
// "PAID" is meant; that synonym pair is the only loose match accepted.
func ParsePaymentState(raw string) (PaymentState, error) {
	switch strings.ToUpper(raw) {
	case "PAID", "COMPLETED":
		return PaymentPaid, nil
	case "UNPAID", "":
		return PaymentUnpaid, nil
	default:
		return "", fmt.Errorf("%w: unrecognized payment state %q", ErrInvalidState, raw)
	}
}
