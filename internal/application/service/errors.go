package service

import (
	"errors"

	"github.com/liuyang/ai-recommendation/internal/domain/workflow"
)

var (
	// ErrNotFound is returned when a referenced recommendation or review
	// task does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when the requested event is illegal
	// for the current lifecycle state. Callers must treat it as "already in
	// a terminal or incompatible state", not as retryable.
	ErrInvalidTransition = workflow.ErrInvalidTransition

	// ErrConsistencyViolation indicates a broken internal invariant. Always
	// a programming defect, never expected in normal operation.
	ErrConsistencyViolation = errors.New("consistency violation")

	// ErrStoreUnavailable is returned when the atomic write could not be
	// committed. Safe to retry with backoff: no partial state was committed.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// isDomainError reports whether err is one of the typed errors the service
// surfaces as-is. Anything else is a store failure.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrConsistencyViolation)
}
