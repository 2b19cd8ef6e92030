package workflow

import "fmt"

// edge is one legal transition in the lifecycle table
type edge struct {
	from    State
	trigger Trigger
}

// transitions is the complete set of legal lifecycle moves. APPROVED and
// REJECTED are terminal and have no outgoing edges.
var transitions = map[edge]State{
	{StateCreated, TriggerPay}:           StatePendingReview,
	{StatePendingReview, TriggerApprove}: StateApproved,
	{StatePendingReview, TriggerReject}:  StateRejected,
}

// Next returns the target state for firing trigger from the given state.
// It is a pure function with no side effects and must be consulted before
// any write occurs.
func Next(from State, trigger Trigger) (State, bool) {
	to, ok := transitions[edge{from, trigger}]
	return to, ok
}

// Validate returns the target state for the transition, or ErrInvalidTransition
// if the trigger is not permitted from the current state.
func Validate(from State, trigger Trigger) (State, error) {
	if !from.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, from)
	}
	to, ok := Next(from, trigger)
	if !ok {
		return "", fmt.Errorf("%w: cannot fire %s from state %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// PermittedTriggers returns all triggers that can be fired from the given state
func PermittedTriggers(from State) []Trigger {
	var triggers []Trigger
	for e := range transitions {
		if e.from == from {
			triggers = append(triggers, e.trigger)
		}
	}
	return triggers
}
