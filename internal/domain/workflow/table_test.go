package workflow

import (
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateCreated, false},
		{StatePendingReview, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"created", StateCreated, true},
		{"pending review", StatePendingReview, true},
		{"approved", StateApproved, true},
		{"rejected", StateRejected, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidate_LegalTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		want    State
	}{
		{"pay from created", StateCreated, TriggerPay, StatePendingReview},
		{"approve from pending review", StatePendingReview, TriggerApprove, StateApproved},
		{"reject from pending review", StatePendingReview, TriggerReject, StateRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.from, tt.trigger)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
	}{
		{"approve unpaid artifact", StateCreated, TriggerApprove},
		{"reject unpaid artifact", StateCreated, TriggerReject},
		{"pay while pending review", StatePendingReview, TriggerPay},
		{"approve after approved", StateApproved, TriggerApprove},
		{"reject after approved", StateApproved, TriggerReject},
		{"pay after approved", StateApproved, TriggerPay},
		{"approve after rejected", StateRejected, TriggerApprove},
		{"pay after rejected", StateRejected, TriggerPay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.from, tt.trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Validate() error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}

func TestValidate_InvalidState(t *testing.T) {
	_, err := Validate(State("BOGUS"), TriggerPay)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() error = %v, want ErrInvalidState", err)
	}
}

func TestPermittedTriggers(t *testing.T) {
	if got := PermittedTriggers(StateCreated); len(got) != 1 || got[0] != TriggerPay {
		t.Errorf("PermittedTriggers(CREATED) = %v, want [PAY]", got)
	}

	pending := PermittedTriggers(StatePendingReview)
	if len(pending) != 2 {
		t.Errorf("PermittedTriggers(PENDING_REVIEW) = %v, want 2 triggers", pending)
	}

	if got := PermittedTriggers(StateApproved); len(got) != 0 {
		t.Errorf("PermittedTriggers(APPROVED) = %v, want none", got)
	}
	if got := PermittedTriggers(StateRejected); len(got) != 0 {
		t.Errorf("PermittedTriggers(REJECTED) = %v, want none", got)
	}
}

func TestParsePaymentState(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    PaymentState
		wantErr bool
	}{
		{"paid", "PAID", PaymentPaid, false},
		{"paid lowercase", "paid", PaymentPaid, false},
		{"legacy completed synonym", "COMPLETED", PaymentPaid, false},
		{"legacy completed lowercase", "completed", PaymentPaid, false},
		{"unpaid", "UNPAID", PaymentUnpaid, false},
		{"empty means unpaid", "", PaymentUnpaid, false},
		{"unknown value rejected", "SETTLED", "", true},
		{"unknown value rejected", "DONE", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePaymentState(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Errorf("ParsePaymentState(%q) error = %v, want ErrInvalidState", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePaymentState(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParsePaymentState(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
