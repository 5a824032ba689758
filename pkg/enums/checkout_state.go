package enums

import "fmt"

// CheckoutState is the lifecycle of a single checkout attempt. Succeeded,
// Dismissed and Failed are terminal.
type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "idle"
	CheckoutStateValidating      CheckoutState = "validating"
	CheckoutStateAwaitingPayment CheckoutState = "awaiting_payment"
	CheckoutStateSucceeded       CheckoutState = "succeeded"
	CheckoutStateDismissed       CheckoutState = "dismissed"
	CheckoutStateFailed          CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateAwaitingPayment,
	CheckoutStateSucceeded,
	CheckoutStateDismissed,
	CheckoutStateFailed,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from the
// state.
func (c CheckoutState) IsTerminal() bool {
	switch c {
	case CheckoutStateSucceeded, CheckoutStateDismissed, CheckoutStateFailed:
		return true
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
