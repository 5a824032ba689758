package enums

import "fmt"

// PaymentPlan selects how much of the amount due is collected online at
// checkout. PartialCOD collects the advance online and the balance on
// delivery.
type PaymentPlan string

const (
	PaymentPlanFullOnline PaymentPlan = "full_online"
	PaymentPlanPartialCOD PaymentPlan = "partial_cod"
)

var validPaymentPlans = []PaymentPlan{
	PaymentPlanFullOnline,
	PaymentPlanPartialCOD,
}

// String implements fmt.Stringer.
func (p PaymentPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentPlan.
func (p PaymentPlan) IsValid() bool {
	for _, candidate := range validPaymentPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentPlan converts raw input into a PaymentPlan.
func ParsePaymentPlan(value string) (PaymentPlan, error) {
	for _, candidate := range validPaymentPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment plan %q", value)
}
