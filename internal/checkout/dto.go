package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
)

// PrefillDTO seeds the hosted checkout widget's contact fields.
type PrefillDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// SessionDTO is everything the client needs to open the payment widget.
type SessionDTO struct {
	KeyID          string            `json:"key_id"`
	GatewayOrderID string            `json:"gateway_order_id"`
	AmountMinor    int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Prefill        PrefillDTO        `json:"prefill"`
	PaymentPlan    enums.PaymentPlan `json:"payment_plan"`
	AmountDue      decimal.Decimal   `json:"amount_due"`
	BalanceDue     decimal.Decimal   `json:"balance_due"`
}

// QuoteDTO exposes the priced cart for display before payment.
type QuoteDTO struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   decimal.Decimal `json:"shipping"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}
