package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
)

// Rules holds the storefront pricing knobs. Amounts are major currency units.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
	AdvanceRate           decimal.Decimal
}

// RulesFromConfig builds Rules from the validated store configuration.
func RulesFromConfig(cfg config.StoreConfig) Rules {
	return Rules{
		FreeShippingThreshold: cfg.FreeShippingThresholdAmount(),
		FlatShippingFee:       cfg.FlatShippingFeeAmount(),
		TaxRate:               cfg.TaxRateAmount(),
		AdvanceRate:           cfg.AdvanceRateAmount(),
	}
}

// Line is one cart line entering a quote.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote carries the derived charges for a cart. Components stay unrounded;
// rounding happens once, at the amount due.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Price computes the quote for the given lines. Shipping is waived when the
// subtotal reaches the free-shipping threshold; tax applies to the subtotal
// only.
func (r Rules) Price(lines []Line) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	shipping := r.FlatShippingFee
	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(r.TaxRate)
	total := subtotal.Add(shipping).Add(tax)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
	}
}

// AmountDue returns the amount collected online for the quote under the given
// plan, rounded to two decimal places. PartialCOD collects the advance share;
// the balance is due on delivery.
func (r Rules) AmountDue(quote Quote, plan enums.PaymentPlan) decimal.Decimal {
	if plan == enums.PaymentPlanPartialCOD {
		return quote.Total.Mul(r.AdvanceRate).Round(2)
	}
	return quote.Total.Round(2)
}

// BalanceDue returns what remains after the online collection.
func (r Rules) BalanceDue(quote Quote, plan enums.PaymentPlan) decimal.Decimal {
	return quote.Total.Round(2).Sub(r.AmountDue(quote, plan))
}

// MinorUnits converts a major-unit amount into the gateway's minor units.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
