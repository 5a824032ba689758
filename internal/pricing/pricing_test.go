package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
)

func testRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.RequireFromString("500"),
		FlatShippingFee:       decimal.RequireFromString("50"),
		TaxRate:               decimal.RequireFromString("0.08"),
		AdvanceRate:           decimal.RequireFromString("0.25"),
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		lines        []Line
		wantSubtotal string
		wantShipping string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "above free shipping threshold",
			lines:        []Line{{UnitPrice: decimal.RequireFromString("1299"), Quantity: 1}},
			wantSubtotal: "1299",
			wantShipping: "0",
			wantTax:      "103.92",
			wantTotal:    "1402.92",
		},
		{
			name:         "below threshold pays flat shipping",
			lines:        []Line{{UnitPrice: decimal.RequireFromString("150"), Quantity: 2}},
			wantSubtotal: "300",
			wantShipping: "50",
			wantTax:      "24",
			wantTotal:    "374",
		},
		{
			name:         "exactly at threshold ships free",
			lines:        []Line{{UnitPrice: decimal.RequireFromString("250"), Quantity: 2}},
			wantSubtotal: "500",
			wantShipping: "0",
			wantTax:      "40",
			wantTotal:    "540",
		},
		{
			name:         "empty cart",
			lines:        nil,
			wantSubtotal: "0",
			wantShipping: "50",
			wantTax:      "0",
			wantTotal:    "50",
		},
		{
			name: "non-positive quantities are skipped",
			lines: []Line{
				{UnitPrice: decimal.RequireFromString("100"), Quantity: 3},
				{UnitPrice: decimal.RequireFromString("999"), Quantity: 0},
				{UnitPrice: decimal.RequireFromString("999"), Quantity: -1},
			},
			wantSubtotal: "300",
			wantShipping: "50",
			wantTax:      "24",
			wantTotal:    "374",
		},
	}

	rules := testRules()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quote := rules.Price(tc.lines)
			assertDecimal(t, "subtotal", quote.Subtotal, tc.wantSubtotal)
			assertDecimal(t, "shipping", quote.Shipping, tc.wantShipping)
			assertDecimal(t, "tax", quote.Tax, tc.wantTax)
			assertDecimal(t, "total", quote.Total, tc.wantTotal)
		})
	}
}

func TestAmountDue(t *testing.T) {
	t.Parallel()

	rules := testRules()
	quote := rules.Price([]Line{{UnitPrice: decimal.RequireFromString("1299"), Quantity: 1}})

	full := rules.AmountDue(quote, enums.PaymentPlanFullOnline)
	assertDecimal(t, "full online amount due", full, "1402.92")

	advance := rules.AmountDue(quote, enums.PaymentPlanPartialCOD)
	assertDecimal(t, "cod advance", advance, "350.73")

	balance := rules.BalanceDue(quote, enums.PaymentPlanPartialCOD)
	assertDecimal(t, "cod balance", balance, "1052.19")

	if got := rules.BalanceDue(quote, enums.PaymentPlanFullOnline); !got.IsZero() {
		t.Fatalf("expected zero balance for full online, got %s", got)
	}
}

func TestAmountDueRoundsOnce(t *testing.T) {
	t.Parallel()

	rules := testRules()
	// 33.33 * 3 = 99.99 subtotal, shipping 50, tax 7.9992: total 157.9892.
	quote := rules.Price([]Line{{UnitPrice: decimal.RequireFromString("33.33"), Quantity: 3}})
	assertDecimal(t, "unrounded total", quote.Total, "157.9892")

	due := rules.AmountDue(quote, enums.PaymentPlanFullOnline)
	assertDecimal(t, "rounded amount due", due, "157.99")
}

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	if got := MinorUnits(decimal.RequireFromString("1402.92")); got != 140292 {
		t.Fatalf("expected 140292, got %d", got)
	}
	if got := MinorUnits(decimal.RequireFromString("350.73")); got != 35073 {
		t.Fatalf("expected 35073, got %d", got)
	}
	if got := MinorUnits(decimal.Zero); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: expected %s, got %s", label, want, got)
	}
}
