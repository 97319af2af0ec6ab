package checkout

import (
	"testing"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	"github.com/aurelia-labs/jewelstore/internal/commerce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func cartItem(priceCents int64, qty int32) commerce.CartItem {
	return commerce.CartItem{
		Product:  catalog.Product{ID: uuid.New(), PriceCents: priceCents},
		Quantity: qty,
	}
}

func TestPricing_Quote(t *testing.T) {
	pricing := Pricing{ShippingFeeCents: 5000, TaxRateBps: 800, Currency: "USD"}

	testCases := []struct {
		name     string
		pricing  Pricing
		items    []commerce.CartItem
		expected Quote
	}{
		{
			name:    "single item",
			pricing: pricing,
			items:   []commerce.CartItem{cartItem(129900, 1)},
			expected: Quote{
				SubtotalCents: 129900,
				ShippingCents: 5000,
				TaxCents:      10392,
				TotalCents:    145292,
			},
		},
		{
			name:    "quantity multiplies into the subtotal",
			pricing: pricing,
			items:   []commerce.CartItem{cartItem(29900, 2), cartItem(45900, 1)},
			expected: Quote{
				SubtotalCents: 105700,
				ShippingCents: 5000,
				TaxCents:      8456,
				TotalCents:    119156,
			},
		},
		{
			name:    "empty cart still pays shipping",
			pricing: pricing,
			items:   nil,
			expected: Quote{
				SubtotalCents: 0,
				ShippingCents: 5000,
				TaxCents:      0,
				TotalCents:    5000,
			},
		},
		{
			name:    "zero rates",
			pricing: Pricing{ShippingFeeCents: 0, TaxRateBps: 0, Currency: "USD"},
			items:   []commerce.CartItem{cartItem(100, 1)},
			expected: Quote{
				SubtotalCents: 100,
				ShippingCents: 0,
				TaxCents:      0,
				TotalCents:    100,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.pricing.Quote(tc.items))
		})
	}
}

func TestRoundHalfUpBps(t *testing.T) {
	testCases := []struct {
		name     string
		amount   int64
		bps      int64
		expected int64
	}{
		{name: "exact", amount: 10000, bps: 800, expected: 800},
		{name: "fraction below half rounds down", amount: 105, bps: 800, expected: 8}, // 8.4
		{name: "fraction at exactly half rounds up", amount: 40, bps: 125, expected: 1}, // 0.5
		{name: "fraction above half rounds up", amount: 120, bps: 800, expected: 10}, // 9.6
		{name: "zero amount", amount: 0, bps: 800, expected: 0},
		{name: "zero rate", amount: 129900, bps: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, roundHalfUpBps(tc.amount, tc.bps))
		})
	}
}
