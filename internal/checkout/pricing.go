// Package checkout implements order pricing and the atomic place-order
// operation.
package checkout

import (
	"github.com/aurelia-labs/jewelstore/internal/commerce"
)

// Pricing carries the externally supplied pricing parameters. Shipping is a
// flat fee; the tax rate is expressed in basis points (800 = 8%).
type Pricing struct {
	ShippingFeeCents int64
	TaxRateBps       int64
	Currency         string
}

// Quote is the priced breakdown of a cart. All amounts are in cents.
type Quote struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Quote prices the given cart items: subtotal plus flat shipping plus tax on
// the subtotal. The tax amount is rounded half-up to a whole cent.
func (p Pricing) Quote(items []commerce.CartItem) Quote {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Product.PriceCents * int64(item.Quantity)
	}
	tax := roundHalfUpBps(subtotal, p.TaxRateBps)
	return Quote{
		SubtotalCents: subtotal,
		ShippingCents: p.ShippingFeeCents,
		TaxCents:      tax,
		TotalCents:    subtotal + p.ShippingFeeCents + tax,
	}
}

// roundHalfUpBps computes amount * bps / 10000 rounded half-up, in integer
// cents. Amounts and rates are non-negative.
func roundHalfUpBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}
