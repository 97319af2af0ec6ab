// Package order defines the immutable order record created at checkout and
// its fulfillment status lifecycle.
package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fulfillment state of an order. Transitions are monotonic:
// placed -> processing -> shipped -> delivered. A delivered order is frozen.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

var statusRank = map[Status]int{
	StatusPlaced:     0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanAdvanceTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return s != StatusDelivered && to > from
}

// Item is a snapshot of a cart item at checkout time. It deliberately copies
// name and price: later catalog or cart changes must not affect the order.
type Item struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int32     `json:"quantity"`
}

// Address is the shipping destination recorded on the order.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is a completed checkout. Items and amounts are fixed at creation;
// only Status and UpdatedAt change afterwards, driven by fulfillment events.
type Order struct {
	ID              uuid.UUID `json:"id"`
	SessionID       uuid.UUID `json:"session_id"`
	Status          Status    `json:"status"`
	Items           []Item    `json:"items"`
	SubtotalCents   int64     `json:"subtotal_cents"`
	ShippingCents   int64     `json:"shipping_cents"`
	TaxCents        int64     `json:"tax_cents"`
	TotalCents      int64     `json:"total_cents"`
	Currency        string    `json:"currency"`
	ShippingAddress Address   `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]Item, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
