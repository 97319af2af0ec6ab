package events

import (
	"encoding/json"
	"time"

	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	"github.com/google/uuid"
)

// OrderPlacedEvent is emitted once an order has been persisted at checkout.
// Fulfillment (status transitions towards delivered) is driven by consumers
// of this event, never by the storefront itself.
type OrderPlacedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	SessionID  uuid.UUID `json:"session_id"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
