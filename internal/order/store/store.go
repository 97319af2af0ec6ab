// Package store provides an interface for order storage operations.
package store

import (
	"context"

	"github.com/aurelia-labs/jewelstore/internal/order"
	"github.com/google/uuid"
)

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// Create persists a new order.
	// Returns error if the order cannot be created.
	Create(ctx context.Context, o *order.Order) error

	// FindByID retrieves a single order of the session by its unique identifier.
	// Returns ErrOrderNotFound if no such order exists within the session.
	FindByID(ctx context.Context, sessionID, id uuid.UUID) (*order.Order, error)

	// FindBySession returns the session's orders, newest first.
	// Returns an empty slice if no orders exist.
	FindBySession(ctx context.Context, sessionID uuid.UUID, offset, limit int32) ([]order.Order, error)

	// UpdateStatus advances an order's fulfillment status.
	// Returns ErrOrderNotFound if the order does not exist, ErrOrderDelivered
	// if it is already delivered and ErrInvalidTransition for non-monotonic
	// transitions.
	UpdateStatus(ctx context.Context, id uuid.UUID, next order.Status) (*order.Order, error)
}
