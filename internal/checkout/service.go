package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aurelia-labs/jewelstore/internal/commerce"
	commerceerrors "github.com/aurelia-labs/jewelstore/internal/commerce/errors"
	"github.com/aurelia-labs/jewelstore/internal/order"
	"github.com/aurelia-labs/jewelstore/internal/order/store"
	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	"github.com/aurelia-labs/jewelstore/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Service places orders. PlaceOrder is the single atomic checkout operation:
// the cart snapshot, the price quote and the persisted order always agree,
// and the cart survives a failed checkout.
type Service struct {
	orderStore    store.OrderStore
	publisher     messaging.Publisher
	pricing       Pricing
	logger        *slog.Logger
	ordersCounter metric.Int64Counter
}

// NewService creates a new checkout service.
func NewService(orderStore store.OrderStore, publisher messaging.Publisher, pricing Pricing, logger *slog.Logger) *Service {
	meter := otel.Meter("storefront")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	return &Service{
		orderStore:    orderStore,
		publisher:     publisher,
		pricing:       pricing,
		logger:        logger.With("component", "checkout"),
		ordersCounter: ordersCounter,
	}
}

// Quote prices the session's current cart without placing an order.
func (s *Service) Quote(cart *commerce.Store) Quote {
	return s.pricing.Quote(cart.Cart())
}

// PlaceOrder snapshots the cart into a new order with status placed, persists
// it and clears the cart. Returns ErrEmptyCart for an empty cart. If the
// store rejects the order the cart is left untouched so the caller can retry.
// The context cancels the operation; a cancelled persist leaves the cart
// intact as well.
func (s *Service) PlaceOrder(ctx context.Context, sessionID uuid.UUID, cart *commerce.Store, addr order.Address) (*order.Order, error) {
	items := cart.Cart()
	if len(items) == 0 {
		return nil, commerceerrors.ErrEmptyCart
	}

	snapshot := make([]order.Item, len(items))
	for i, item := range items {
		snapshot[i] = order.Item{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			PriceCents: item.Product.PriceCents,
			Quantity:   item.Quantity,
		}
	}

	quote := s.pricing.Quote(items)
	now := time.Now().UTC()
	o := &order.Order{
		ID:              uuid.New(),
		SessionID:       sessionID,
		Status:          order.StatusPlaced,
		Items:           snapshot,
		SubtotalCents:   quote.SubtotalCents,
		ShippingCents:   quote.ShippingCents,
		TaxCents:        quote.TaxCents,
		TotalCents:      quote.TotalCents,
		Currency:        s.pricing.Currency,
		ShippingAddress: addr,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderStore.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	event := events.OrderPlacedEvent{
		OrderID:    o.ID,
		SessionID:  o.SessionID,
		TotalCents: o.TotalCents,
		Currency:   o.Currency,
		CreatedAt:  o.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The order is already placed; losing the event must not fail checkout.
		s.logger.ErrorContext(ctx, "Failed to publish OrderPlacedEvent", "order_id", o.ID, "error", err)
	}
	s.ordersCounter.Add(ctx, 1)

	cart.ClearCart()
	s.logger.InfoContext(ctx, "Order placed", "order_id", o.ID, "total_cents", o.TotalCents, "items", len(o.Items))
	return o, nil
}
