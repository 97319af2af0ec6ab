package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	"github.com/aurelia-labs/jewelstore/internal/commerce"
	commerceerrors "github.com/aurelia-labs/jewelstore/internal/commerce/errors"
	"github.com/aurelia-labs/jewelstore/internal/order"
	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	"github.com/aurelia-labs/jewelstore/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderStore is a mock implementation of the OrderStore interface
type mockOrderStore struct {
	created *order.Order
	error   error
}

func (m *mockOrderStore) Create(_ context.Context, o *order.Order) error {
	if m.error != nil {
		return m.error
	}
	m.created = o.Clone()
	return nil
}

func (m *mockOrderStore) FindByID(_ context.Context, _, _ uuid.UUID) (*order.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderStore) FindBySession(_ context.Context, _ uuid.UUID, _, _ int32) ([]order.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ order.Status) (*order.Order, error) {
	return nil, errors.New("not implemented")
}

// mockPublisher records published events.
type mockPublisher struct {
	published []messaging.Event
	error     error
}

func (m *mockPublisher) Publish(_ context.Context, event messaging.Event) error {
	if m.error != nil {
		return m.error
	}
	m.published = append(m.published, event)
	return nil
}

var testPricing = Pricing{ShippingFeeCents: 5000, TaxRateBps: 800, Currency: "USD"}

func newTestService(store *mockOrderStore, publisher *mockPublisher) *Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewService(store, publisher, testPricing, logger)
}

func cartWith(t *testing.T, items ...commerce.CartItem) *commerce.Store {
	t.Helper()
	cart := commerce.NewStore()
	for _, item := range items {
		require.NoError(t, cart.AddToCart(item.Product, item.Quantity))
	}
	return cart
}

var testAddress = order.Address{
	Name:       "Jane Doe",
	Line1:      "1 Market St",
	City:       "Springfield",
	PostalCode: "12345",
	Country:    "US",
}

func TestPlaceOrder_Success(t *testing.T) {
	// given
	ring := catalog.Product{ID: uuid.New(), Name: "Aurora Diamond Ring", PriceCents: 129900}
	store := &mockOrderStore{}
	publisher := &mockPublisher{}
	svc := newTestService(store, publisher)
	sessionID := uuid.New()
	cart := cartWith(t, commerce.CartItem{Product: ring, Quantity: 1})

	// when
	placed, err := svc.PlaceOrder(context.Background(), sessionID, cart, testAddress)

	// then
	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, order.StatusPlaced, placed.Status)
	assert.Equal(t, sessionID, placed.SessionID)
	assert.Equal(t, int64(129900), placed.SubtotalCents)
	assert.Equal(t, int64(5000), placed.ShippingCents)
	assert.Equal(t, int64(10392), placed.TaxCents)
	assert.Equal(t, int64(145292), placed.TotalCents)
	assert.Equal(t, "USD", placed.Currency)
	assert.Equal(t, testAddress, placed.ShippingAddress)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, order.Item{ProductID: ring.ID, Name: ring.Name, PriceCents: ring.PriceCents, Quantity: 1}, placed.Items[0])

	// the order was persisted and the cart cleared afterwards
	require.NotNil(t, store.created)
	assert.Equal(t, placed.ID, store.created.ID)
	assert.Empty(t, cart.Cart(), "cart must be cleared after a successful checkout")

	// the event matches the persisted order
	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(events.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, placed.ID, event.OrderID)
	assert.Equal(t, sessionID, event.SessionID)
	assert.Equal(t, int64(145292), event.TotalCents)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	// given
	store := &mockOrderStore{}
	publisher := &mockPublisher{}
	svc := newTestService(store, publisher)

	// when
	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), commerce.NewStore(), testAddress)

	// then
	require.ErrorIs(t, err, commerceerrors.ErrEmptyCart)
	assert.Nil(t, placed)
	assert.Nil(t, store.created, "nothing must be persisted")
	assert.Empty(t, publisher.published, "nothing must be published")
}

func TestPlaceOrder_StoreFailureLeavesCartIntact(t *testing.T) {
	// given
	ring := catalog.Product{ID: uuid.New(), Name: "Aurora Diamond Ring", PriceCents: 129900}
	store := &mockOrderStore{error: errors.New("db down")}
	publisher := &mockPublisher{}
	svc := newTestService(store, publisher)
	cart := cartWith(t, commerce.CartItem{Product: ring, Quantity: 2})

	// when
	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), cart, testAddress)

	// then
	require.Error(t, err)
	assert.Nil(t, placed)
	assert.Empty(t, publisher.published, "no event for a failed checkout")
	require.Len(t, cart.Cart(), 1, "the cart must survive a failed checkout")
	assert.Equal(t, int32(2), cart.Cart()[0].Quantity)
}

func TestPlaceOrder_PublishFailureDoesNotFailCheckout(t *testing.T) {
	// given
	ring := catalog.Product{ID: uuid.New(), Name: "Aurora Diamond Ring", PriceCents: 129900}
	store := &mockOrderStore{}
	publisher := &mockPublisher{error: errors.New("nats down")}
	svc := newTestService(store, publisher)
	cart := cartWith(t, commerce.CartItem{Product: ring, Quantity: 1})

	// when
	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), cart, testAddress)

	// then the order is placed anyway
	require.NoError(t, err)
	require.NotNil(t, placed)
	require.NotNil(t, store.created)
	assert.Empty(t, cart.Cart())
}

func TestPlaceOrder_SnapshotIsImmutable(t *testing.T) {
	// given
	ring := catalog.Product{ID: uuid.New(), Name: "Aurora Diamond Ring", PriceCents: 129900}
	store := &mockOrderStore{}
	svc := newTestService(store, &mockPublisher{})
	cart := cartWith(t, commerce.CartItem{Product: ring, Quantity: 1})

	placed, err := svc.PlaceOrder(context.Background(), uuid.New(), cart, testAddress)
	require.NoError(t, err)

	// when the cart changes after checkout
	require.NoError(t, cart.AddToCart(ring, 5))

	// then the order snapshot is unaffected
	require.Len(t, placed.Items, 1)
	assert.Equal(t, int32(1), placed.Items[0].Quantity)
	assert.Equal(t, int64(129900), placed.Items[0].PriceCents)
}

func TestQuote(t *testing.T) {
	// given
	ring := catalog.Product{ID: uuid.New(), PriceCents: 129900}
	svc := newTestService(&mockOrderStore{}, &mockPublisher{})
	cart := cartWith(t, commerce.CartItem{Product: ring, Quantity: 1})

	// when
	quote := svc.Quote(cart)

	// then quoting does not touch the cart
	assert.Equal(t, Quote{SubtotalCents: 129900, ShippingCents: 5000, TaxCents: 10392, TotalCents: 145292}, quote)
	assert.Len(t, cart.Cart(), 1)
}
