package commerce

import (
	"testing"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	commerceerrors "github.com/aurelia-labs/jewelstore/internal/commerce/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ring     = catalog.Product{ID: uuid.MustParse("123e4567-e89b-12d3-a456-426614174001"), Name: "Gold Ring", PriceCents: 29900}
	necklace = catalog.Product{ID: uuid.MustParse("123e4567-e89b-12d3-a456-426614174002"), Name: "Pearl Necklace", PriceCents: 45900}
)

type addOp struct {
	product catalog.Product
	qty     int32
}

func TestAddToCart(t *testing.T) {
	testCases := []struct {
		name          string
		adds          []addOp
		expectedErr   error
		expectedItems []CartItem
	}{
		{
			name: "Success - new item",
			adds: []addOp{{ring, 1}},
			expectedItems: []CartItem{{Product: ring, Quantity: 1}},
		},
		{
			name: "Success - same product merges quantities",
			adds: []addOp{{ring, 1}, {ring, 2}},
			expectedItems: []CartItem{{Product: ring, Quantity: 3}},
		},
		{
			name: "Success - distinct products keep insertion order",
			adds: []addOp{{ring, 1}, {necklace, 2}},
			expectedItems: []CartItem{{Product: ring, Quantity: 1}, {Product: necklace, Quantity: 2}},
		},
		{
			name: "Error - zero quantity",
			adds: []addOp{{ring, 0}},
			expectedErr:   commerceerrors.ErrInvalidQuantity,
			expectedItems: []CartItem{},
		},
		{
			name: "Error - negative quantity",
			adds: []addOp{{ring, -1}},
			expectedErr:   commerceerrors.ErrInvalidQuantity,
			expectedItems: []CartItem{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewStore()

			// when
			var lastErr error
			for _, add := range tc.adds {
				lastErr = s.AddToCart(add.product, add.qty)
			}

			// then
			if tc.expectedErr != nil {
				require.ErrorIs(t, lastErr, tc.expectedErr)
			} else {
				require.NoError(t, lastErr)
			}
			assert.Equal(t, tc.expectedItems, s.Cart())
		})
	}
}

func TestRemoveFromCart(t *testing.T) {
	// given
	s := NewStore()
	require.NoError(t, s.AddToCart(ring, 1))
	require.NoError(t, s.AddToCart(necklace, 1))

	// when removing a present product
	s.RemoveFromCart(ring.ID)

	// then
	assert.Equal(t, []CartItem{{Product: necklace, Quantity: 1}}, s.Cart())

	// when removing it again (idempotent)
	s.RemoveFromCart(ring.ID)

	// then
	assert.Equal(t, []CartItem{{Product: necklace, Quantity: 1}}, s.Cart())
}

func TestUpdateCartQuantity(t *testing.T) {
	testCases := []struct {
		name        string
		productID   uuid.UUID
		qty         int32
		expectedErr error
		expectedQty int32
	}{
		{name: "Success - quantity replaced", productID: ring.ID, qty: 5, expectedQty: 5},
		{name: "Success - absent product is a no-op", productID: necklace.ID, qty: 5, expectedQty: 1},
		{name: "Error - zero quantity", productID: ring.ID, qty: 0, expectedErr: commerceerrors.ErrInvalidQuantity, expectedQty: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewStore()
			require.NoError(t, s.AddToCart(ring, 1))

			// when
			err := s.UpdateCartQuantity(tc.productID, tc.qty)

			// then
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			cart := s.Cart()
			require.Len(t, cart, 1)
			assert.Equal(t, tc.expectedQty, cart[0].Quantity)
		})
	}
}

func TestClearCart(t *testing.T) {
	// given
	s := NewStore()
	require.NoError(t, s.AddToCart(ring, 2))

	// when
	s.ClearCart()

	// then
	assert.Empty(t, s.Cart())
	assert.Zero(t, s.Subtotal())

	// clearing an empty cart is a no-op
	s.ClearCart()
	assert.Empty(t, s.Cart())
}

func TestSubtotal(t *testing.T) {
	// given
	s := NewStore()
	require.NoError(t, s.AddToCart(ring, 2))     // 59800
	require.NoError(t, s.AddToCart(necklace, 1)) // 45900

	// then
	assert.Equal(t, int64(105700), s.Subtotal())
}

func TestWishlist(t *testing.T) {
	// given
	s := NewStore()

	// when adding twice (set semantics)
	s.AddToWishlist(ring)
	s.AddToWishlist(ring)
	s.AddToWishlist(necklace)

	// then
	assert.Equal(t, []catalog.Product{ring, necklace}, s.Wishlist())
	assert.True(t, s.IsInWishlist(ring.ID))

	// when removing twice (idempotent)
	s.RemoveFromWishlist(ring.ID)
	s.RemoveFromWishlist(ring.ID)

	// then
	assert.Equal(t, []catalog.Product{necklace}, s.Wishlist())
	assert.False(t, s.IsInWishlist(ring.ID))
}

func TestSubscribe(t *testing.T) {
	// given
	s := NewStore()
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// when
	require.NoError(t, s.AddToCart(ring, 1))
	s.AddToWishlist(necklace)

	// then
	change := <-ch
	assert.Equal(t, Change{Kind: CartChanged, ProductID: ring.ID}, change)
	change = <-ch
	assert.Equal(t, Change{Kind: WishlistChanged, ProductID: necklace.ID}, change)
}

func TestSubscribe_NoopMutationsDoNotPublish(t *testing.T) {
	// given
	s := NewStore()
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// when nothing actually changes
	s.RemoveFromCart(ring.ID)
	s.ClearCart()
	s.RemoveFromWishlist(ring.ID)
	s.AddToWishlist(ring)
	s.AddToWishlist(ring) // second add is a no-op

	// then only the first wishlist insert was published
	change := <-ch
	assert.Equal(t, Change{Kind: WishlistChanged, ProductID: ring.ID}, change)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected change published: %+v", extra)
	default:
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	// given
	s := NewStore()
	ch, unsubscribe := s.Subscribe()

	// when
	unsubscribe()
	unsubscribe() // safe to call twice

	// then
	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")

	// mutations after unsubscribe must not panic
	require.NoError(t, s.AddToCart(ring, 1))
}

func TestSessions_Get(t *testing.T) {
	// given
	sessions := NewSessions()
	sessionA := uuid.New()
	sessionB := uuid.New()

	// when
	storeA := sessions.Get(sessionA)
	storeB := sessions.Get(sessionB)

	// then sessions are isolated
	require.NoError(t, storeA.AddToCart(ring, 1))
	assert.Empty(t, storeB.Cart())
	assert.Equal(t, 2, sessions.Len())

	// and repeated lookups return the same store
	assert.Same(t, storeA, sessions.Get(sessionA))
}
