// Package commerce holds the per-session shopping state: the cart, the
// wishlist and a change feed for consumers that render them.
package commerce

import (
	"sync"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	commerceerrors "github.com/aurelia-labs/jewelstore/internal/commerce/errors"
	"github.com/google/uuid"
)

// CartItem is a product together with the selected quantity. A cart holds at
// most one item per product ID.
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int32           `json:"quantity"`
}

// Store is the mutable shopping state of a single session. All methods are
// safe for concurrent use; mutations publish a change to subscribers.
type Store struct {
	mu       sync.RWMutex
	cart     []CartItem
	wishlist []catalog.Product

	subMu   sync.Mutex
	subs    map[int]chan Change
	nextSub int
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		subs: make(map[int]chan Change),
	}
}

// AddToCart puts a product into the cart. If the product is already present
// its quantity is incremented by qty, otherwise a new item is appended.
// Any product value is accepted. Returns ErrInvalidQuantity for qty < 1.
func (s *Store) AddToCart(p catalog.Product, qty int32) error {
	if qty < 1 {
		return commerceerrors.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			s.cart[i].Quantity += qty
			s.publish(Change{Kind: CartChanged, ProductID: p.ID})
			return nil
		}
	}
	s.cart = append(s.cart, CartItem{Product: p, Quantity: qty})
	s.publish(Change{Kind: CartChanged, ProductID: p.ID})
	return nil
}

// RemoveFromCart removes the matching entry if present. Removing an absent
// product is a no-op, not an error.
func (s *Store) RemoveFromCart(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			s.publish(Change{Kind: CartChanged, ProductID: productID})
			return
		}
	}
}

// UpdateCartQuantity sets the quantity of the matching cart entry.
// Returns ErrInvalidQuantity for qty < 1; updating an absent product is a
// no-op.
func (s *Store) UpdateCartQuantity(productID uuid.UUID, qty int32) error {
	if qty < 1 {
		return commerceerrors.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart[i].Quantity = qty
			s.publish(Change{Kind: CartChanged, ProductID: productID})
			return nil
		}
	}
	return nil
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return
	}
	s.cart = nil
	s.publish(Change{Kind: CartChanged})
}

// Cart returns a copy of the cart items in insertion order.
func (s *Store) Cart() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]CartItem, len(s.cart))
	copy(items, s.cart)
	return items
}

// Subtotal returns the sum of price times quantity over the cart, in cents.
func (s *Store) Subtotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subtotal int64
	for _, item := range s.cart {
		subtotal += item.Product.PriceCents * int64(item.Quantity)
	}
	return subtotal
}

// AddToWishlist inserts a product into the wishlist. The wishlist has set
// semantics: inserting a present product is a no-op.
func (s *Store) AddToWishlist(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wishlist {
		if s.wishlist[i].ID == p.ID {
			return
		}
	}
	s.wishlist = append(s.wishlist, p)
	s.publish(Change{Kind: WishlistChanged, ProductID: p.ID})
}

// RemoveFromWishlist removes a product from the wishlist; idempotent.
func (s *Store) RemoveFromWishlist(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wishlist {
		if s.wishlist[i].ID == productID {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			s.publish(Change{Kind: WishlistChanged, ProductID: productID})
			return
		}
	}
}

// IsInWishlist reports whether the product is on the wishlist.
func (s *Store) IsInWishlist(productID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.wishlist {
		if s.wishlist[i].ID == productID {
			return true
		}
	}
	return false
}

// Wishlist returns a copy of the wishlist in insertion order.
func (s *Store) Wishlist() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]catalog.Product, len(s.wishlist))
	copy(list, s.wishlist)
	return list
}
