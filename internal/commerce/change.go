package commerce

import "github.com/google/uuid"

// ChangeKind names the collection a change happened to.
type ChangeKind string

const (
	CartChanged     ChangeKind = "cart"
	WishlistChanged ChangeKind = "wishlist"
)

// Change is published to subscribers after every store mutation. ProductID is
// zero for whole-collection operations such as ClearCart.
type Change struct {
	Kind      ChangeKind
	ProductID uuid.UUID
}

// Subscribe registers a change listener and returns its channel together with
// an unsubscribe function. The channel is buffered; a slow consumer misses
// changes instead of blocking mutations.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 16)
	s.subs[id] = ch

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// publish delivers a change to all subscribers without blocking.
func (s *Store) publish(change Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
