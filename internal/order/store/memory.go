package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aurelia-labs/jewelstore/internal/order"
	ordererrors "github.com/aurelia-labs/jewelstore/internal/order/errors"
	"github.com/google/uuid"
)

// MemoryStore implements OrderStore using an in-memory map. Orders live for
// the duration of the process; this is the default when no database is
// configured.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order
}

// NewMemoryStore creates a new in-memory OrderStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[uuid.UUID]*order.Order),
	}
}

// Create persists a new order. The stored value is a deep copy so later
// mutations of the caller's order do not leak in.
func (s *MemoryStore) Create(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return ordererrors.ErrCreateOrder
	}
	s.orders[o.ID] = o.Clone()
	return nil
}

// FindByID retrieves an order of the session by its ID.
func (s *MemoryStore) FindByID(_ context.Context, sessionID, id uuid.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok || o.SessionID != sessionID {
		return nil, ordererrors.ErrOrderNotFound
	}
	return o.Clone(), nil
}

// FindBySession returns the session's orders, newest first.
func (s *MemoryStore) FindBySession(_ context.Context, sessionID uuid.UUID, offset, limit int32) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.SessionID == sessionID {
			list = append(list, *o.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if offset >= int32(len(list)) {
		return []order.Order{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < int32(len(list)) {
		list = list[:limit]
	}
	return list, nil
}

// UpdateStatus advances an order's fulfillment status.
func (s *MemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, next order.Status) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ordererrors.ErrOrderNotFound
	}
	if o.Status == order.StatusDelivered {
		return nil, ordererrors.ErrOrderDelivered
	}
	if !o.Status.CanAdvanceTo(next) {
		return nil, ordererrors.ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return o.Clone(), nil
}
