package session

import (
	"context"
	"sync"

	"github.com/jinitha01/ecom-demo/internal/domain"
)

// MemoryStore implements Store with in-memory storage. Used in tests and for
// local development without Redis. Carts are copied on the way in and out so
// callers never share map state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]domain.Cart),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return domain.Cart{}, nil
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func copyCart(cart domain.Cart) domain.Cart {
	out := make(domain.Cart, len(cart))
	for id, line := range cart {
		out[id] = line
	}
	return out
}
