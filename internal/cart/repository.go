package cart

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidUser    = errors.New("invalid user")
	ErrInvalidProduct = errors.New("invalid product")
)

// Store persists one ordered list of line items per user. A user with no
// record loads as an empty cart.
type Store interface {
	Load(ctx context.Context, userID int) ([]LineItem, error)
	Save(ctx context.Context, userID int, items []LineItem) error
}

// InMemoryStore is used for tests and local scenarios.
type InMemoryStore struct {
	mu    sync.RWMutex
	carts map[int][]LineItem
}

func NewInMemoryStore(seed map[int][]LineItem) *InMemoryStore {
	s := &InMemoryStore{carts: make(map[int][]LineItem, len(seed))}
	for userID, items := range seed {
		s.carts[userID] = append([]LineItem(nil), items...)
	}
	return s
}

func (s *InMemoryStore) Load(_ context.Context, userID int) ([]LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	out := make([]LineItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *InMemoryStore) Save(_ context.Context, userID int, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = append([]LineItem(nil), items...)
	return nil
}
