package producttype

import "sync"

// Repository provides access to product type rows.
type Repository interface {
	List(limit int) ([]ProductType, error)
}

// InMemoryRepository keeps types in seed order.
type InMemoryRepository struct {
	mu    sync.RWMutex
	types []ProductType
}

func NewInMemoryRepository(seed []ProductType) *InMemoryRepository {
	return &InMemoryRepository{types: append([]ProductType(nil), seed...)}
}

func (r *InMemoryRepository) List(limit int) ([]ProductType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.types)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ProductType, n)
	copy(out, r.types[:n])
	return out, nil
}
