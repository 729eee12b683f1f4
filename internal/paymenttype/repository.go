package paymenttype

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("payment type not found")

// Repository provides access to payment options.
type Repository interface {
	List() ([]PaymentType, error)
	GetByID(id int) (PaymentType, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []PaymentType
}

func NewInMemoryRepository(seed []PaymentType) *InMemoryRepository {
	return &InMemoryRepository{items: append([]PaymentType(nil), seed...)}
}

func (r *InMemoryRepository) List() ([]PaymentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PaymentType, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (PaymentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return PaymentType{}, ErrNotFound
}
