package deliverytype

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("delivery type not found")

// Repository provides access to delivery options.
type Repository interface {
	List() ([]DeliveryType, error)
	GetByID(id int) (DeliveryType, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []DeliveryType
}

func NewInMemoryRepository(seed []DeliveryType) *InMemoryRepository {
	return &InMemoryRepository{items: append([]DeliveryType(nil), seed...)}
}

func (r *InMemoryRepository) List() ([]DeliveryType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeliveryType, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (DeliveryType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.items {
		if d.ID == id {
			return d, nil
		}
	}
	return DeliveryType{}, ErrNotFound
}
