package address

import (
	"errors"
	"sync"
)

var (
	ErrNotFound  = errors.New("address not found")
	ErrNoDefault = errors.New("no default address")
	ErrInvalid   = errors.New("addressDesc or addressName required")
)

type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	AddAddress(userID int, a Address, now string) (Address, error)
	UpdateAddress(userID, addressID int, a Address, now string) (Address, error)
	DeleteAddress(userID, addressID int) error
	// SetDefault marks addressID as the user's only default address.
	SetDefault(userID, addressID int) error
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu     sync.RWMutex
	data   map[int][]Address // keyed by userID
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	r := &InMemoryRepository{data: make(map[int][]Address, len(seed)), nextID: 1}
	for userID, addrs := range seed {
		r.data[userID] = append([]Address(nil), addrs...)
		for _, a := range addrs {
			if a.AddressID >= r.nextID {
				r.nextID = a.AddressID + 1
			}
		}
	}
	return r
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Address, len(r.data[userID]))
	copy(out, r.data[userID])
	return out, nil
}

func (r *InMemoryRepository) AddAddress(userID int, a Address, now string) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.AddressID = r.nextID
	r.nextID++
	a.UserID = userID
	a.CreatedAt = now
	a.UpdatedAt = now
	r.data[userID] = append(r.data[userID], a)
	return a, nil
}

func (r *InMemoryRepository) UpdateAddress(userID, addressID int, a Address, now string) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.data[userID] {
		if existing.AddressID == addressID {
			existing.AddressDesc = a.AddressDesc
			existing.Phone = a.Phone
			existing.AddressName = a.AddressName
			existing.UpdatedAt = now
			r.data[userID][i] = existing
			return existing, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[userID]
	for i, a := range addrs {
		if a.AddressID == addressID {
			r.data[userID] = append(addrs[:i:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetDefault(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addrs := r.data[userID]
	found := false
	for _, a := range addrs {
		if a.AddressID == addressID {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].AddressID == addressID
	}
	return nil
}
