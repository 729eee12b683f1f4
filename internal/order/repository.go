package order

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wichananm65/storefront-backend/internal/cart"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrInvalid  = errors.New("invalid order")
)

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ord Order) (Order, error)
	GetByID(id int) (Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID int) ([]Order, error)
	MarkPaid(id int, paidAt time.Time) (Order, error)
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[int]Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[int]Order), nextID: 1}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord.OrderID = r.nextID
	r.nextID++
	ord.Items = append([]cart.LineItem(nil), ord.Items...)
	if ord.Status == "" {
		ord.Status = StatusPending
	}
	now := time.Now().UTC()
	ord.CreatedAt, ord.UpdatedAt = now, now
	r.orders[ord.OrderID] = ord
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return out, nil
}

func (r *InMemoryRepository) MarkPaid(id int, paidAt time.Time) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if !ord.IsPaid {
		ord.IsPaid = true
		ord.Status = StatusPaid
		ord.PaidAt = &paidAt
		ord.UpdatedAt = paidAt
		r.orders[id] = ord
	}
	return ord, nil
}
