package order

import (
	"fmt"
	"time"
)

// Service provides business logic for orders.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// Create stores a priced order. Pricing happens before this call.
func (s *Service) Create(ord Order) (Order, error) {
	if ord.UserID <= 0 {
		return Order{}, fmt.Errorf("%w: missing user", ErrInvalid)
	}
	if len(ord.Items) == 0 {
		return Order{}, fmt.Errorf("%w: no items", ErrInvalid)
	}
	if ord.ItemsPrice < 0 || ord.Discount < 0 || ord.ShippingPrice < 0 || ord.TotalPrice < 0 {
		return Order{}, fmt.Errorf("%w: negative amount", ErrInvalid)
	}
	return s.repo.Create(ord)
}

func (s *Service) GetByID(id int) (Order, error) {
	if id <= 0 {
		return Order{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

// GetForUser hides orders that belong to someone else.
func (s *Service) GetForUser(userID, id int) (Order, error) {
	ord, err := s.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) MarkPaid(id int) (Order, error) {
	if id <= 0 {
		return Order{}, ErrNotFound
	}
	return s.repo.MarkPaid(id, s.now().UTC())
}
