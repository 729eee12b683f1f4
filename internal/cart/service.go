package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/wichananm65/storefront-backend/internal/product"
)

// ProductSource supplies the snapshot stored for a newly added product.
type ProductSource interface {
	GetByID(id int) (product.Product, error)
}

// Service orchestrates cart operations. Every mutation is written through
// to the store before it returns.
type Service struct {
	store    Store
	products ProductSource
}

func NewService(store Store, products ProductSource) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) Get(ctx context.Context, userID int) ([]LineItem, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	return s.store.Load(ctx, userID)
}

// Apply reconciles ch into the user's cart and persists the result.
// A zero delta returns the current cart.
func (s *Service) Apply(ctx context.Context, userID int, ch Change) ([]LineItem, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	if ch.Item.ProductID <= 0 {
		return nil, ErrInvalidProduct
	}

	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ch.Delta == 0 {
		return items, nil
	}

	if ch.Delta > 0 && !contains(items, ch.Item.ProductID) {
		if ch.Item, err = s.fill(ch.Item); err != nil {
			return nil, err
		}
	}

	next := Reconcile(items, ch)
	if err := s.store.Save(ctx, userID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID int) ([]LineItem, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			next = append(next, it)
		}
	}
	if err := s.store.Save(ctx, userID, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) Clear(ctx context.Context, userID int) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	return s.store.Save(ctx, userID, nil)
}

// Subtract removes ordered quantities from the user's cart using the same
// rule as Apply with a negative delta.
func (s *Service) Subtract(ctx context.Context, userID int, ordered []LineItem) ([]LineItem, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range ordered {
		items = Reconcile(items, Change{Item: LineItem{ProductID: o.ProductID}, Delta: -o.Amount})
	}
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// fill replaces client-sent name, price, discount, image and slug with the
// catalog's. Without a ProductSource the item is kept as sent.
func (s *Service) fill(item LineItem) (LineItem, error) {
	if s.products == nil {
		return item, nil
	}
	p, err := s.products.GetByID(item.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return item, ErrInvalidProduct
		}
		return item, fmt.Errorf("lookup product %d: %w", item.ProductID, err)
	}

	item.Name = p.Name
	item.Price = p.Price
	item.Discount = p.Discount
	item.Image = p.Image
	item.Slug = p.Slug
	return item, nil
}

func contains(items []LineItem, productID int) bool {
	for _, it := range items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
