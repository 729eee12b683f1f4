package favorite

import (
	"github.com/wichananm65/storefront-backend/internal/product"
)

// Products is the catalog view the like service needs.
type Products interface {
	GetByID(id int) (product.Product, error)
	ListByIDs(ids []int) ([]product.Product, error)
}

type Service struct {
	repo     Repository
	products Products
}

func NewService(repo Repository, products Products) *Service {
	return &Service{repo: repo, products: products}
}

// Like records userID's like and returns the product's likers.
func (s *Service) Like(userID, productID int) ([]int, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}
	if err := s.repo.Like(userID, productID); err != nil {
		return nil, err
	}
	return s.likers(productID)
}

func (s *Service) Unlike(userID, productID int) ([]int, error) {
	if err := s.repo.Unlike(userID, productID); err != nil {
		return nil, err
	}
	return s.likers(productID)
}

// Liked returns the user's liked products, most recent like first, each
// with its likers filled in.
func (s *Service) Liked(userID int) ([]product.Product, error) {
	ids, err := s.repo.LikedProductIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	found, err := s.products.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	likedBy, err := s.repo.LikedBy(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		p.LikedBy = likedBy[id]
		if p.LikedBy == nil {
			p.LikedBy = []int{}
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) likers(productID int) ([]int, error) {
	m, err := s.repo.LikedBy([]int{productID})
	if err != nil {
		return nil, err
	}
	if users, ok := m[productID]; ok {
		return users, nil
	}
	return []int{}, nil
}
