package product

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid product")

// LikeSource reports which users like each product.
type LikeSource interface {
	LikedBy(productIDs []int) (map[int][]int, error)
}

type Service struct {
	repo  Repository
	likes LikeSource
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithLikes makes List, GetByID and GetBySlug fill Product.LikedBy.
func (s *Service) WithLikes(l LikeSource) *Service {
	s.likes = l
	return s
}

func (s *Service) List(q ListQuery) (Page, error) {
	products, total, err := s.repo.List(q)
	if err != nil {
		return Page{}, err
	}
	if err := s.attachLikes(products); err != nil {
		return Page{}, err
	}
	return Page{Products: products, TotalCount: total}, nil
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.one(s.repo.GetByID(id))
}

func (s *Service) GetBySlug(slug string) (Product, error) {
	return s.one(s.repo.GetBySlug(slug))
}

func (s *Service) one(p Product, err error) (Product, error) {
	if err != nil {
		return Product{}, err
	}
	one := []Product{p}
	if err := s.attachLikes(one); err != nil {
		return Product{}, err
	}
	return one[0], nil
}

func (s *Service) attachLikes(products []Product) error {
	if s.likes == nil || len(products) == 0 {
		return nil
	}
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	likedBy, err := s.likes.LikedBy(ids)
	if err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for i := range products {
		products[i].LikedBy = likedBy[products[i].ID]
		if products[i].LikedBy == nil {
			products[i].LikedBy = []int{}
		}
	}
	return nil
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if errs := Validate(p); len(errs) > 0 {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if errs := Validate(p); len(errs) > 0 {
		return Product{}, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// Validate returns field -> message for every invalid field.
func Validate(p Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if p.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	if p.Discount < 0 || p.Discount > 100 {
		errs["discount"] = "discount must be between 0 and 100"
	}
	if p.CountInStock < 0 {
		errs["countInStock"] = "countInStock must be >= 0"
	}
	if p.AverageRating < 0 || p.AverageRating > 5 {
		errs["averageRating"] = "averageRating must be between 0 and 5"
	}
	return errs
}
