package producttype

// Service provides business logic for product types.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to `limit` product types.
func (s *Service) List(limit int) ([]ProductType, error) {
	return s.repo.List(limit)
}
