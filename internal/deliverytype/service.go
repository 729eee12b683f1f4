package deliverytype

// Service provides business logic for delivery options.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]DeliveryType, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (DeliveryType, error) {
	if id <= 0 {
		return DeliveryType{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}
