package paymenttype

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]PaymentType, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (PaymentType, error) {
	if id <= 0 {
		return PaymentType{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}
