package address

import (
	"time"
)

// Service orchestrates address management and the single-default rule.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAddresses(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetAddresses(userID)
}

// AddAddress stores a new address. The user's first address becomes the default.
func (s *Service) AddAddress(userID int, a Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if a.AddressDesc == "" && a.AddressName == "" {
		return Address{}, ErrInvalid
	}
	existing, err := s.repo.GetAddresses(userID)
	if err != nil {
		return Address{}, err
	}

	created, err := s.repo.AddAddress(userID, a, now())
	if err != nil {
		return Address{}, err
	}
	if a.IsDefault || len(existing) == 0 {
		if err := s.repo.SetDefault(userID, created.AddressID); err != nil {
			return Address{}, err
		}
		created.IsDefault = true
	}
	return created, nil
}

func (s *Service) UpdateAddress(userID, addressID int, a Address) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	if a.AddressDesc == "" && a.AddressName == "" {
		return Address{}, ErrInvalid
	}
	updated, err := s.repo.UpdateAddress(userID, addressID, a, now())
	if err != nil {
		return Address{}, err
	}
	if a.IsDefault && !updated.IsDefault {
		if err := s.repo.SetDefault(userID, addressID); err != nil {
			return Address{}, err
		}
		updated.IsDefault = true
	}
	return updated, nil
}

// DeleteAddress removes an address. Deleting the default promotes the
// oldest remaining address.
func (s *Service) DeleteAddress(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	def, err := s.DefaultAddress(userID)
	wasDefault := err == nil && def.AddressID == addressID

	if err := s.repo.DeleteAddress(userID, addressID); err != nil {
		return err
	}
	if !wasDefault {
		return nil
	}

	rest, err := s.repo.GetAddresses(userID)
	if err != nil || len(rest) == 0 {
		return err
	}
	return s.repo.SetDefault(userID, rest[0].AddressID)
}

func (s *Service) SetDefault(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.SetDefault(userID, addressID)
}

// DefaultAddress returns the user's default shipping address or ErrNoDefault.
func (s *Service) DefaultAddress(userID int) (Address, error) {
	addrs, err := s.GetAddresses(userID)
	if err != nil {
		return Address{}, err
	}
	for _, a := range addrs {
		if a.IsDefault {
			return a, nil
		}
	}
	return Address{}, ErrNoDefault
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
