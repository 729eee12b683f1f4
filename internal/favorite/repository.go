package favorite

import (
	"errors"
	"sync"
)

var (
	ErrAlreadyLiked = errors.New("product already liked")
	ErrNotLiked     = errors.New("product not liked")
)

// Repository stores which users like which products.
type Repository interface {
	Like(userID, productID int) error
	Unlike(userID, productID int) error
	// LikedProductIDs lists a user's liked products, most recent first.
	LikedProductIDs(userID int) ([]int, error)
	// LikedBy maps each product id to the users that like it, in like order.
	// Products without likes are absent from the map.
	LikedBy(productIDs []int) (map[int][]int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	likes map[int][]int // product id -> user ids
	order []like
}

type like struct {
	userID, productID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{likes: map[int][]int{}}
}

func (r *InMemoryRepository) Like(userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, uid := range r.likes[productID] {
		if uid == userID {
			return ErrAlreadyLiked
		}
	}
	r.likes[productID] = append(r.likes[productID], userID)
	r.order = append(r.order, like{userID: userID, productID: productID})
	return nil
}

func (r *InMemoryRepository) Unlike(userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.likes[productID]
	for i, uid := range users {
		if uid != userID {
			continue
		}
		rest := append(append([]int{}, users[:i]...), users[i+1:]...)
		if len(rest) == 0 {
			delete(r.likes, productID)
		} else {
			r.likes[productID] = rest
		}
		for j, l := range r.order {
			if l.userID == userID && l.productID == productID {
				r.order = append(r.order[:j], r.order[j+1:]...)
				break
			}
		}
		return nil
	}
	return ErrNotLiked
}

func (r *InMemoryRepository) LikedProductIDs(userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []int{}
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.order[i].userID == userID {
			out = append(out, r.order[i].productID)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) LikedBy(productIDs []int) (map[int][]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int][]int, len(productIDs))
	for _, id := range productIDs {
		if users, ok := r.likes[id]; ok {
			out[id] = append([]int{}, users...)
		}
	}
	return out, nil
}
