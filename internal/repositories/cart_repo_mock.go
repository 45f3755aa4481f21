package repositories

import (
	"fmt"
	"sync"

	"melochei/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by owner ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByOwner returns the cart belonging to an owner.
func (r *MockCartRepository) GetByOwner(ownerID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		return nil, fmt.Errorf("cart for owner %s not found", ownerID)
	}
	return &cart, nil
}

// Save upserts the cart, keyed by owner.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	r.carts[cart.OwnerID] = *cart
	return nil
}

// Delete removes the cart belonging to an owner.
func (r *MockCartRepository) Delete(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	return nil
}
