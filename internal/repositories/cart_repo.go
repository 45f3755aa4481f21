package repositories

import (
	"melochei/internal/models"
)

// CartRepository defines the interface for cart data access. Each owner has
// at most one cart; Save upserts it.
type CartRepository interface {
	GetByOwner(ownerID string) (*models.Cart, error)
	Save(cart *models.Cart) error
	Delete(ownerID string) error
}
