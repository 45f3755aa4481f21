package repositories

import (
	"fmt"

	"melochei/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByOwner retrieves the cart belonging to an owner.
func (r *GORMCartRepository) GetByOwner(ownerID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, "owner_id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for owner %s not found", ownerID)
		}
		return nil, fmt.Errorf("failed to get cart for owner %s: %w", ownerID, err)
	}
	return &cart, nil
}

// Save upserts the cart, keyed by owner.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		UpdateAll: true,
	}).Create(cart).Error
	if err != nil {
		return fmt.Errorf("failed to save cart for owner %s: %w", cart.OwnerID, err)
	}
	return nil
}

// Delete removes the cart belonging to an owner.
func (r *GORMCartRepository) Delete(ownerID string) error {
	if err := r.db.Delete(&models.Cart{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete cart for owner %s: %w", ownerID, err)
	}
	return nil
}
