package repositories

import (
	"time"

	"melochei/internal/models"
)

// PromotionRepository defines the interface for promotion data access.
type PromotionRepository interface {
	GetAll() ([]models.Promotion, error)
	GetActive(now time.Time) ([]models.Promotion, error)
	GetByID(id string) (*models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	Delete(id string) error
}
