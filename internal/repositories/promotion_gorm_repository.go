package repositories

import (
	"fmt"
	"time"

	"melochei/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new instance of GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{
		db: db,
	}
}

// GetAll retrieves all promotions from the database.
func (r *GORMPromotionRepository) GetAll() ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.Find(&promotions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all promotions: %w", err)
	}
	return promotions, nil
}

// GetActive retrieves promotions whose flag is on and whose time window
// contains now. A NULL end_at means the promotion never expires.
func (r *GORMPromotionRepository) GetActive(now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	err := r.db.
		Where("active = ? AND start_at <= ? AND (end_at IS NULL OR end_at >= ?)", true, now, now).
		Find(&promotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active promotions: %w", err)
	}
	return promotions, nil
}

// GetByID retrieves a single promotion by its ID from the database.
func (r *GORMPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.First(&promotion, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("promotion with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get promotion by ID %s: %w", id, err)
	}
	return &promotion, nil
}

// Create creates a new promotion in the database.
func (r *GORMPromotionRepository) Create(promotion *models.Promotion) error {
	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if err := r.db.Create(promotion).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

// Update updates an existing promotion in the database.
func (r *GORMPromotionRepository) Update(promotion *models.Promotion) error {
	res := r.db.Save(promotion)
	if res.Error != nil {
		return fmt.Errorf("failed to update promotion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("promotion with ID %s not found for update", promotion.ID)
	}
	return nil
}

// Delete removes a promotion by its ID from the database.
func (r *GORMPromotionRepository) Delete(id string) error {
	res := r.db.Delete(&models.Promotion{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete promotion %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("promotion with ID %s not found for deletion", id)
	}
	return nil
}
