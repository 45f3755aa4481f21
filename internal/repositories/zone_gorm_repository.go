package repositories

import (
	"fmt"

	"melochei/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMDeliveryZoneRepository is a GORM implementation of DeliveryZoneRepository.
type GORMDeliveryZoneRepository struct {
	db *gorm.DB
}

// NewGORMDeliveryZoneRepository creates a new instance of GORMDeliveryZoneRepository.
func NewGORMDeliveryZoneRepository(db *gorm.DB) *GORMDeliveryZoneRepository {
	return &GORMDeliveryZoneRepository{
		db: db,
	}
}

// GetAll retrieves all delivery zones from the database.
func (r *GORMDeliveryZoneRepository) GetAll() ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := r.db.Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to get all delivery zones: %w", err)
	}
	return zones, nil
}

// GetByID retrieves a single delivery zone by its ID from the database.
func (r *GORMDeliveryZoneRepository) GetByID(id string) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.First(&zone, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("delivery zone with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get delivery zone by ID %s: %w", id, err)
	}
	return &zone, nil
}

// Create creates a new delivery zone in the database.
func (r *GORMDeliveryZoneRepository) Create(zone *models.DeliveryZone) error {
	if zone.ID == "" {
		zone.ID = uuid.New().String()
	}
	if err := r.db.Create(zone).Error; err != nil {
		return fmt.Errorf("failed to create delivery zone: %w", err)
	}
	return nil
}

// Update updates an existing delivery zone in the database.
func (r *GORMDeliveryZoneRepository) Update(zone *models.DeliveryZone) error {
	res := r.db.Save(zone)
	if res.Error != nil {
		return fmt.Errorf("failed to update delivery zone: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delivery zone with ID %s not found for update", zone.ID)
	}
	return nil
}

// Delete removes a delivery zone by its ID from the database.
func (r *GORMDeliveryZoneRepository) Delete(id string) error {
	res := r.db.Delete(&models.DeliveryZone{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete delivery zone %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delivery zone with ID %s not found for deletion", id)
	}
	return nil
}
