package repositories

import (
	"melochei/internal/models"
)

// DeliveryZoneRepository defines the interface for delivery zone data access.
type DeliveryZoneRepository interface {
	GetAll() ([]models.DeliveryZone, error)
	GetByID(id string) (*models.DeliveryZone, error)
	Create(zone *models.DeliveryZone) error
	Update(zone *models.DeliveryZone) error
	Delete(id string) error
}
