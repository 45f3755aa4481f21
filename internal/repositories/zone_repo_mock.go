package repositories

import (
	"fmt"
	"sync"

	"melochei/internal/models"

	"github.com/google/uuid"
)

// MockDeliveryZoneRepository is an in-memory implementation of DeliveryZoneRepository.
type MockDeliveryZoneRepository struct {
	zones map[string]models.DeliveryZone
	mu    sync.RWMutex
}

// NewMockDeliveryZoneRepository creates a new instance of MockDeliveryZoneRepository.
func NewMockDeliveryZoneRepository() *MockDeliveryZoneRepository {
	return &MockDeliveryZoneRepository{
		zones: make(map[string]models.DeliveryZone),
	}
}

// GetAll returns all delivery zones.
func (r *MockDeliveryZoneRepository) GetAll() ([]models.DeliveryZone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zoneList := make([]models.DeliveryZone, 0, len(r.zones))
	for _, z := range r.zones {
		zoneList = append(zoneList, z)
	}
	return zoneList, nil
}

// GetByID returns a delivery zone by its ID.
func (r *MockDeliveryZoneRepository) GetByID(id string) (*models.DeliveryZone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	zone, ok := r.zones[id]
	if !ok {
		return nil, fmt.Errorf("delivery zone with ID %s not found", id)
	}
	return &zone, nil
}

// Create adds a new delivery zone.
func (r *MockDeliveryZoneRepository) Create(zone *models.DeliveryZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if zone.ID == "" {
		zone.ID = uuid.New().String()
	}
	r.zones[zone.ID] = *zone
	return nil
}

// Update modifies an existing delivery zone.
func (r *MockDeliveryZoneRepository) Update(zone *models.DeliveryZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.zones[zone.ID]
	if !ok {
		return fmt.Errorf("delivery zone with ID %s not found for update", zone.ID)
	}
	r.zones[zone.ID] = *zone
	return nil
}

// Delete removes a delivery zone by its ID.
func (r *MockDeliveryZoneRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.zones[id]
	if !ok {
		return fmt.Errorf("delivery zone with ID %s not found for deletion", id)
	}
	delete(r.zones, id)
	return nil
}
