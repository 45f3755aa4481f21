package services

import (
	"fmt"
	"time"

	"melochei/internal/models"
	"melochei/internal/pricing"
	"melochei/internal/repositories"

	"github.com/shopspring/decimal"
)

// DeliveryZoneService handles admin management of delivery zones and quotes
// delivery fees and availability for checkout.
type DeliveryZoneService struct {
	repo   repositories.DeliveryZoneRepository
	policy pricing.ZonePolicy
}

// NewDeliveryZoneService creates a new DeliveryZoneService.
func NewDeliveryZoneService(repo repositories.DeliveryZoneRepository) *DeliveryZoneService {
	return &DeliveryZoneService{
		repo:   repo,
		policy: pricing.NewZonePolicy(),
	}
}

// GetAllZones retrieves all delivery zones.
func (s *DeliveryZoneService) GetAllZones() ([]models.DeliveryZone, error) {
	return s.repo.GetAll()
}

// GetZoneByID retrieves a single delivery zone by its ID.
func (s *DeliveryZoneService) GetZoneByID(id string) (*models.DeliveryZone, error) {
	return s.repo.GetByID(id)
}

// CreateZone creates a new delivery zone.
func (s *DeliveryZoneService) CreateZone(zone *models.DeliveryZone) error {
	if err := validateZoneWindow(zone); err != nil {
		return fmt.Errorf("invalid delivery zone: %w", err)
	}
	return s.repo.Create(zone)
}

// UpdateZone updates an existing delivery zone.
func (s *DeliveryZoneService) UpdateZone(zone *models.DeliveryZone) error {
	if err := validateZoneWindow(zone); err != nil {
		return fmt.Errorf("invalid delivery zone: %w", err)
	}
	return s.repo.Update(zone)
}

// DeleteZone deletes a delivery zone by its ID.
func (s *DeliveryZoneService) DeleteZone(id string) error {
	return s.repo.Delete(id)
}

// QuoteFee returns the delivery fee the zone charges for an order subtotal.
func (s *DeliveryZoneService) QuoteFee(zoneID string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	zone, err := s.repo.GetByID(zoneID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.policy.DeliveryFee(*zone, subtotal), nil
}

// IsDeliveryAvailable reports whether the zone delivers at the given moment.
func (s *DeliveryZoneService) IsDeliveryAvailable(zone models.DeliveryZone, at time.Time) bool {
	weekday := int(at.Weekday())
	if weekday == 0 {
		weekday = 7 // time.Sunday is 0, zones use ISO numbering
	}
	return s.policy.IsDeliveryDayAvailable(zone, weekday) &&
		s.policy.IsDeliveryHourAvailable(zone, at.Hour())
}

// The zone policy itself assumes HourStart <= HourEnd; admin writes are the
// place where that assumption is enforced.
func validateZoneWindow(zone *models.DeliveryZone) error {
	if zone.DeliveryHourStart > zone.DeliveryHourEnd {
		return fmt.Errorf("delivery hour start %d is after end %d", zone.DeliveryHourStart, zone.DeliveryHourEnd)
	}
	for _, day := range zone.AllowedWeekdays {
		if day < 1 || day > 7 {
			return fmt.Errorf("invalid weekday %d: must be in 1..7", day)
		}
	}
	return nil
}
