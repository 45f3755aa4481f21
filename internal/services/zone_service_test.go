package services_test

import (
	"testing"
	"time"

	"melochei/internal/models"
	"melochei/internal/repositories"
	"melochei/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryZoneService_QuoteFee(t *testing.T) {
	repo := repositories.NewMockDeliveryZoneRepository()
	service := services.NewDeliveryZoneService(repo)

	assert.NoError(t, repo.Create(&models.DeliveryZone{
		ID:                    "zone-1",
		Name:                  "Center",
		BaseFee:               decimal.NewFromInt(1500),
		FreeDeliveryThreshold: decimal.NullDecimal{Decimal: decimal.NewFromInt(20000), Valid: true},
	}))

	fee, err := service.QuoteFee("zone-1", decimal.NewFromInt(19999))
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(fee))

	fee, err = service.QuoteFee("zone-1", decimal.NewFromInt(20000))
	assert.NoError(t, err)
	assert.True(t, fee.IsZero())

	_, err = service.QuoteFee("missing", decimal.NewFromInt(100))
	assert.Error(t, err)
}

func TestDeliveryZoneService_IsDeliveryAvailable(t *testing.T) {
	service := services.NewDeliveryZoneService(repositories.NewMockDeliveryZoneRepository())

	zone := models.DeliveryZone{
		AllowedWeekdays:   models.IntList{1, 2, 3, 4, 5},
		DeliveryHourStart: 9,
		DeliveryHourEnd:   18,
	}

	// 2026-03-16 is a Monday
	monday := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	assert.True(t, service.IsDeliveryAvailable(zone, monday))

	// Sunday maps to ISO weekday 7, which this zone does not serve
	sunday := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.False(t, service.IsDeliveryAvailable(zone, sunday))

	// Outside the hour window
	lateMonday := time.Date(2026, 3, 16, 20, 0, 0, 0, time.UTC)
	assert.False(t, service.IsDeliveryAvailable(zone, lateMonday))

	// The closing hour itself is still admitted
	closingMonday := time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC)
	assert.True(t, service.IsDeliveryAvailable(zone, closingMonday))
}

func TestDeliveryZoneService_CreateValidatesWindow(t *testing.T) {
	service := services.NewDeliveryZoneService(repositories.NewMockDeliveryZoneRepository())

	err := service.CreateZone(&models.DeliveryZone{
		Name:              "Backwards",
		DeliveryHourStart: 18,
		DeliveryHourEnd:   9,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is after end")

	err = service.CreateZone(&models.DeliveryZone{
		Name:            "Bad weekday",
		AllowedWeekdays: models.IntList{0, 3},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid weekday")
}
