package pricing_test

import (
	"testing"

	"melochei/internal/models"
	"melochei/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestZonePolicy_DeliveryFee(t *testing.T) {
	policy := pricing.NewZonePolicy()

	zone := models.DeliveryZone{
		BaseFee:               money(1500),
		FreeDeliveryThreshold: someMoney(20000),
	}

	// Just below the threshold pays the base fee; at the threshold it's free
	assert.True(t, money(1500).Equal(policy.DeliveryFee(zone, money(19999))))
	assert.True(t, decimal.Zero.Equal(policy.DeliveryFee(zone, money(20000))))
	assert.True(t, decimal.Zero.Equal(policy.DeliveryFee(zone, money(50000))))

	// No threshold set: always the base fee
	zone = models.DeliveryZone{BaseFee: money(1500)}
	assert.True(t, money(1500).Equal(policy.DeliveryFee(zone, money(1000000))))
}

func TestZonePolicy_FeeIsMonotonicallyNonIncreasing(t *testing.T) {
	policy := pricing.NewZonePolicy()

	zone := models.DeliveryZone{
		BaseFee:               money(1500),
		FreeDeliveryThreshold: someMoney(20000),
	}

	prev := policy.DeliveryFee(zone, money(0))
	for _, subtotal := range []int64{100, 19999, 20000, 20001, 99999} {
		fee := policy.DeliveryFee(zone, money(subtotal))
		assert.True(t, fee.LessThanOrEqual(prev),
			"fee must not increase as subtotal grows (subtotal=%d)", subtotal)
		prev = fee
	}
}

func TestZonePolicy_DeliveryDayAvailability(t *testing.T) {
	policy := pricing.NewZonePolicy()

	zone := models.DeliveryZone{AllowedWeekdays: models.IntList{1, 2, 3, 4, 5}}
	assert.True(t, policy.IsDeliveryDayAvailable(zone, 1))
	assert.True(t, policy.IsDeliveryDayAvailable(zone, 5))
	assert.False(t, policy.IsDeliveryDayAvailable(zone, 6))
	assert.False(t, policy.IsDeliveryDayAvailable(zone, 7))
}

func TestZonePolicy_DeliveryHourAvailability(t *testing.T) {
	policy := pricing.NewZonePolicy()

	zone := models.DeliveryZone{DeliveryHourStart: 9, DeliveryHourEnd: 18}
	assert.False(t, policy.IsDeliveryHourAvailable(zone, 8))
	assert.True(t, policy.IsDeliveryHourAvailable(zone, 9))
	assert.True(t, policy.IsDeliveryHourAvailable(zone, 12))
	// The closing hour itself is admitted: the range is inclusive on both ends
	assert.True(t, policy.IsDeliveryHourAvailable(zone, 18))
	assert.False(t, policy.IsDeliveryHourAvailable(zone, 19))
}
