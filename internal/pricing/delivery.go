package pricing

import (
	"melochei/internal/models"

	"github.com/shopspring/decimal"
)

// ZonePolicy computes delivery fees and availability for a delivery zone.
type ZonePolicy struct{}

// NewZonePolicy creates a new ZonePolicy.
func NewZonePolicy() ZonePolicy {
	return ZonePolicy{}
}

// DeliveryFee returns the fee for delivering an order with the given
// subtotal: zero once the subtotal reaches the zone's free-delivery
// threshold, the base fee otherwise.
func (ZonePolicy) DeliveryFee(zone models.DeliveryZone, orderSubtotal decimal.Decimal) decimal.Decimal {
	if zone.FreeDeliveryThreshold.Valid && orderSubtotal.GreaterThanOrEqual(zone.FreeDeliveryThreshold.Decimal) {
		return decimal.Zero
	}
	return zone.BaseFee
}

// IsDeliveryDayAvailable reports whether the zone delivers on the given ISO
// weekday (Monday=1 .. Sunday=7).
func (ZonePolicy) IsDeliveryDayAvailable(zone models.DeliveryZone, weekday int) bool {
	return zone.AllowedWeekdays.Contains(weekday)
}

// IsDeliveryHourAvailable reports whether the zone delivers at the given
// hour. The range is inclusive on both ends, so the closing hour itself is
// still admitted; this matches the admin tooling's long-standing behavior
// and is kept as-is.
func (ZonePolicy) IsDeliveryHourAvailable(zone models.DeliveryZone, hour int) bool {
	return hour >= zone.DeliveryHourStart && hour <= zone.DeliveryHourEnd
}
