package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IntList is a list of integers stored as a JSON column.
type IntList []int

// Contains reports whether n is present in the list.
func (l IntList) Contains(n int) bool {
	for _, v := range l {
		if v == n {
			return true
		}
	}
	return false
}

// FeeMap maps a surcharge tag (e.g. "lift", "outside_city") to an extra fee.
type FeeMap map[string]decimal.Decimal

// DeliveryZone bundles the delivery configuration for a coverage area:
// base fee, free-delivery threshold, minimum order amount and the allowed
// delivery window. AllowedWeekdays uses ISO numbering (Monday=1 .. Sunday=7).
// HourStart <= HourEnd is the caller's responsibility; the zone service
// validates it when zones are created or updated.
type DeliveryZone struct {
	ID                    string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name                  string              `json:"name" validate:"required,min=2,max=100"`
	BaseFee               decimal.Decimal     `json:"base_fee" gorm:"type:decimal(12,2)"`
	FreeDeliveryThreshold decimal.NullDecimal `json:"free_delivery_threshold" gorm:"type:decimal(12,2)"`
	MinOrderAmount        decimal.Decimal     `json:"min_order_amount" gorm:"type:decimal(12,2)"`
	AllowedWeekdays       IntList             `json:"allowed_weekdays" gorm:"serializer:json" validate:"dive,min=1,max=7"`
	DeliveryHourStart     int                 `json:"delivery_hour_start" validate:"gte=0,lt=24"`
	DeliveryHourEnd       int                 `json:"delivery_hour_end" validate:"gte=0,lt=24"`
	AdditionalFees        FeeMap              `json:"additional_fees" gorm:"serializer:json"`
	gorm.Model
}
