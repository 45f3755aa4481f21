package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountKind describes how a promotion reduces a price.
type DiscountKind string

const (
	DiscountKindPercent      DiscountKind = "percent"
	DiscountKindFixed        DiscountKind = "fixed"
	DiscountKindFreeShipping DiscountKind = "free_shipping"
)

// StringList is a list of IDs stored as a JSON column.
type StringList []string

// Contains reports whether id is present in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Promotion is a time-windowed discount rule created by admin tooling and
// read-only to the pricing engine. Targeting fields are checked in a fixed
// precedence order: ProductID, then CategoryID, then ProductIDs; when none
// is set the promotion covers the whole catalog.
type Promotion struct {
	ID                 string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name               string              `json:"name" validate:"required,min=3,max=100"`
	Active             bool                `json:"active"`
	StartAt            time.Time           `json:"start_at"`
	EndAt              *time.Time          `json:"end_at,omitempty"`
	Kind               DiscountKind        `json:"kind" gorm:"type:varchar(20)" validate:"required,oneof=percent fixed free_shipping"`
	Value              decimal.Decimal     `json:"value" gorm:"type:decimal(12,2)"`
	ProductID          string              `json:"product_id" gorm:"type:varchar(36)"`
	CategoryID         string              `json:"category_id" gorm:"type:varchar(36)"`
	ProductIDs         StringList          `json:"product_ids" gorm:"serializer:json"`
	ExcludedProductIDs StringList          `json:"excluded_product_ids" gorm:"serializer:json"`
	MinOrderAmount     decimal.NullDecimal `json:"min_order_amount" gorm:"type:decimal(12,2)"`
	MinQuantity        int                 `json:"min_quantity" validate:"gte=0"`
	Priority           int                 `json:"priority"`
	gorm.Model
}
