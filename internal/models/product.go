package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a product in the store catalog.
// Price is the list price; DiscountPrice, when set and lower than Price,
// is the price customers actually pay.
type Product struct {
	ID             string              `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string              `json:"name" validate:"required,min=3,max=100"`
	Description    string              `json:"description" validate:"omitempty,max=500"`
	CategoryID     string              `json:"category_id" gorm:"index;type:varchar(36)"`
	Price          decimal.Decimal     `json:"price" gorm:"type:decimal(12,2)"`
	DiscountPrice  decimal.NullDecimal `json:"discount_price" gorm:"type:decimal(12,2)"`
	Stock          int                 `json:"stock" validate:"gte=0"`
	Image          string              `json:"image" validate:"omitempty,max=500"`
	Specifications StringMap           `json:"specifications" gorm:"serializer:json"`
	gorm.Model                         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// StringMap is a free-form string-to-string attribute map stored as JSON.
type StringMap map[string]string

// ProductSnapshot is the read-only view of a product used by cart
// reconciliation and promotion targeting. AvailableQuantity mirrors Stock.
type ProductSnapshot struct {
	ID                string              `json:"id"`
	CategoryID        string              `json:"category_id"`
	Name              string              `json:"name"`
	Image             string              `json:"image"`
	Price             decimal.Decimal     `json:"price"`
	DiscountPrice     decimal.NullDecimal `json:"discount_price"`
	AvailableQuantity int                 `json:"available_quantity"`
}

// Snapshot returns the product's current catalog view.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		Name:              p.Name,
		Image:             p.Image,
		Price:             p.Price,
		DiscountPrice:     p.DiscountPrice,
		AvailableQuantity: p.Stock,
	}
}
