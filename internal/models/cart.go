package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem represents a single line in a shopping cart. Price and
// DiscountPrice are copies of the catalog values from the moment the item
// was added; reconciliation refreshes them.
type CartItem struct {
	ProductID         string              `json:"product_id" validate:"required"`
	Name              string              `json:"name"`
	Image             string              `json:"image"`
	Price             decimal.Decimal     `json:"price"`
	DiscountPrice     decimal.NullDecimal `json:"discount_price"`
	Quantity          int                 `json:"quantity" validate:"gt=0"`
	AvailableQuantity int                 `json:"available_quantity"`
}

// CartItems is an ordered list of cart lines stored as a JSON column.
type CartItems []CartItem

// Cart represents a customer's shopping cart. Subtotal, DeliveryFee and
// Total are recomputed by the cart service on every mutation; stored values
// are never trusted without revalidation.
type Cart struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string          `json:"owner_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items       CartItems       `json:"items" gorm:"serializer:json"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(12,2)"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
