package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
// Valid transitions are pending -> processing -> shipping -> delivered ->
// completed, with cancellation possible from pending or processing only.
// Transition guards live in the order service, not in this type.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderItem is a by-value snapshot of a cart line taken at placement time.
// Later catalog price changes never affect a placed order.
type OrderItem struct {
	ProductID     string              `json:"product_id"`
	Name          string              `json:"name"`
	Image         string              `json:"image"`
	Price         decimal.Decimal     `json:"price"` // Effective unit price at the time of order
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Quantity      int                 `json:"quantity"`
	Attributes    StringMap           `json:"attributes"`
}

// OrderItems is stored as a JSON column.
type OrderItems []OrderItem

// Order represents a placed customer order.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         OrderItems      `json:"items" gorm:"serializer:json"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2)"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(12,2)"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	ZoneID        string          `json:"zone_id" gorm:"type:varchar(36)"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
