package repositories

import (
	"melochei/internal/models"
)

// OrderRepository defines the interface for order data access. Order items
// and recorded prices are immutable once created; only the status changes.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
}
