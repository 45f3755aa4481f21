package services

import (
	"fmt"
	"log"
	"time"

	"melochei/internal/models"
	"melochei/internal/pricing"
	"melochei/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher is the slice of the message-queue client the order service
// needs. Satisfied by *rabbitmq.Client.
type EventPublisher interface {
	PublishOrderCreated(orderData map[string]interface{}) error
	PublishOrderStatusChanged(orderData map[string]interface{}) error
}

// CheckoutRequest carries the delivery and payment details for placing an
// order from the caller's current cart.
type CheckoutRequest struct {
	ZoneID        string `json:"zone_id" validate:"required"`
	Address       string `json:"address" validate:"required,min=5,max=300"`
	Phone         string `json:"phone" validate:"required,min=5,max=20"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card"`
}

// validTransitions is the order status state machine. Cancellation is only
// reachable while the order has not shipped.
var validTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipping, models.OrderStatusCancelled},
	models.OrderStatusShipping:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService handles business logic related to orders: checkout from the
// cart, status lifecycle, and cancellation.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	zoneRepo    repositories.DeliveryZoneRepository
	promoRepo   repositories.PromotionRepository
	mqClient    EventPublisher
	reconciler  pricing.Reconciler
	engine      pricing.Engine
	policy      pricing.ZonePolicy
	calc        pricing.Calculator
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	zoneRepo repositories.DeliveryZoneRepository,
	promoRepo repositories.PromotionRepository,
	mqClient EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		zoneRepo:    zoneRepo,
		promoRepo:   promoRepo,
		mqClient:    mqClient,
		reconciler:  pricing.NewReconciler(),
		engine:      pricing.NewEngine(),
		policy:      pricing.NewZonePolicy(),
		calc:        pricing.NewCalculator(),
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByUser retrieves the orders placed by one user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *OrderService) catalogLookup(productID string) *models.ProductSnapshot {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil
	}
	snapshot := product.Snapshot()
	return &snapshot
}

// Checkout places an order from the caller's current cart. The cart is
// revalidated against the catalog first, so stale prices never leak into an
// order, and the items are snapshotted by value: later catalog changes do
// not affect the placed order. On success the cart is cleared and an
// order.created event is published.
func (s *OrderService) Checkout(user CurrentUserContext, req CheckoutRequest) (*models.Order, error) {
	cart, err := s.cartRepo.GetByOwner(user.UserID)
	if err != nil {
		return nil, fmt.Errorf("cart for user %s not found: %w", user.UserID, err)
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	// Revalidate against live catalog data: drop vanished products, refresh
	// prices and clamp quantities to current stock.
	items, _ := s.reconciler.ReconcileAgainstCatalog(cart.Items, s.catalogLookup)
	if len(items) == 0 {
		return nil, fmt.Errorf("no items in cart are still available")
	}

	// 1. Validate stock and build the order item snapshot.
	var processedItems models.OrderItems
	totalQuantity := 0
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("insufficient stock for product %s (available: %d)", item.Name, item.AvailableQuantity)
		}
		processedItems = append(processedItems, models.OrderItem{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			Price:         s.calc.EffectivePrice(item), // Price at the time of order creation
			DiscountPrice: item.DiscountPrice,
			Quantity:      item.Quantity,
		})
		totalQuantity += item.Quantity
	}
	subtotal := s.reconciler.ItemsSubtotal(items)

	// 2. Resolve the delivery zone and its constraints.
	zone, err := s.zoneRepo.GetByID(req.ZoneID)
	if err != nil {
		return nil, fmt.Errorf("delivery zone %s not found: %w", req.ZoneID, err)
	}
	if subtotal.LessThan(zone.MinOrderAmount) {
		return nil, fmt.Errorf("order subtotal %s is below the zone minimum of %s", subtotal, zone.MinOrderAmount)
	}

	deliveryFee := s.policy.DeliveryFee(*zone, subtotal)
	deliveryFee = s.applyFreeShippingPromotions(deliveryFee, subtotal, totalQuantity)

	// 3. Create and persist the order.
	newOrder := &models.Order{
		ID:            uuid.New().String(),
		UserID:        user.UserID,
		Items:         processedItems,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Total:         subtotal.Add(deliveryFee),
		Status:        models.OrderStatusPending,
		ZoneID:        zone.ID,
		Address:       req.Address,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	// 4. Decrement stock for the ordered quantities.
	for _, item := range newOrder.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			log.Printf("Warning: could not load product %s for stock decrement: %v", item.ProductID, err)
			continue
		}
		product.Stock -= item.Quantity
		if product.Stock < 0 {
			product.Stock = 0
		}
		if err := s.productRepo.Update(product); err != nil {
			log.Printf("Warning: could not decrement stock for product %s: %v", item.ProductID, err)
		}
	}

	// 5. Clear the cart; the order now owns the items by value.
	if err := s.cartRepo.Delete(user.UserID); err != nil {
		log.Printf("Warning: failed to clear cart for user %s after checkout: %v", user.UserID, err)
	}

	// 6. Publish an event for order creation.
	if s.mqClient != nil {
		event := map[string]interface{}{
			"orderID": newOrder.ID,
			"userID":  newOrder.UserID,
			"status":  string(newOrder.Status),
			"total":   newOrder.Total.String(),
		}
		if err := s.mqClient.PublishOrderCreated(event); err != nil {
			log.Printf("Warning: Failed to publish order created event for order %s: %v", newOrder.ID, err)
		} else {
			log.Printf("Successfully published order created event for order %s", newOrder.ID)
		}
	} else {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
	}

	return newOrder, nil
}

// applyFreeShippingPromotions zeroes the delivery fee when an active
// free_shipping promotion's order minimums are met.
func (s *OrderService) applyFreeShippingPromotions(fee decimal.Decimal, subtotal decimal.Decimal, quantity int) decimal.Decimal {
	if fee.IsZero() {
		return fee
	}
	promotions, err := s.promoRepo.GetActive(time.Now())
	if err != nil {
		log.Printf("Warning: could not load promotions for delivery fee check: %v", err)
		return fee
	}
	for _, promo := range promotions {
		if promo.Kind != models.DiscountKindFreeShipping {
			continue
		}
		if s.engine.MeetsOrderMinimums(promo, subtotal, quantity) {
			return decimal.Zero
		}
	}
	return fee
}

// UpdateOrderStatus moves an order along its lifecycle. Transitions outside
// the state machine are rejected.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !canTransition(order.Status, status) {
		return fmt.Errorf("invalid order status transition from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	if s.mqClient != nil {
		event := map[string]interface{}{
			"orderID": id,
			"userID":  order.UserID,
			"status":  string(status),
		}
		if err := s.mqClient.PublishOrderStatusChanged(event); err != nil {
			log.Printf("Warning: Failed to publish status change event for order %s: %v", id, err)
		}
	}
	return nil
}

// CancelOrder cancels an order on behalf of its owner. Only orders that
// have not shipped yet (pending or processing) can be cancelled.
func (s *OrderService) CancelOrder(user CurrentUserContext, id string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order.UserID != user.UserID && !user.IsAdmin() {
		return fmt.Errorf("order %s does not belong to user %s", id, user.UserID)
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
		return fmt.Errorf("order %s cannot be cancelled in status %s", id, order.Status)
	}
	return s.UpdateOrderStatus(id, models.OrderStatusCancelled)
}
