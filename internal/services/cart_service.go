package services

import (
	"fmt"
	"time"

	"melochei/internal/models"
	"melochei/internal/pricing"
	"melochei/internal/repositories"

	"github.com/google/uuid"
)

// CartService handles business logic for shopping carts: line mutations,
// merging the offline cart at login, revalidation against the catalog, and
// recomputing totals. Stored subtotal/total values are never trusted; they
// are recomputed on every read that mutates.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	calc        pricing.Calculator
	reconciler  pricing.Reconciler
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		calc:        pricing.NewCalculator(),
		reconciler:  pricing.NewReconciler(),
	}
}

// catalogLookup adapts the product repository to the reconciler's lookup.
func (s *CartService) catalogLookup(productID string) *models.ProductSnapshot {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil
	}
	snapshot := product.Snapshot()
	return &snapshot
}

// GetCart returns the caller's cart, creating an empty one on first use.
// The returned cart has been revalidated against the catalog; it is written
// back only when the revalidation actually changed something.
func (s *CartService) GetCart(user CurrentUserContext) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByOwner(user.UserID)
	if err != nil {
		cart = &models.Cart{
			ID:      uuid.New().String(),
			OwnerID: user.UserID,
			Items:   models.CartItems{},
		}
		s.recomputeTotals(cart)
		if err := s.cartRepo.Save(cart); err != nil {
			return nil, fmt.Errorf("failed to create cart for user %s: %w", user.UserID, err)
		}
		return cart, nil
	}

	items, changed := s.reconciler.ReconcileAgainstCatalog(cart.Items, s.catalogLookup)
	if changed {
		cart.Items = items
		s.recomputeTotals(cart)
		if err := s.cartRepo.Save(cart); err != nil {
			return nil, fmt.Errorf("failed to persist reconciled cart for user %s: %w", user.UserID, err)
		}
	}
	return cart, nil
}

// AddItem adds a product to the cart, or bumps its quantity when already
// present. The quantity is clamped to the product's current stock.
func (s *CartService) AddItem(user CurrentUserContext, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}
	if product.Stock <= 0 {
		return nil, fmt.Errorf("product %s is out of stock", product.Name)
	}

	cart, err := s.GetCart(user)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			sum := cart.Items[i].Quantity + quantity
			if sum > product.Stock {
				sum = product.Stock
			}
			cart.Items[i].Quantity = sum
			cart.Items[i].AvailableQuantity = product.Stock
			found = true
			break
		}
	}
	if !found {
		if quantity > product.Stock {
			quantity = product.Stock
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID:         product.ID,
			Name:              product.Name,
			Image:             product.Image,
			Price:             product.Price,
			DiscountPrice:     product.DiscountPrice,
			Quantity:          quantity,
			AvailableQuantity: product.Stock,
		})
	}

	s.recomputeTotals(cart)
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save cart for user %s: %w", user.UserID, err)
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line, clamped to the product's
// current stock. A quantity of zero removes the line.
func (s *CartService) UpdateQuantity(user CurrentUserContext, productID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative, got %d", quantity)
	}
	if quantity == 0 {
		return s.RemoveItem(user, productID)
	}

	cart, err := s.GetCart(user)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID != productID {
			continue
		}
		if product, err := s.productRepo.GetByID(productID); err == nil {
			cart.Items[i].AvailableQuantity = product.Stock
		}
		if quantity > cart.Items[i].AvailableQuantity {
			quantity = cart.Items[i].AvailableQuantity
		}
		cart.Items[i].Quantity = quantity

		s.recomputeTotals(cart)
		if err := s.cartRepo.Save(cart); err != nil {
			return nil, fmt.Errorf("failed to save cart for user %s: %w", user.UserID, err)
		}
		return cart, nil
	}
	return nil, fmt.Errorf("product %s not in cart", productID)
}

// RemoveItem removes a product's line from the cart.
func (s *CartService) RemoveItem(user CurrentUserContext, productID string) (*models.Cart, error) {
	cart, err := s.GetCart(user)
	if err != nil {
		return nil, err
	}

	items := make(models.CartItems, 0, len(cart.Items))
	removed := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		items = append(items, item)
	}
	if !removed {
		return nil, fmt.Errorf("product %s not in cart", productID)
	}

	cart.Items = items
	s.recomputeTotals(cart)
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save cart for user %s: %w", user.UserID, err)
	}
	return cart, nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(user CurrentUserContext) error {
	if err := s.cartRepo.Delete(user.UserID); err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", user.UserID, err)
	}
	return nil
}

// MergeLocalItems merges a client's offline cart into the stored cart at
// login time. The remote line order is preserved and quantities of matching
// products are summed; the merged result is then revalidated against the
// catalog so stale prices and stock are refreshed before it is persisted.
func (s *CartService) MergeLocalItems(user CurrentUserContext, localItems []models.CartItem) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByOwner(user.UserID)
	if err != nil {
		cart = &models.Cart{
			ID:      uuid.New().String(),
			OwnerID: user.UserID,
			Items:   models.CartItems{},
		}
	}

	merged := s.reconciler.MergeCartItems(cart.Items, localItems)
	reconciled, _ := s.reconciler.ReconcileAgainstCatalog(merged, s.catalogLookup)

	cart.Items = reconciled
	s.recomputeTotals(cart)
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save merged cart for user %s: %w", user.UserID, err)
	}
	return cart, nil
}

// recomputeTotals refreshes the cart's derived money fields. The delivery
// fee is owned by checkout (it depends on the chosen zone), so here the
// total is subtotal plus whatever fee was last quoted.
func (s *CartService) recomputeTotals(cart *models.Cart) {
	cart.Subtotal = s.reconciler.ItemsSubtotal(cart.Items)
	cart.Total = cart.Subtotal.Add(cart.DeliveryFee)
	cart.UpdatedAt = time.Now()
}
