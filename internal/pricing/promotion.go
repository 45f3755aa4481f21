package pricing

import (
	"math"
	"time"

	"melochei/internal/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Engine evaluates promotion rules against products and prices.
type Engine struct{}

// NewEngine creates a new promotion Engine.
func NewEngine() Engine {
	return Engine{}
}

// IsCurrentlyActive reports whether the promotion is switched on and now
// falls inside [StartAt, EndAt]. A missing EndAt means the promotion never
// expires. Both boundaries are inclusive.
func (Engine) IsCurrentlyActive(p models.Promotion, now time.Time) bool {
	if !p.Active {
		return false
	}
	if now.Before(p.StartAt) {
		return false
	}
	if p.EndAt != nil && now.After(*p.EndAt) {
		return false
	}
	return true
}

// AppliesTo reports whether the promotion discounts the given product right
// now. Exclusions are checked first; then the targeting fields in precedence
// order: a set ProductID wins over a set CategoryID, which wins over an
// explicit ProductIDs list. With no targeting field set the promotion covers
// every product.
func (e Engine) AppliesTo(p models.Promotion, product models.ProductSnapshot, now time.Time) bool {
	if !e.IsCurrentlyActive(p, now) {
		return false
	}
	if p.ExcludedProductIDs.Contains(product.ID) {
		return false
	}
	if p.ProductID != "" {
		return p.ProductID == product.ID
	}
	if p.CategoryID != "" {
		return p.CategoryID == product.CategoryID
	}
	if len(p.ProductIDs) > 0 {
		return p.ProductIDs.Contains(product.ID)
	}
	return true
}

// DiscountAmount returns how much the promotion takes off the given price.
// Percent promotions take price*value/100; fixed promotions take their value
// capped at the price itself so the result never goes negative. Any other
// kind (including free_shipping, which discounts the fee, not the item)
// yields zero.
func (Engine) DiscountAmount(p models.Promotion, price decimal.Decimal) decimal.Decimal {
	switch p.Kind {
	case models.DiscountKindPercent:
		return price.Mul(p.Value).Div(oneHundred)
	case models.DiscountKindFixed:
		if p.Value.GreaterThan(price) {
			return price
		}
		return p.Value
	default:
		return decimal.Zero
	}
}

// DiscountedPrice returns the price after the promotion, clamped at zero.
func (e Engine) DiscountedPrice(p models.Promotion, price decimal.Decimal) decimal.Decimal {
	result := price.Sub(e.DiscountAmount(p, price))
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// MeetsOrderMinimums reports whether an order with the given subtotal and
// total item quantity satisfies the promotion's minimum-order conditions.
func (Engine) MeetsOrderMinimums(p models.Promotion, subtotal decimal.Decimal, quantity int) bool {
	if p.MinOrderAmount.Valid && subtotal.LessThan(p.MinOrderAmount.Decimal) {
		return false
	}
	if p.MinQuantity > 0 && quantity < p.MinQuantity {
		return false
	}
	return true
}

// RemainingDays returns the number of whole days until the promotion ends,
// or nil when it has no end date. The value is negative once the promotion
// has expired; callers must treat negative as "expired", not hide it.
func (Engine) RemainingDays(p models.Promotion, now time.Time) *int {
	if p.EndAt == nil {
		return nil
	}
	days := int(math.Floor(p.EndAt.Sub(now).Hours() / 24))
	return &days
}
