// Package pricing contains the price, promotion, delivery-fee and cart
// reconciliation arithmetic of the store. Everything here is a pure function
// over already-fetched values: no I/O, no shared state, inputs are never
// mutated.
package pricing

import (
	"melochei/internal/models"

	"github.com/shopspring/decimal"
)

// Calculator derives effective unit prices and line totals for cart lines.
type Calculator struct{}

// NewCalculator creates a new Calculator.
func NewCalculator() Calculator {
	return Calculator{}
}

// HasDiscount reports whether the item carries an active discount, i.e. a
// discount price that is set and strictly below the list price.
func (Calculator) HasDiscount(item models.CartItem) bool {
	return item.DiscountPrice.Valid && item.DiscountPrice.Decimal.LessThan(item.Price)
}

// EffectivePrice returns the unit price the customer pays: the discount
// price when an active discount exists, otherwise the list price.
func (c Calculator) EffectivePrice(item models.CartItem) decimal.Decimal {
	if c.HasDiscount(item) {
		return item.DiscountPrice.Decimal
	}
	return item.Price
}

// LineSubtotal returns effective price multiplied by quantity.
func (c Calculator) LineSubtotal(item models.CartItem) decimal.Decimal {
	return c.EffectivePrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// DiscountPercent returns the discount as a whole percentage in [0,100],
// truncated rather than rounded. A missing discount or a non-positive list
// price yields 0 instead of an error.
func (c Calculator) DiscountPercent(item models.CartItem) int {
	if !c.HasDiscount(item) || !item.Price.IsPositive() {
		return 0
	}
	diff := item.Price.Sub(c.EffectivePrice(item))
	return int(diff.Div(item.Price).Mul(decimal.NewFromInt(100)).IntPart())
}
