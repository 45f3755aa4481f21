package pricing

import (
	"melochei/internal/models"

	"github.com/shopspring/decimal"
)

// CatalogLookup resolves a product id to its current catalog snapshot, or
// nil when the product no longer exists. The surrounding repository layer
// supplies it; reconciliation itself performs no I/O.
type CatalogLookup func(productID string) *models.ProductSnapshot

// Reconciler merges and revalidates cart item lists. All methods are
// copy-on-write: returned slices never alias their inputs.
type Reconciler struct {
	calc Calculator
}

// NewReconciler creates a new Reconciler.
func NewReconciler() Reconciler {
	return Reconciler{calc: NewCalculator()}
}

// MergeCartItems merges a local (offline) item list into the remote cart's
// item list. The remote order is preserved; quantities of matching product
// ids are summed and clamped to the remote item's AvailableQuantity; local
// items with no remote counterpart are appended unchanged. Note the clamp
// uses the remote line's stored availability, which may be stale; callers
// that need fresh stock run ReconcileAgainstCatalog on the result.
func (Reconciler) MergeCartItems(remoteItems, localItems []models.CartItem) []models.CartItem {
	merged := make([]models.CartItem, len(remoteItems))
	copy(merged, remoteItems)

	for _, local := range localItems {
		idx := -1
		for i := range merged {
			if merged[i].ProductID == local.ProductID {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, local)
			continue
		}
		sum := merged[idx].Quantity + local.Quantity
		if sum > merged[idx].AvailableQuantity {
			sum = merged[idx].AvailableQuantity
		}
		merged[idx].Quantity = sum
	}
	return merged
}

// ReconcileAgainstCatalog revalidates cart items against current catalog
// data. Lines whose product has disappeared are dropped silently; surviving
// lines get their name, image, prices and availability refreshed, with
// quantity clamped to the available stock. The returned flag is true when
// anything the caller would need to persist changed: a dropped line, a
// clamped quantity, or a different price or discount price.
func (Reconciler) ReconcileAgainstCatalog(cartItems []models.CartItem, lookup CatalogLookup) ([]models.CartItem, bool) {
	updated := make([]models.CartItem, 0, len(cartItems))
	changed := false

	for _, item := range cartItems {
		product := lookup(item.ProductID)
		if product == nil {
			changed = true
			continue
		}

		next := item
		next.Name = product.Name
		next.Image = product.Image
		next.Price = product.Price
		next.DiscountPrice = product.DiscountPrice
		next.AvailableQuantity = product.AvailableQuantity
		if next.Quantity > product.AvailableQuantity {
			next.Quantity = product.AvailableQuantity
		}

		if next.Quantity != item.Quantity ||
			!next.Price.Equal(item.Price) ||
			!nullDecimalEqual(next.DiscountPrice, item.DiscountPrice) {
			changed = true
		}
		updated = append(updated, next)
	}
	return updated, changed
}

// ItemsSubtotal sums the effective line subtotals of the given items.
func (r Reconciler) ItemsSubtotal(items []models.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(r.calc.LineSubtotal(item))
	}
	return subtotal
}

func nullDecimalEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return a.Decimal.Equal(b.Decimal)
}
