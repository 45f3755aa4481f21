package pricing_test

import (
	"testing"
	"time"

	"melochei/internal/models"
	"melochei/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEngine_IsCurrentlyActive(t *testing.T) {
	engine := pricing.NewEngine()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	end := now.Add(48 * time.Hour)

	promo := models.Promotion{Active: true, StartAt: now.Add(-time.Hour), EndAt: &end}
	assert.True(t, engine.IsCurrentlyActive(promo, now))

	// Flag off wins regardless of window
	promo.Active = false
	assert.False(t, engine.IsCurrentlyActive(promo, now))

	// Not started yet
	promo = models.Promotion{Active: true, StartAt: now.Add(time.Hour)}
	assert.False(t, engine.IsCurrentlyActive(promo, now))

	// Expired
	past := now.Add(-time.Minute)
	promo = models.Promotion{Active: true, StartAt: now.Add(-time.Hour), EndAt: &past}
	assert.False(t, engine.IsCurrentlyActive(promo, now))

	// No end date means open-ended
	promo = models.Promotion{Active: true, StartAt: now.Add(-time.Hour)}
	assert.True(t, engine.IsCurrentlyActive(promo, now))

	// Boundaries are inclusive
	promo = models.Promotion{Active: true, StartAt: now, EndAt: &now}
	assert.True(t, engine.IsCurrentlyActive(promo, now))
}

func TestEngine_AppliesTo_ProductIDWinsOverCategory(t *testing.T) {
	engine := pricing.NewEngine()
	now := time.Now()

	// ProductID and CategoryID both set: the product-id match must win even
	// though the product's category does not match.
	promo := models.Promotion{
		Active:     true,
		StartAt:    now.Add(-time.Hour),
		ProductID:  "P1",
		CategoryID: "C1",
	}
	product := models.ProductSnapshot{ID: "P1", CategoryID: "C2"}
	assert.True(t, engine.AppliesTo(promo, product, now))

	// And a non-matching product id must lose even if the category matches.
	product = models.ProductSnapshot{ID: "P2", CategoryID: "C1"}
	assert.False(t, engine.AppliesTo(promo, product, now))
}

func TestEngine_AppliesTo_ScopePrecedence(t *testing.T) {
	engine := pricing.NewEngine()
	now := time.Now()
	base := models.Promotion{Active: true, StartAt: now.Add(-time.Hour)}

	// Category scope
	promo := base
	promo.CategoryID = "C1"
	assert.True(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P9", CategoryID: "C1"}, now))
	assert.False(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P9", CategoryID: "C2"}, now))

	// Explicit list scope
	promo = base
	promo.ProductIDs = models.StringList{"P1", "P2"}
	assert.True(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P2"}, now))
	assert.False(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P3"}, now))

	// No targeting fields: whole catalog
	promo = base
	assert.True(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "anything"}, now))

	// Exclusion list is checked before any targeting
	promo = base
	promo.ProductID = "P1"
	promo.ExcludedProductIDs = models.StringList{"P1"}
	assert.False(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P1"}, now))

	// Inactive promotion never applies
	promo = base
	promo.Active = false
	assert.False(t, engine.AppliesTo(promo, models.ProductSnapshot{ID: "P1"}, now))
}

func TestEngine_DiscountAmountAndDiscountedPrice(t *testing.T) {
	engine := pricing.NewEngine()

	// Percent kind
	promo := models.Promotion{Kind: models.DiscountKindPercent, Value: money(20)}
	assert.True(t, money(200).Equal(engine.DiscountAmount(promo, money(1000))))
	assert.True(t, money(800).Equal(engine.DiscountedPrice(promo, money(1000))))

	// Fixed kind
	promo = models.Promotion{Kind: models.DiscountKindFixed, Value: money(300)}
	assert.True(t, money(300).Equal(engine.DiscountAmount(promo, money(1000))))
	assert.True(t, money(700).Equal(engine.DiscountedPrice(promo, money(1000))))

	// Fixed kind larger than the price is capped so the result stays at zero
	promo = models.Promotion{Kind: models.DiscountKindFixed, Value: money(1500)}
	assert.True(t, money(1000).Equal(engine.DiscountAmount(promo, money(1000))))
	assert.True(t, decimal.Zero.Equal(engine.DiscountedPrice(promo, money(1000))))

	// free_shipping discounts the fee elsewhere, not the item price
	promo = models.Promotion{Kind: models.DiscountKindFreeShipping, Value: money(100)}
	assert.True(t, decimal.Zero.Equal(engine.DiscountAmount(promo, money(1000))))

	// Unknown kind yields zero
	promo = models.Promotion{Kind: "mystery", Value: money(100)}
	assert.True(t, decimal.Zero.Equal(engine.DiscountAmount(promo, money(1000))))
	assert.True(t, money(1000).Equal(engine.DiscountedPrice(promo, money(1000))))
}

func TestEngine_MeetsOrderMinimums(t *testing.T) {
	engine := pricing.NewEngine()

	promo := models.Promotion{MinOrderAmount: someMoney(5000), MinQuantity: 3}
	assert.True(t, engine.MeetsOrderMinimums(promo, money(5000), 3))
	assert.False(t, engine.MeetsOrderMinimums(promo, money(4999), 3))
	assert.False(t, engine.MeetsOrderMinimums(promo, money(5000), 2))

	// No minimums set: always satisfied
	promo = models.Promotion{}
	assert.True(t, engine.MeetsOrderMinimums(promo, money(0), 0))
}

func TestEngine_RemainingDays(t *testing.T) {
	engine := pricing.NewEngine()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// No end date: nil
	promo := models.Promotion{Active: true, StartAt: now}
	assert.Nil(t, engine.RemainingDays(promo, now))

	// Two and a half days out floors to 2
	end := now.Add(60 * time.Hour)
	promo.EndAt = &end
	days := engine.RemainingDays(promo, now)
	if assert.NotNil(t, days) {
		assert.Equal(t, 2, *days)
	}

	// Already expired: negative, not hidden
	end = now.Add(-36 * time.Hour)
	promo.EndAt = &end
	days = engine.RemainingDays(promo, now)
	if assert.NotNil(t, days) {
		assert.Equal(t, -2, *days)
	}
}
