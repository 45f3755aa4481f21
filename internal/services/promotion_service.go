package services

import (
	"fmt"
	"time"

	"melochei/internal/models"
	"melochei/internal/pricing"
	"melochei/internal/repositories"

	"github.com/shopspring/decimal"
)

// PromotionService handles admin management of promotions and resolves the
// best promotional price for a product.
type PromotionService struct {
	repo   repositories.PromotionRepository
	engine pricing.Engine
	calc   pricing.Calculator
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(repo repositories.PromotionRepository) *PromotionService {
	return &PromotionService{
		repo:   repo,
		engine: pricing.NewEngine(),
		calc:   pricing.NewCalculator(),
	}
}

// GetAllPromotions retrieves all promotions.
func (s *PromotionService) GetAllPromotions() ([]models.Promotion, error) {
	return s.repo.GetAll()
}

// GetActivePromotions retrieves the promotions currently in effect.
func (s *PromotionService) GetActivePromotions(now time.Time) ([]models.Promotion, error) {
	return s.repo.GetActive(now)
}

// GetPromotionByID retrieves a single promotion by its ID.
func (s *PromotionService) GetPromotionByID(id string) (*models.Promotion, error) {
	return s.repo.GetByID(id)
}

// CreatePromotion creates a new promotion.
func (s *PromotionService) CreatePromotion(promotion *models.Promotion) error {
	if err := validatePromotionWindow(promotion); err != nil {
		return fmt.Errorf("invalid promotion: %w", err)
	}
	return s.repo.Create(promotion)
}

// UpdatePromotion updates an existing promotion.
func (s *PromotionService) UpdatePromotion(promotion *models.Promotion) error {
	if err := validatePromotionWindow(promotion); err != nil {
		return fmt.Errorf("invalid promotion: %w", err)
	}
	return s.repo.Update(promotion)
}

// DeletePromotion deletes a promotion by its ID.
func (s *PromotionService) DeletePromotion(id string) error {
	return s.repo.Delete(id)
}

// BestPrice returns the lowest price the product can be bought for right
// now, together with the promotion that produced it (nil when only the
// catalog discount applies). Among applicable promotions the one with the
// highest priority wins; on a priority tie the cheaper result wins.
func (s *PromotionService) BestPrice(product models.ProductSnapshot, now time.Time) (decimal.Decimal, *models.Promotion, error) {
	base := s.calc.EffectivePrice(models.CartItem{
		ProductID:     product.ID,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Quantity:      1,
	})

	promotions, err := s.repo.GetActive(now)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to load active promotions: %w", err)
	}

	bestPrice := base
	var best *models.Promotion
	for i := range promotions {
		promo := promotions[i]
		if !s.engine.AppliesTo(promo, product, now) {
			continue
		}
		price := s.engine.DiscountedPrice(promo, base)
		if best == nil || promo.Priority > best.Priority ||
			(promo.Priority == best.Priority && price.LessThan(bestPrice)) {
			bestPrice = price
			best = &promotions[i]
		}
	}
	return bestPrice, best, nil
}

// RemainingDays exposes how many whole days a promotion has left, nil when
// it is open-ended and negative once expired.
func (s *PromotionService) RemainingDays(promotion models.Promotion, now time.Time) *int {
	return s.engine.RemainingDays(promotion, now)
}

func validatePromotionWindow(promotion *models.Promotion) error {
	if promotion.EndAt != nil && promotion.EndAt.Before(promotion.StartAt) {
		return fmt.Errorf("promotion end date %s is before start date %s", promotion.EndAt, promotion.StartAt)
	}
	if promotion.Value.IsNegative() {
		return fmt.Errorf("promotion value must not be negative")
	}
	return nil
}
