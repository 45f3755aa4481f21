package repositories

import (
	"fmt"
	"sync"
	"time"

	"melochei/internal/models"

	"github.com/google/uuid"
)

// MockPromotionRepository is an in-memory implementation of PromotionRepository.
type MockPromotionRepository struct {
	promotions map[string]models.Promotion
	mu         sync.RWMutex
}

// NewMockPromotionRepository creates a new instance of MockPromotionRepository.
func NewMockPromotionRepository() *MockPromotionRepository {
	return &MockPromotionRepository{
		promotions: make(map[string]models.Promotion),
	}
}

// GetAll returns all promotions.
func (r *MockPromotionRepository) GetAll() ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotionList := make([]models.Promotion, 0, len(r.promotions))
	for _, p := range r.promotions {
		promotionList = append(promotionList, p)
	}
	return promotionList, nil
}

// GetActive returns promotions whose flag is on and whose window contains now.
func (r *MockPromotionRepository) GetActive(now time.Time) ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotionList := make([]models.Promotion, 0)
	for _, p := range r.promotions {
		if !p.Active || now.Before(p.StartAt) {
			continue
		}
		if p.EndAt != nil && now.After(*p.EndAt) {
			continue
		}
		promotionList = append(promotionList, p)
	}
	return promotionList, nil
}

// GetByID returns a promotion by its ID.
func (r *MockPromotionRepository) GetByID(id string) (*models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotion, ok := r.promotions[id]
	if !ok {
		return nil, fmt.Errorf("promotion with ID %s not found", id)
	}
	return &promotion, nil
}

// Create adds a new promotion.
func (r *MockPromotionRepository) Create(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	r.promotions[promotion.ID] = *promotion
	return nil
}

// Update modifies an existing promotion.
func (r *MockPromotionRepository) Update(promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.promotions[promotion.ID]
	if !ok {
		return fmt.Errorf("promotion with ID %s not found for update", promotion.ID)
	}
	r.promotions[promotion.ID] = *promotion
	return nil
}

// Delete removes a promotion by its ID.
func (r *MockPromotionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.promotions[id]
	if !ok {
		return fmt.Errorf("promotion with ID %s not found for deletion", id)
	}
	delete(r.promotions, id)
	return nil
}
