package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"melochei/internal/middleware"
	"melochei/internal/models"
	"melochei/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PromotionHandler handles HTTP requests for promotions.
type PromotionHandler struct {
	service     *services.PromotionService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(service *services.PromotionService, authService *services.AuthService) *PromotionHandler {
	return &PromotionHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the promotion routes. Listing the currently
// active promotions is public; everything else is admin-only.
func (h *PromotionHandler) RegisterRoutes(router fiber.Router) {
	promoRoutes := router.Group("/promotions")
	promoRoutes.Get("/active", h.HandleGetActivePromotions)

	admin := promoRoutes.Group("", middleware.AuthRequired(h.authService), middleware.AdminRequired())
	admin.Get("/", h.HandleGetPromotions)
	admin.Get("/:id", h.HandleGetPromotionByID)
	admin.Post("/", h.HandleCreatePromotion)
	admin.Put("/:id", h.HandleUpdatePromotion)
	admin.Delete("/:id", h.HandleDeletePromotion)
}

// HandleGetActivePromotions returns promotions currently in their active
// window, each annotated with the number of whole days remaining.
func (h *PromotionHandler) HandleGetActivePromotions(c *fiber.Ctx) error {
	now := time.Now()
	promotions, err := h.service.GetActivePromotions(now)
	if err != nil {
		log.Printf("Error getting active promotions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve promotions",
			"error":   err.Error(),
		})
	}

	type activePromotion struct {
		models.Promotion
		RemainingDays *int `json:"remainingDays"`
	}
	result := make([]activePromotion, 0, len(promotions))
	for _, p := range promotions {
		result = append(result, activePromotion{
			Promotion:     p,
			RemainingDays: h.service.RemainingDays(p, now),
		})
	}
	return c.JSON(result)
}

// HandleGetPromotions retrieves all promotions.
func (h *PromotionHandler) HandleGetPromotions(c *fiber.Ctx) error {
	promotions, err := h.service.GetAllPromotions()
	if err != nil {
		log.Printf("Error getting all promotions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve promotions",
			"error":   err.Error(),
		})
	}
	return c.JSON(promotions)
}

// HandleGetPromotionByID retrieves a single promotion by its ID.
func (h *PromotionHandler) HandleGetPromotionByID(c *fiber.Ctx) error {
	promotionID := c.Params("id")
	promotion, err := h.service.GetPromotionByID(promotionID)
	if err != nil {
		log.Printf("Error getting promotion by ID %s: %v", promotionID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Promotion %s not found", promotionID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve promotion",
			"error":   err.Error(),
		})
	}
	return c.JSON(promotion)
}

// HandleCreatePromotion creates a new promotion.
func (h *PromotionHandler) HandleCreatePromotion(c *fiber.Ctx) error {
	promotion := new(models.Promotion)
	if err := c.BodyParser(promotion); err != nil {
		log.Printf("Error parsing promotion request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(promotion); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	if err := h.service.CreatePromotion(promotion); err != nil {
		log.Printf("Error creating promotion: %v", err)
		if strings.Contains(err.Error(), "invalid promotion") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid promotion",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create promotion",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(promotion)
}

// HandleUpdatePromotion updates an existing promotion.
func (h *PromotionHandler) HandleUpdatePromotion(c *fiber.Ctx) error {
	promotionID := c.Params("id")
	promotion := new(models.Promotion)
	if err := c.BodyParser(promotion); err != nil {
		log.Printf("Error parsing promotion request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	promotion.ID = promotionID

	if err := h.service.UpdatePromotion(promotion); err != nil {
		log.Printf("Error updating promotion %s: %v", promotionID, err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Promotion %s not found", promotionID),
			})
		case strings.Contains(err.Error(), "invalid promotion"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid promotion",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update promotion",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(promotion)
}

// HandleDeletePromotion deletes a promotion by its ID.
func (h *PromotionHandler) HandleDeletePromotion(c *fiber.Ctx) error {
	promotionID := c.Params("id")
	if err := h.service.DeletePromotion(promotionID); err != nil {
		log.Printf("Error deleting promotion %s: %v", promotionID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Promotion %s not found", promotionID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete promotion",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Promotion %s deleted successfully", promotionID),
	})
}
