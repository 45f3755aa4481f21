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
	"github.com/shopspring/decimal"
)

// DeliveryZoneHandler handles HTTP requests for delivery zones.
type DeliveryZoneHandler struct {
	service     *services.DeliveryZoneService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewDeliveryZoneHandler creates a new DeliveryZoneHandler.
func NewDeliveryZoneHandler(service *services.DeliveryZoneService, authService *services.AuthService) *DeliveryZoneHandler {
	return &DeliveryZoneHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the delivery zone routes. Zone listing and fee
// quoting are public so the storefront can show delivery costs before
// checkout; management is admin-only.
func (h *DeliveryZoneHandler) RegisterRoutes(router fiber.Router) {
	zoneRoutes := router.Group("/zones")
	zoneRoutes.Get("/", h.HandleGetZones)
	zoneRoutes.Get("/:id", h.HandleGetZoneByID)
	zoneRoutes.Get("/:id/quote", h.HandleQuoteFee)

	admin := zoneRoutes.Group("", middleware.AuthRequired(h.authService), middleware.AdminRequired())
	admin.Post("/", h.HandleCreateZone)
	admin.Put("/:id", h.HandleUpdateZone)
	admin.Delete("/:id", h.HandleDeleteZone)
}

// HandleGetZones retrieves all delivery zones.
func (h *DeliveryZoneHandler) HandleGetZones(c *fiber.Ctx) error {
	zones, err := h.service.GetAllZones()
	if err != nil {
		log.Printf("Error getting delivery zones: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve delivery zones",
			"error":   err.Error(),
		})
	}
	return c.JSON(zones)
}

// HandleGetZoneByID retrieves a single delivery zone by its ID.
func (h *DeliveryZoneHandler) HandleGetZoneByID(c *fiber.Ctx) error {
	zoneID := c.Params("id")
	zone, err := h.service.GetZoneByID(zoneID)
	if err != nil {
		log.Printf("Error getting delivery zone by ID %s: %v", zoneID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Delivery zone %s not found", zoneID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve delivery zone",
			"error":   err.Error(),
		})
	}
	return c.JSON(zone)
}

// HandleQuoteFee quotes the delivery fee a zone charges for a given order
// subtotal, and reports whether delivery is available right now.
func (h *DeliveryZoneHandler) HandleQuoteFee(c *fiber.Ctx) error {
	zoneID := c.Params("id")
	subtotal, err := decimal.NewFromString(c.Query("subtotal", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid subtotal",
			"error":   err.Error(),
		})
	}

	zone, err := h.service.GetZoneByID(zoneID)
	if err != nil {
		log.Printf("Error quoting fee for zone %s: %v", zoneID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Delivery zone %s not found", zoneID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not quote delivery fee",
			"error":   err.Error(),
		})
	}

	fee, err := h.service.QuoteFee(zoneID, subtotal)
	if err != nil {
		log.Printf("Error quoting fee for zone %s: %v", zoneID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not quote delivery fee",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"zone_id":   zoneID,
		"subtotal":  subtotal,
		"fee":       fee,
		"available": h.service.IsDeliveryAvailable(*zone, time.Now()),
	})
}

// HandleCreateZone creates a new delivery zone.
func (h *DeliveryZoneHandler) HandleCreateZone(c *fiber.Ctx) error {
	zone := new(models.DeliveryZone)
	if err := c.BodyParser(zone); err != nil {
		log.Printf("Error parsing delivery zone request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(zone); err != nil {
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

	if zone.ID == "" {
		zone.ID = uuid.New().String()
	}
	if err := h.service.CreateZone(zone); err != nil {
		log.Printf("Error creating delivery zone: %v", err)
		if strings.Contains(err.Error(), "invalid delivery zone") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid delivery zone",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create delivery zone",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(zone)
}

// HandleUpdateZone updates an existing delivery zone.
func (h *DeliveryZoneHandler) HandleUpdateZone(c *fiber.Ctx) error {
	zoneID := c.Params("id")
	zone := new(models.DeliveryZone)
	if err := c.BodyParser(zone); err != nil {
		log.Printf("Error parsing delivery zone request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	zone.ID = zoneID

	if err := h.service.UpdateZone(zone); err != nil {
		log.Printf("Error updating delivery zone %s: %v", zoneID, err)
		switch {
		case strings.Contains(err.Error(), "not found"):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Delivery zone %s not found", zoneID),
			})
		case strings.Contains(err.Error(), "invalid delivery zone"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid delivery zone",
				"error":   err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update delivery zone",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(zone)
}

// HandleDeleteZone deletes a delivery zone by its ID.
func (h *DeliveryZoneHandler) HandleDeleteZone(c *fiber.Ctx) error {
	zoneID := c.Params("id")
	if err := h.service.DeleteZone(zoneID); err != nil {
		log.Printf("Error deleting delivery zone %s: %v", zoneID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Delivery zone %s not found", zoneID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete delivery zone",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Delivery zone %s deleted successfully", zoneID),
	})
}
