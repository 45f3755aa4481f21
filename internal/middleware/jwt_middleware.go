package middleware

import (
	"log"
	"strings"

	"melochei/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the Fiber locals key under which AuthRequired stores the
// authenticated caller's CurrentUserContext.
const UserContextKey = "user_context"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store the caller's identity in Fiber context for subsequent
		// handlers; identity is always passed explicitly from here on.
		c.Locals(UserContextKey, services.UserContextFromClaims(claims))

		// Continue to the next handler
		return c.Next()
	}
}

// AdminRequired restricts a route to admin users. It must run after
// AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx, ok := c.Locals(UserContextKey).(services.CurrentUserContext)
		if !ok || !userCtx.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// UserFromContext extracts the authenticated caller stored by AuthRequired.
func UserFromContext(c *fiber.Ctx) (services.CurrentUserContext, bool) {
	userCtx, ok := c.Locals(UserContextKey).(services.CurrentUserContext)
	return userCtx, ok
}
