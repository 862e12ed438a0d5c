package middleware

import (
	"errors"
	"log"
	"strings"

	"yamdb/internal/models"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// CurrentUser returns the authenticated user stored by AuthRequired, or nil
// for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// access token.
func AuthRequired(authService *services.AuthService, userService *services.UserService) fiber.Handler {
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

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}
		userID, err := services.UserIDFromClaims(claims)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// The role is read from the database so a demotion takes effect
		// before the token expires.
		user, err := userService.GetUserByID(userID)
		if err != nil {
			var nf *services.NotFoundError
			if errors.As(err, &nf) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "User not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not load user",
				"error":   err.Error(),
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// AdminOnly rejects authenticated non-admin users with 403 and anonymous
// users with 401. It must run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication credentials were not provided",
			})
		}
		if !user.Role.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": services.ErrPermissionDenied.Error(),
			})
		}
		return c.Next()
	}
}
