package middleware

import (
	"slices"

	"go-busline/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole gates an endpoint by the roles allowed to reach it.
// Must run after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}

		if !slices.Contains(roles, claims.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden: insufficient role",
			})
		}

		return c.Next()
	}
}
