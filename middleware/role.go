package middleware

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware that gates a route on the role claim.
// Ownership checks stay in the controllers; this only guards operations
// where no resource exists yet (e.g. course creation needs TEACHER).
func RequireRole(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, StatusFail, "Unauthorized!", nil)
		}

		role, ok := c.Locals("role").(string)
		if !ok || role != requiredRole {
			return JsonResponse(c, fiber.StatusForbidden, StatusFail, "Access denied! Teacher role required.", nil)
		}

		return c.Next()
	}
}
