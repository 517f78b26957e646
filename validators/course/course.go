package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CourseID validates the course id path parameter and stores it in locals
func CourseID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params(param))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}
