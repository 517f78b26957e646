package lessonValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LessonID validates the lesson id path parameter and stores it in locals
func LessonID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params(param))
		if lessonIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", uint(lessonID))
		return c.Next()
	}
}

// CourseID validates the course id path parameter for course-scoped listings
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}
