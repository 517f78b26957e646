package commentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CommentID validates the comment id path parameter and stores it in locals
func CommentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		commentIDStr := strings.TrimSpace(c.Params("id"))
		commentID, err := strconv.Atoi(commentIDStr)
		if err != nil || commentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Comment ID!", nil)
		}

		c.Locals("commentID", uint(commentID))
		return c.Next()
	}
}

// LessonID validates the lesson id path parameter for lesson-scoped listings
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonIDStr := strings.TrimSpace(c.Params("lessonId"))
		lessonID, err := strconv.Atoi(lessonIDStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", uint(lessonID))
		return c.Next()
	}
}
