package enrollmentValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Enroll validates the enrollment body and stores the course id in locals
func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Course ID is required!",
			})
		}

		c.Locals("courseID", reqData.CourseID)
		return c.Next()
	}
}

// CourseParam validates the courseId path parameter
func CourseParam() fiber.Handler {
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

// LessonToggle validates the courseId path parameter plus the lessonId body
// for the complete-lesson / uncomplete-lesson endpoints
func LessonToggle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			LessonID uint `json:"lessonId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
		}

		if reqData.LessonID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"lessonId": "Lesson ID is required!",
			})
		}

		c.Locals("courseID", uint(courseID))
		c.Locals("lessonID", reqData.LessonID)
		return c.Next()
	}
}
