package lessonRoutes

import (
	controllers "lms/controllers/lesson"
	"lms/middleware"
	validators "lms/validators/lesson"

	"github.com/gofiber/fiber/v2"
)

// SetupLessonRoutes sets up lesson CRUD routes
func SetupLessonRoutes(app *fiber.App) {
	lessonGroup := app.Group("/lessons")

	lessonGroup.Post("/", middleware.JWTMiddleware, controllers.CreateLesson)
	lessonGroup.Get("/course/:courseId", validators.CourseID(), controllers.GetLessonsByCourse)
	lessonGroup.Get("/:id", validators.LessonID("id"), controllers.GetLesson)
	lessonGroup.Put("/:id", middleware.JWTMiddleware, validators.LessonID("id"), controllers.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, validators.LessonID("id"), controllers.DeleteLesson)
}
