package enrollmentRoutes

import (
	controllers "lms/controllers/enrollment"
	"lms/middleware"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment and progress routes;
// everything here requires authentication
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments", middleware.JWTMiddleware)

	enrollmentGroup.Post("/", validators.Enroll(), controllers.EnrollInCourse)
	enrollmentGroup.Get("/", controllers.GetMyEnrollments)

	enrollmentGroup.Get("/:courseId/progress", validators.CourseParam(), controllers.GetCourseProgress)
	enrollmentGroup.Post("/:courseId/complete-lesson", validators.LessonToggle(), controllers.CompleteLesson)
	enrollmentGroup.Post("/:courseId/uncomplete-lesson", validators.LessonToggle(), controllers.UncompleteLesson)
	enrollmentGroup.Delete("/:courseId/cancel", validators.CourseParam(), controllers.CancelEnrollment)
}
