package courseRoutes

import (
	controllers "lms/controllers/course"
	enrollmentControllers "lms/controllers/enrollment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"
	enrollmentValidators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up catalog, favorites and course-student routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Catalog (public reads)
	courseGroup.Get("/", controllers.GetAllCourses)

	// Favorites (before /:id so the literal path wins)
	favoriteGroup := app.Group("/favorites")
	favoriteGroup.Post("/:courseId", middleware.JWTMiddleware, validators.CourseID("courseId"), controllers.AddToFavorites)
	favoriteGroup.Get("/", middleware.JWTMiddleware, controllers.GetFavorites)
	favoriteGroup.Delete("/:courseId", middleware.JWTMiddleware, validators.CourseID("courseId"), controllers.RemoveFromFavorites)

	// Authoring: creation is role-gated, mutation is ownership-checked in the controller
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.CourseID("id"), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID("id"), controllers.DeleteCourse)

	// Course students (enrollment reporting)
	courseGroup.Get("/:courseId/students/count", middleware.JWTMiddleware, enrollmentValidators.CourseParam(), enrollmentControllers.GetCourseStudentsCount)
	courseGroup.Get("/:courseId/students", middleware.JWTMiddleware, enrollmentValidators.CourseParam(), enrollmentControllers.GetCourseStudents)

	courseGroup.Get("/:id", validators.CourseID("id"), controllers.GetCourseById)
}
