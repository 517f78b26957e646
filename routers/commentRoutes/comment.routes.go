package commentRoutes

import (
	controllers "lms/controllers/comment"
	"lms/middleware"
	validators "lms/validators/comment"

	"github.com/gofiber/fiber/v2"
)

// SetupCommentRoutes sets up lesson comment routes
func SetupCommentRoutes(app *fiber.App) {
	commentGroup := app.Group("/comments")

	commentGroup.Post("/", middleware.JWTMiddleware, controllers.CreateComment)
	commentGroup.Get("/lesson/:lessonId", validators.LessonID(), controllers.GetCommentsByLesson)
	commentGroup.Put("/:id", middleware.JWTMiddleware, validators.CommentID(), controllers.UpdateComment)
	commentGroup.Delete("/:id", middleware.JWTMiddleware, validators.CommentID(), controllers.DeleteComment)
}
