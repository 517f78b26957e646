package authRoutes

import (
	authController "lms/controllers/auth"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and account routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authController.Register)
	authGroup.Post("/login", authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.GetMe)
	authGroup.Delete("/delete", middleware.JWTMiddleware, authController.DeleteMe)
}
