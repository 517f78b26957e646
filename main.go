package main

import (
	"lms/config"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	commentRoutes "lms/routers/commentRoutes"
	courseRoutes "lms/routers/courseRoutes"
	enrollmentRoutes "lms/routers/enrollmentRoutes"
	lessonRoutes "lms/routers/lessonRoutes"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded course images
	app.Static("/uploads", "./"+config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	lessonRoutes.SetupLessonRoutes(app)
	commentRoutes.SetupCommentRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)

	cleanup := utils.InitializeCleanupScheduler()
	defer cleanup.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
