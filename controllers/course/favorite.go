package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AddToFavorites bookmarks a course for the user. Duplicates are rejected by
// the (user, course) unique index.
func AddToFavorites(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	favorite := models.Favorite{
		UserID:   userID,
		CourseID: courseID,
	}

	if err := database.Database.Db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, middleware.StatusFail, "Course is already in favorites!", nil)
		}
		log.Printf("Error creating favorite: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to add course to favorites!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "Course added to favorites!", fiber.Map{
		"favorite": favorite,
	})
}

// GetFavorites lists the user's favorite courses with course summaries
func GetFavorites(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var favorites []models.Favorite
	if err := database.Database.Db.Where("user_id = ?", userID).
		Preload("Course").Preload("Course.Author").Preload("Course.Tags").
		Order("created_at desc").
		Find(&favorites).Error; err != nil {
		log.Printf("Error fetching favorites: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch favorites!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results":   len(favorites),
		"favorites": favorites,
	})
}

// RemoveFromFavorites deletes a favorite; missing entries are a 404
func RemoveFromFavorites(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var favorite models.Favorite
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&favorite).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found in favorites!", nil)
	}

	if err := database.Database.Db.Delete(&favorite).Error; err != nil {
		log.Printf("Error deleting favorite: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to remove course from favorites!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Course removed from favorites!", nil)
}
