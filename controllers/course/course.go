package controllers

import (
	"encoding/json"
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var validate = validator.New()

type courseRequest struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Level       string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// GetAllCourses lists courses with sorting, filtering and pagination
func GetAllCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	sort := c.Query("sort", "created_at")
	order := c.Query("order", "desc")
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	// Whitelist sortable columns
	switch sort {
	case "created_at", "title", "price", "category", "level":
	default:
		sort = "created_at"
	}

	db := database.Database.Db.Model(&models.Course{})

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if level := c.Query("level"); level != "" {
		db = db.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}
	if published := c.Query("published"); published != "" {
		db = db.Where("published = ?", published == "true")
	}
	if tagName := c.Query("tag"); tagName != "" {
		var tag models.Tag
		if err := database.Database.Db.Where("name = ?", tagName).First(&tag).Error; err == nil {
			db = db.Joins("JOIN course_tags ON course_tags.course_id = courses.id").
				Where("course_tags.tag_id = ?", tag.ID)
		}
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Preload("Author").Preload("Tags").
		Order(sort + " " + order).
		Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results":     len(courses),
		"total":       total,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
		"courses":     courses,
	})
}

// GetCourseById returns one course with author and tags
func GetCourseById(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Preload("Author").Preload("Tags").
		Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"course": course,
	})
}

// CreateCourse creates an unpublished course owned by the caller. The route
// is gated on the TEACHER role; an image upload is required.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "User not found!", nil)
	}

	price, _ := strconv.ParseFloat(c.FormValue("price", "0"), 64)
	reqData := courseRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Category:    c.FormValue("category"),
		Level:       c.FormValue("level"),
	}
	if err := validate.Struct(&reqData); err != nil {
		return middleware.ValidationErrorResponse(c, middleware.ValidationErrors(err))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "An image upload is required!", nil)
	}

	imagePath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving course image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to save course image!", nil)
	}
	if err := utils.ProcessCourseImage(imagePath); err != nil {
		// Keep the original upload when post-processing fails
		log.Printf("Error processing course image: %v", err)
	}

	level := reqData.Level
	if level == "" {
		level = models.LevelBeginner
	}

	course := models.Course{
		Title:       reqData.Title,
		Slug:        slug.Make(reqData.Title),
		Description: reqData.Description,
		Price:       reqData.Price,
		Image:       imagePath,
		Category:    reqData.Category,
		Level:       level,
		Published:   false,
		AuthorID:    userID,
	}

	tags, err := resolveTags(c.FormValue("tags"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid tags format!", nil)
	}
	course.Tags = tags

	if err := database.Database.Db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, middleware.StatusFail, "A course with this title already exists!", nil)
		}
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "Course created successfully!", fiber.Map{
		"course": course,
	})
}

// UpdateCourse applies a partial update; only the course's author may do so,
// regardless of role
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	if course.AuthorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have permission to update this course!", nil)
	}

	if title := c.FormValue("title"); title != "" && title != course.Title {
		course.Title = title
		course.Slug = slug.Make(title)
	}
	if description := c.FormValue("description"); description != "" {
		course.Description = description
	}
	if priceStr := c.FormValue("price"); priceStr != "" {
		if price, err := strconv.ParseFloat(priceStr, 64); err == nil && price >= 0 {
			course.Price = price
		}
	}
	if category := c.FormValue("category"); category != "" {
		course.Category = category
	}
	if level := c.FormValue("level"); level != "" {
		switch level {
		case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
			course.Level = level
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid course level!", nil)
		}
	}
	if publishedStr := c.FormValue("published"); publishedStr != "" {
		course.Published = publishedStr == "true"
	}

	if file, err := c.FormFile("image"); err == nil {
		imagePath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
		if err != nil {
			log.Printf("Error saving course image: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to save course image!", nil)
		}
		if err := utils.ProcessCourseImage(imagePath); err != nil {
			log.Printf("Error processing course image: %v", err)
		}
		course.Image = imagePath
	}

	if tagsValue := c.FormValue("tags"); tagsValue != "" {
		tags, err := resolveTags(tagsValue)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid tags format!", nil)
		}
		if err := database.Database.Db.Model(&course).Association("Tags").Replace(tags); err != nil {
			log.Printf("Error updating course tags: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update course!", nil)
		}
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, middleware.StatusFail, "A course with this title already exists!", nil)
		}
		log.Printf("Error updating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Course updated successfully!", fiber.Map{
		"course": course,
	})
}

// DeleteCourse removes a course and cascades its favorites and enrollments
func DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	if course.AuthorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have permission to delete this course!", nil)
	}

	db := database.Database.Db
	tx := db.Begin()

	var enrollmentIDs []uint
	tx.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Pluck("id", &enrollmentIDs)
	if len(enrollmentIDs) > 0 {
		if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&models.CompletedLesson{}).Error; err != nil {
			tx.Rollback()
			log.Printf("Error cascading completed lessons: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete course!", nil)
		}
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&models.Enrollment{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error cascading enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete course!", nil)
	}
	if err := tx.Where("course_id = ?", courseID).Delete(&models.Favorite{}).Error; err != nil {
		tx.Rollback()
		log.Printf("Error cascading favorites: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete course!", nil)
	}
	if err := tx.Delete(&course).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Course deleted successfully!", nil)
}

// resolveTags parses a JSON array of tag names and finds or creates each tag
func resolveTags(tagsValue string) ([]models.Tag, error) {
	if tagsValue == "" {
		return nil, nil
	}

	var tagNames []string
	if err := json.Unmarshal([]byte(tagsValue), &tagNames); err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		var tag models.Tag
		if err := database.Database.Db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
