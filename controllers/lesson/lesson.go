package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type lessonRequest struct {
	Title    string `json:"title" validate:"required,min=3"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
	CourseID uint   `json:"courseId" validate:"required"`
	Order    int    `json:"order" validate:"gte=0"`
}

// courseOwnedBy loads a course and reports whether the user authored it
func courseOwnedBy(courseID, userID uint) (found, owned bool) {
	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return false, false
	}
	return true, course.AuthorID == userID
}

// CreateLesson adds a lesson to a course the caller owns
func CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	reqData := new(lessonRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
	}
	if err := validate.Struct(reqData); err != nil {
		return middleware.ValidationErrorResponse(c, middleware.ValidationErrors(err))
	}

	found, owned := courseOwnedBy(reqData.CourseID, userID)
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}
	if !owned {
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have permission to modify this course!", nil)
	}

	lesson := models.Lesson{
		CourseID: reqData.CourseID,
		Title:    reqData.Title,
		Content:  reqData.Content,
		VideoURL: reqData.VideoURL,
		Order:    reqData.Order,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		log.Printf("Error creating lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "Lesson created successfully!", fiber.Map{
		"lesson": lesson,
	})
}

// GetLessonsByCourse lists a course's lessons in order
func GetLessonsByCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var lessons []models.Lesson
	if err := database.Database.Db.Where("course_id = ?", courseID).
		Order("order_index asc").
		Find(&lessons).Error; err != nil {
		log.Printf("Error fetching lessons: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results": len(lessons),
		"lessons": lessons,
	})
}

// GetLesson returns a single lesson with its course
func GetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var lesson models.Lesson
	if err := database.Database.Db.Preload("Course").Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Lesson not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"lesson": lesson,
	})
}

// UpdateLesson edits a lesson of a course the caller owns.
// Existing enrollment progress is not recomputed here; it refreshes on the
// learner's next completion toggle.
func UpdateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	var lesson models.Lesson
	if err := database.Database.Db.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Lesson not found!", nil)
	}

	_, owned := courseOwnedBy(lesson.CourseID, userID)
	if !owned {
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have permission to modify this course!", nil)
	}

	reqData := new(struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		VideoURL string `json:"videoUrl"`
		Order    *int   `json:"order"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Content != "" {
		lesson.Content = reqData.Content
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.Order != nil && *reqData.Order >= 0 {
		lesson.Order = *reqData.Order
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		log.Printf("Error updating lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Lesson updated successfully!", fiber.Map{
		"lesson": lesson,
	})
}

// DeleteLesson removes a lesson from a course the caller owns. Enrollments
// keep their stored progress until their next completion toggle recomputes
// it against the remaining lessons.
func DeleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(uint)

	var lesson models.Lesson
	if err := database.Database.Db.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Lesson not found!", nil)
	}

	_, owned := courseOwnedBy(lesson.CourseID, userID)
	if !owned {
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have permission to modify this course!", nil)
	}

	if err := database.Database.Db.Delete(&lesson).Error; err != nil {
		log.Printf("Error deleting lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Lesson deleted successfully!", nil)
}
