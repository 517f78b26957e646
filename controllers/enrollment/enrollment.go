package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// progressSnapshot is what completion toggles and the progress endpoint return
type progressSnapshot struct {
	Progress         int    `json:"progress"`
	CompletedLessons []uint `json:"completedLessons"`
	IsCompleted      bool   `json:"isCompleted"`
}

// EnrollInCourse creates an enrollment for the authenticated user.
// Duplicate enrollments are rejected by the composite unique index on
// (user_id, course_id), not by a check-then-insert, so two concurrent
// calls cannot both succeed.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, middleware.StatusFail, "You are already enrolled in this course!", nil)
		}
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to enroll in course!", nil)
	}

	go func(login, name, courseTitle string) {
		if err := utils.SendEnrollmentEmail(login, name, courseTitle); err != nil {
			log.Printf("Error sending enrollment email: %v", err)
		}
	}(user.Login, user.FirstName, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "Enrolled in course successfully!", fiber.Map{
		"enrollment": enrollment,
	})
}

// GetMyEnrollments lists the user's enrollments with course summaries,
// most recent first
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).
		Preload("Course").Preload("Course.Author").Preload("Course.Tags").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results":     len(enrollments),
		"enrollments": enrollments,
	})
}

// GetCourseProgress returns the stored snapshot; no recompute happens on read
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Enrollment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", snapshotOf(&enrollment))
}

// CompleteLesson marks a lesson done for the user's enrollment and recomputes
// progress. Marking the same lesson twice is a no-op: the insert is an
// ON CONFLICT DO NOTHING against the completed-set unique index, which also
// keeps concurrent toggles from losing updates.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	// The lesson must belong to this course
	var lesson models.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ?", lessonID, courseID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Lesson not found in this course!", nil)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Enrollment not found!", nil)
	}

	completed := models.CompletedLesson{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
	}
	if err := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completed).Error; err != nil {
		log.Printf("Error adding completed lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to mark lesson as completed!", nil)
	}

	if err := recomputeProgress(&enrollment); err != nil {
		log.Printf("Error recomputing progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", snapshotOf(&enrollment))
}

// UncompleteLesson removes a lesson from the completed set and recomputes
// progress. Removal is tolerant: unknown or already-absent lesson ids are a
// no-op, so there is no existence check on the lesson itself.
func UncompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Enrollment not found!", nil)
	}

	if err := database.Database.Db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessonID).
		Delete(&models.CompletedLesson{}).Error; err != nil {
		log.Printf("Error removing completed lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to unmark lesson!", nil)
	}

	if err := recomputeProgress(&enrollment); err != nil {
		log.Printf("Error recomputing progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", snapshotOf(&enrollment))
}

// CancelEnrollment deletes the enrollment and its completed set
func CancelEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Enrollment not found!", nil)
	}

	if err := database.Database.Db.Where("enrollment_id = ?", enrollment.ID).Delete(&models.CompletedLesson{}).Error; err != nil {
		log.Printf("Error deleting completed lessons: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to cancel enrollment!", nil)
	}
	if err := database.Database.Db.Delete(&enrollment).Error; err != nil {
		log.Printf("Error deleting enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to cancel enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Enrollment cancelled successfully!", nil)
}

// GetCourseStudentsCount returns how many users are enrolled in a course
func GetCourseStudentsCount(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Course not found!", nil)
	}

	var studentsCount int64
	database.Database.Db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&studentsCount)

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"studentsCount": studentsCount,
	})
}

// GetCourseStudents lists a course's enrollments for its author
func GetCourseStudents(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, middleware.StatusFail, "You do not have access to this information!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("course_id = ?", courseID).
		Preload("User").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		log.Printf("Error fetching course students: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results":     len(enrollments),
		"enrollments": enrollments,
	})
}

// recomputeProgress derives progress and isCompleted from the completed set.
// Progress counts only completed lessons that still belong to the course, so
// stale references never inflate the percentage; a course with no lessons is
// always 0% and not completed.
func recomputeProgress(enrollment *models.Enrollment) error {
	db := database.Database.Db

	var total int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", enrollment.CourseID).Count(&total).Error; err != nil {
		return err
	}

	if total == 0 {
		enrollment.Progress = 0
		enrollment.IsCompleted = false
	} else {
		var done int64
		if err := db.Model(&models.CompletedLesson{}).
			Joins("JOIN lessons ON lessons.id = completed_lessons.lesson_id AND lessons.deleted_at IS NULL AND lessons.course_id = ?", enrollment.CourseID).
			Where("completed_lessons.enrollment_id = ?", enrollment.ID).
			Count(&done).Error; err != nil {
			return err
		}

		enrollment.Progress = int(math.Round(float64(done) / float64(total) * 100))
		enrollment.IsCompleted = enrollment.Progress == 100
	}

	return db.Model(enrollment).Updates(map[string]interface{}{
		"progress":     enrollment.Progress,
		"is_completed": enrollment.IsCompleted,
	}).Error
}

// snapshotOf builds the progress response payload for an enrollment
func snapshotOf(enrollment *models.Enrollment) progressSnapshot {
	var lessonIDs []uint
	database.Database.Db.Model(&models.CompletedLesson{}).
		Where("enrollment_id = ?", enrollment.ID).
		Order("lesson_id asc").
		Pluck("lesson_id", &lessonIDs)

	if lessonIDs == nil {
		lessonIDs = []uint{}
	}

	return progressSnapshot{
		Progress:         enrollment.Progress,
		CompletedLessons: lessonIDs,
		IsCompleted:      enrollment.IsCompleted,
	}
}
