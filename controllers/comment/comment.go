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

type commentRequest struct {
	LessonID uint   `json:"lessonId" validate:"required"`
	Text     string `json:"text" validate:"required,max=255"`
}

// CreateComment posts a comment on a lesson
func CreateComment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	reqData := new(commentRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
	}
	if err := validate.Struct(reqData); err != nil {
		return middleware.ValidationErrorResponse(c, middleware.ValidationErrors(err))
	}

	var lesson models.Lesson
	if err := database.Database.Db.Where("id = ?", reqData.LessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Lesson not found!", nil)
	}

	comment := models.Comment{
		UserID:   userID,
		LessonID: reqData.LessonID,
		Text:     reqData.Text,
	}

	if err := database.Database.Db.Create(&comment).Error; err != nil {
		log.Printf("Error creating comment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to create comment!", nil)
	}

	database.Database.Db.Preload("User").First(&comment, comment.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "Comment created successfully!", fiber.Map{
		"comment": comment,
	})
}

// GetCommentsByLesson lists a lesson's comments, newest first
func GetCommentsByLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	var comments []models.Comment
	if err := database.Database.Db.Where("lesson_id = ?", lessonID).
		Preload("User").
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		log.Printf("Error fetching comments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to fetch comments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"results":  len(comments),
		"comments": comments,
	})
}

// UpdateComment edits the caller's own comment. Looking up by (id, user)
// means a non-owner gets a 404 rather than leaking the comment's existence.
func UpdateComment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	commentID := c.Locals("commentID").(uint)

	reqData := new(struct {
		Text string `json:"text" validate:"required,max=255"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
	}
	if err := validate.Struct(reqData); err != nil {
		return middleware.ValidationErrorResponse(c, middleware.ValidationErrors(err))
	}

	var comment models.Comment
	if err := database.Database.Db.Where("id = ? AND user_id = ?", commentID, userID).First(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Comment not found or you cannot edit it!", nil)
	}

	comment.Text = reqData.Text
	if err := database.Database.Db.Save(&comment).Error; err != nil {
		log.Printf("Error updating comment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to update comment!", nil)
	}

	database.Database.Db.Preload("User").First(&comment, comment.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Comment updated successfully!", fiber.Map{
		"comment": comment,
	})
}

// DeleteComment removes the caller's own comment
func DeleteComment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	commentID := c.Locals("commentID").(uint)

	var comment models.Comment
	if err := database.Database.Db.Where("id = ? AND user_id = ?", commentID, userID).First(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "Comment not found or you cannot delete it!", nil)
	}

	if err := database.Database.Db.Delete(&comment).Error; err != nil {
		log.Printf("Error deleting comment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "Comment deleted successfully!", nil)
}
