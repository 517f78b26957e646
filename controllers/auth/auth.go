package authController

import (
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Login     string `json:"login" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=STUDENT TEACHER"`
}

// Register creates a new user account and returns a token
func Register(c *fiber.Ctx) error {
	reqData := new(registerRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Invalid request body!", nil)
	}

	if err := validate.Struct(reqData); err != nil {
		return middleware.ValidationErrorResponse(c, middleware.ValidationErrors(err))
	}

	db := database.Database.Db

	// Check if login already exists
	if err := db.Where("login = ?", reqData.Login).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, middleware.StatusFail, "Login is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to process your request!", nil)
	}

	newUser := models.User{
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Login:     reqData.Login,
		Password:  string(hashedPassword),
		Role:      reqData.Role,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to register user!", nil)
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to register user!", nil)
	}

	go func(login, name string) {
		if err := utils.SendWelcomeEmail(login, name); err != nil {
			log.Printf("Error sending welcome email: %v", err)
		}
	}(newUser.Login, newUser.FirstName)

	return middleware.JsonResponse(c, fiber.StatusCreated, middleware.StatusSuccess, "User registered successfully.", fiber.Map{
		"token": token,
		"user":  newUser,
	})
}

// Login verifies credentials and returns a token
func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("login = ?", reqData.Login).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, middleware.StatusFail, "Incorrect password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to login!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"token": token,
	})
}

// GetMe returns the current user's profile
func GetMe(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
		"user": user,
	})
}

// DeleteMe removes the current user's account
func DeleteMe(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, middleware.StatusFail, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, middleware.StatusFail, "User not found!", nil)
	}

	// Hard delete so the unique login frees up for a fresh registration
	if err := database.Database.Db.Unscoped().Delete(&user).Error; err != nil {
		log.Printf("Error deleting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, middleware.StatusError, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "User deleted successfully!", nil)
}
