package middleware_test

import (
	"encoding/json"
	"lms/config"
	"lms/middleware"
	"lms/models"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	app := fiber.New()
	app.Get("/protected", middleware.JWTMiddleware, func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", fiber.Map{
			"userId": c.Locals("userId"),
			"role":   c.Locals("role"),
		})
	})
	app.Get("/teachers-only", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher), func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, middleware.StatusSuccess, "", nil)
	})
	return app
}

func get(t *testing.T, app *fiber.App, target, authHeader string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	app := setupApp(t)

	token, err := middleware.GenerateJWT(42, models.RoleTeacher)
	require.NoError(t, err)

	code, body := get(t, app, "/protected", "Bearer "+token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 42, data["userId"])
	assert.Equal(t, models.RoleTeacher, data["role"])
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	app := setupApp(t)

	code, body := get(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "fail", body["status"])

	code, _ = get(t, app, "/protected", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = get(t, app, "/protected", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireRole(t *testing.T) {
	app := setupApp(t)

	teacherToken, err := middleware.GenerateJWT(1, models.RoleTeacher)
	require.NoError(t, err)
	studentToken, err := middleware.GenerateJWT(2, models.RoleStudent)
	require.NoError(t, err)

	code, _ := get(t, app, "/teachers-only", "Bearer "+teacherToken)
	assert.Equal(t, http.StatusOK, code)

	code, body := get(t, app, "/teachers-only", "Bearer "+studentToken)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "fail", body["status"])
}
