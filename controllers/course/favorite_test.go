package controllers_test

import (
	"encoding/json"
	"fmt"
	"lms/database"
	"lms/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToFavorites(t *testing.T) {
	app := setupTest(t)
	author, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := seedCourse(t, author.ID, "Go Basics", "programming", models.LevelBeginner, 10, true)

	target := fmt.Sprintf("/favorites/%d", course.ID)

	code, env := doRequest(t, app, httptest.NewRequest(http.MethodPost, target, nil), token)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)

	// Adding the same course again conflicts
	code, env = doRequest(t, app, httptest.NewRequest(http.MethodPost, target, nil), token)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "fail", env.Status)

	code, _ = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/favorites/999", nil), token)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetFavoritesOrdered(t *testing.T) {
	app := setupTest(t)
	author, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	student, token := createUser(t, "student@test.io", models.RoleStudent)
	first := seedCourse(t, author.ID, "First", "programming", models.LevelBeginner, 10, true)
	second := seedCourse(t, author.ID, "Second", "programming", models.LevelBeginner, 10, true)

	db := database.Database.Db
	require.NoError(t, db.Create(&models.Favorite{
		UserID: student.ID, CourseID: first.ID, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Favorite{
		UserID: student.ID, CourseID: second.ID, CreatedAt: time.Now(),
	}).Error)

	code, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/favorites/", nil), token)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Results   int               `json:"results"`
		Favorites []models.Favorite `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 2, data.Results)
	// Most recent first
	assert.Equal(t, second.ID, data.Favorites[0].CourseID)
	require.NotNil(t, data.Favorites[0].Course)
	assert.Equal(t, "Second", data.Favorites[0].Course.Title)
}

func TestRemoveFromFavorites(t *testing.T) {
	app := setupTest(t)
	author, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := seedCourse(t, author.ID, "Go Basics", "programming", models.LevelBeginner, 10, true)

	target := fmt.Sprintf("/favorites/%d", course.ID)

	code, _ := doRequest(t, app, httptest.NewRequest(http.MethodPost, target, nil), token)
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, httptest.NewRequest(http.MethodDelete, target, nil), token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	// Removing twice is a 404
	code, _ = doRequest(t, app, httptest.NewRequest(http.MethodDelete, target, nil), token)
	assert.Equal(t, http.StatusNotFound, code)
}
