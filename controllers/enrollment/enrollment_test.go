package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	courseRoutes "lms/routers/courseRoutes"
	enrollmentRoutes "lms/routers/enrollmentRoutes"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type snapshot struct {
	Progress         int    `json:"progress"`
	CompletedLessons []uint `json:"completedLessons"`
	IsCompleted      bool   `json:"isCompleted"`
}

func setupTest(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	return app
}

func createUser(t *testing.T, login, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Login:     login,
		Password:  "hashed",
		Role:      role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func createCourse(t *testing.T, authorID uint, title string) models.Course {
	t.Helper()

	course := models.Course{
		Title:    title,
		Slug:     title,
		Category: "programming",
		Level:    models.LevelBeginner,
		AuthorID: authorID,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func createLesson(t *testing.T, courseID uint, title string, order int) models.Lesson {
	t.Helper()

	lesson := models.Lesson{CourseID: courseID, Title: title, Order: order}
	require.NoError(t, database.Database.Db.Create(&lesson).Error)
	return lesson
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func snapshotFrom(t *testing.T, env envelope) snapshot {
	t.Helper()

	var snap snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	return snap
}

func TestEnrollInCourse(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")

	code, env := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "success", env.Status)

	var enrollment models.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
	assert.False(t, enrollment.IsCompleted)
	assert.WithinDuration(t, time.Now(), enrollment.EnrolledAt, time.Minute)
}

func TestEnrollRequiresAuth(t *testing.T) {
	app := setupTest(t)

	code, env := doRequest(t, app, http.MethodPost, "/enrollments/", "", fiber.Map{"courseId": 1})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "fail", env.Status)
}

func TestEnrollCourseNotFound(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "student@test.io", models.RoleStudent)

	code, env := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": 999})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)
}

func TestDoubleEnrollConflict(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "fail", env.Status)

	var count int64
	database.Database.Db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestProgressScenario(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")

	l1 := createLesson(t, course.ID, "intro", 1)
	l2 := createLesson(t, course.ID, "syntax", 2)
	l3 := createLesson(t, course.ID, "types", 3)
	l4 := createLesson(t, course.ID, "funcs", 4)

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	completeURL := fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID)
	uncompleteURL := fmt.Sprintf("/enrollments/%d/uncomplete-lesson", course.ID)

	code, env := doRequest(t, app, http.MethodPost, completeURL, token, fiber.Map{"lessonId": l1.ID})
	require.Equal(t, http.StatusOK, code)
	snap := snapshotFrom(t, env)
	assert.Equal(t, 25, snap.Progress)
	assert.False(t, snap.IsCompleted)

	code, env = doRequest(t, app, http.MethodPost, completeURL, token, fiber.Map{"lessonId": l2.ID})
	require.Equal(t, http.StatusOK, code)
	snap = snapshotFrom(t, env)
	assert.Equal(t, 50, snap.Progress)

	// Completing the same lesson again is a no-op
	code, env = doRequest(t, app, http.MethodPost, completeURL, token, fiber.Map{"lessonId": l2.ID})
	require.Equal(t, http.StatusOK, code)
	snap = snapshotFrom(t, env)
	assert.Equal(t, 50, snap.Progress)
	assert.Len(t, snap.CompletedLessons, 2)

	code, env = doRequest(t, app, http.MethodPost, uncompleteURL, token, fiber.Map{"lessonId": l1.ID})
	require.Equal(t, http.StatusOK, code)
	snap = snapshotFrom(t, env)
	assert.Equal(t, 25, snap.Progress)
	assert.Len(t, snap.CompletedLessons, 1)

	for _, lessonID := range []uint{l1.ID, l3.ID, l4.ID} {
		code, env = doRequest(t, app, http.MethodPost, completeURL, token, fiber.Map{"lessonId": lessonID})
		require.Equal(t, http.StatusOK, code)
	}
	snap = snapshotFrom(t, env)
	assert.Equal(t, 100, snap.Progress)
	assert.True(t, snap.IsCompleted)
	assert.Len(t, snap.CompletedLessons, 4)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")
	lesson := createLesson(t, course.ID, "intro", 1)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID), token, fiber.Map{"lessonId": lesson.ID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)
}

func TestCompleteLessonFromAnotherCourse(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")
	other := createCourse(t, teacher.ID, "rust-basics")
	foreign := createLesson(t, other.ID, "ownership", 1)

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID), token, fiber.Map{"lessonId": foreign.ID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)
}

func TestUncompleteAbsentLessonIsNoOp(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")
	l1 := createLesson(t, course.ID, "intro", 1)
	createLesson(t, course.ID, "syntax", 2)

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID), token, fiber.Map{"lessonId": l1.ID})
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/uncomplete-lesson", course.ID), token, fiber.Map{"lessonId": 4242})
	require.Equal(t, http.StatusOK, code)
	snap := snapshotFrom(t, env)
	assert.Equal(t, 50, snap.Progress)
	assert.Equal(t, []uint{l1.ID}, snap.CompletedLessons)
}

func TestZeroLessonCourseProgress(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "empty-course")

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)

	// Seed a stale completed reference pointing at a lesson that never
	// belonged to the course
	var enrollment models.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&enrollment).Error)
	require.NoError(t, database.Database.Db.Create(&models.CompletedLesson{
		EnrollmentID: enrollment.ID,
		LessonID:     999,
	}).Error)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/uncomplete-lesson", course.ID), token, fiber.Map{"lessonId": 4242})
	require.Equal(t, http.StatusOK, code)
	snap := snapshotFrom(t, env)
	assert.Equal(t, 0, snap.Progress)
	assert.False(t, snap.IsCompleted)
	assert.NotEmpty(t, snap.CompletedLessons)
}

func TestGetProgressSnapshot(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")
	l1 := createLesson(t, course.ID, "intro", 1)
	createLesson(t, course.ID, "syntax", 2)

	code, env := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/enrollments/%d/progress", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID), token, fiber.Map{"lessonId": l1.ID})
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/enrollments/%d/progress", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	snap := snapshotFrom(t, env)
	assert.Equal(t, 50, snap.Progress)
	assert.Equal(t, []uint{l1.ID}, snap.CompletedLessons)
	assert.False(t, snap.IsCompleted)
}

func TestGetMyEnrollmentsOrdered(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	student, token := createUser(t, "student@test.io", models.RoleStudent)
	first := createCourse(t, teacher.ID, "first")
	second := createCourse(t, teacher.ID, "second")

	require.NoError(t, database.Database.Db.Create(&models.Enrollment{
		UserID: student.ID, CourseID: first.ID, EnrolledAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, database.Database.Db.Create(&models.Enrollment{
		UserID: student.ID, CourseID: second.ID, EnrolledAt: time.Now(),
	}).Error)

	code, env := doRequest(t, app, http.MethodGet, "/enrollments/", token, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Results     int                 `json:"results"`
		Enrollments []models.Enrollment `json:"enrollments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 2, data.Results)
	// Most recent first
	assert.Equal(t, second.ID, data.Enrollments[0].CourseID)
	assert.Equal(t, first.ID, data.Enrollments[1].CourseID)
	require.NotNil(t, data.Enrollments[0].Course)
	assert.Equal(t, "second", data.Enrollments[0].Course.Title)
}

func TestCancelEnrollment(t *testing.T) {
	app := setupTest(t)
	teacher, _ := createUser(t, "teacher@test.io", models.RoleTeacher)
	_, token := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, teacher.ID, "go-basics")
	l1 := createLesson(t, course.ID, "intro", 1)

	code, _ := doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	require.Equal(t, http.StatusCreated, code)
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/enrollments/%d/complete-lesson", course.ID), token, fiber.Map{"lessonId": l1.ID})
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/enrollments/%d/cancel", course.ID), token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	code, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/enrollments/%d/progress", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	var completedCount int64
	database.Database.Db.Model(&models.CompletedLesson{}).Count(&completedCount)
	assert.EqualValues(t, 0, completedCount)

	// Cancelling twice is a 404, and re-enrolling works again
	code, _ = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/enrollments/%d/cancel", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, app, http.MethodPost, "/enrollments/", token, fiber.Map{"courseId": course.ID})
	assert.Equal(t, http.StatusCreated, code)
}

func TestCourseStudentsOwnership(t *testing.T) {
	app := setupTest(t)
	author, authorToken := createUser(t, "author@test.io", models.RoleTeacher)
	_, otherToken := createUser(t, "other@test.io", models.RoleTeacher)
	student, _ := createUser(t, "student@test.io", models.RoleStudent)
	course := createCourse(t, author.ID, "go-basics")

	require.NoError(t, database.Database.Db.Create(&models.Enrollment{
		UserID: student.ID, CourseID: course.ID, EnrolledAt: time.Now(),
	}).Error)

	code, env := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/courses/%d/students", course.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "fail", env.Status)

	code, env = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/courses/%d/students", course.ID), authorToken, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Results     int                 `json:"results"`
		Enrollments []models.Enrollment `json:"enrollments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Results)
	require.NotNil(t, data.Enrollments[0].User)
	assert.Equal(t, student.ID, data.Enrollments[0].User.ID)
}

func TestCourseStudentsCount(t *testing.T) {
	app := setupTest(t)
	author, _ := createUser(t, "author@test.io", models.RoleTeacher)
	s1, token := createUser(t, "s1@test.io", models.RoleStudent)
	s2, _ := createUser(t, "s2@test.io", models.RoleStudent)
	course := createCourse(t, author.ID, "go-basics")

	for _, userID := range []uint{s1.ID, s2.ID} {
		require.NoError(t, database.Database.Db.Create(&models.Enrollment{
			UserID: userID, CourseID: course.ID, EnrolledAt: time.Now(),
		}).Error)
	}

	code, env := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/courses/%d/students/count", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		StudentsCount int64 `json:"studentsCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.EqualValues(t, 2, data.StudentsCount)

	code, _ = doRequest(t, app, http.MethodGet, "/courses/999/students/count", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
