package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kodeclass/kodex-api/internal/config"
	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/handler"
	"github.com/kodeclass/kodex-api/internal/middleware"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
	"github.com/kodeclass/kodex-api/internal/router"
	"github.com/kodeclass/kodex-api/internal/service"
)

const testSecret = "test-secret"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Criterion{},
		&models.Submission{},
		&models.Grade{},
		&models.CriterionGrade{},
		&models.Announcement{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	authService := service.NewAuthService(userRepo, validate, testSecret, time.Hour, logger)
	exerciseService := service.NewExerciseService(exerciseRepo, submissionRepo, validate, nil, logger)
	submissionService := service.NewSubmissionService(submissionRepo, exerciseRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, gradeRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, nil, time.Minute, validate, logger)
	dashboardService := service.NewStudentDashboardService(exerciseRepo, submissionRepo, nil, time.Minute, logger)
	adminDashboardService := service.NewAdminDashboardService(exerciseRepo, submissionRepo, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: testSecret}, router.Dependencies{
		AuthHandler:             handler.NewAuthHandler(authService, logger),
		UserAdminHandler:        handler.NewUserAdminHandler(authService, logger),
		ExerciseHandler:         handler.NewExerciseHandler(exerciseService, logger),
		ExerciseAdminHandler:    handler.NewExerciseAdminHandler(exerciseService, logger),
		SubmissionHandler:       handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:          handler.NewGradingHandler(gradingService, logger),
		AnnouncementHandler:     handler.NewAnnouncementHandler(announcementService, logger),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(dashboardService, logger),
		AdminDashboardHandler:   handler.NewAdminDashboardHandler(adminDashboardService, logger),
		JWTMiddleware:           middleware.JWTProtected(testSecret),
	})

	return app, db
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func jsonRequest(t *testing.T, method, path string, payload interface{}, token string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// registerAndLogin creates an account through the public endpoints and
// returns its bearer token and user ID.
func registerAndLogin(t *testing.T, app *fiber.App, db *gorm.DB, email, role string) (string, uint) {
	t.Helper()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/register", map[string]string{
		"full_name": "Test User",
		"email":     email,
		"password":  "hunter22",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registered struct {
		Data dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &registered)

	if role != models.RoleStudent {
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", registered.Data.ID).Update("role", role).Error)
	}

	resp, err = app.Test(jsonRequest(t, "POST", "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "hunter22",
	}, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Data dto.AuthResponse `json:"data"`
	}
	decodeResponse(t, resp, &login)
	require.NotEmpty(t, login.Data.Token)

	return login.Data.Token, registered.Data.ID
}
