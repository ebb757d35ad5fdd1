package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kodeclass/kodex-api/internal/config"
	"github.com/kodeclass/kodex-api/internal/database"
	"github.com/kodeclass/kodex-api/internal/handler"
	"github.com/kodeclass/kodex-api/internal/middleware"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/repository"
	"github.com/kodeclass/kodex-api/internal/router"
	"github.com/kodeclass/kodex-api/internal/service"
	cloud "github.com/kodeclass/kodex-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Criterion{},
		&models.Submission{},
		&models.Grade{},
		&models.CriterionGrade{},
		&models.Announcement{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	exerciseService := service.NewExerciseService(exerciseRepo, submissionRepo, validate, uploader, logger)
	submissionService := service.NewSubmissionService(submissionRepo, exerciseRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, gradeRepo, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, redisClient, cfg.AnnouncementCacheTTL, validate, logger)
	dashboardService := service.NewStudentDashboardService(exerciseRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)
	adminDashboardService := service.NewAdminDashboardService(exerciseRepo, submissionRepo, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userAdminHandler := handler.NewUserAdminHandler(authService, logger)
	exerciseHandler := handler.NewExerciseHandler(exerciseService, logger)
	exerciseAdminHandler := handler.NewExerciseAdminHandler(exerciseService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, logger)
	studentDashboardHandler := handler.NewStudentDashboardHandler(dashboardService, logger)
	adminDashboardHandler := handler.NewAdminDashboardHandler(adminDashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:             authHandler,
		UserAdminHandler:        userAdminHandler,
		ExerciseHandler:         exerciseHandler,
		ExerciseAdminHandler:    exerciseAdminHandler,
		SubmissionHandler:       submissionHandler,
		GradingHandler:          gradingHandler,
		AnnouncementHandler:     announcementHandler,
		StudentDashboardHandler: studentDashboardHandler,
		AdminDashboardHandler:   adminDashboardHandler,
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
