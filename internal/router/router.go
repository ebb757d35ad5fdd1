package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kodeclass/kodex-api/internal/config"
	"github.com/kodeclass/kodex-api/internal/handler"
	"github.com/kodeclass/kodex-api/internal/middleware"
	"github.com/kodeclass/kodex-api/internal/models"
	"github.com/kodeclass/kodex-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler             *handler.AuthHandler
	UserAdminHandler        *handler.UserAdminHandler
	ExerciseHandler         *handler.ExerciseHandler
	ExerciseAdminHandler    *handler.ExerciseAdminHandler
	SubmissionHandler       *handler.SubmissionHandler
	GradingHandler          *handler.GradingHandler
	AnnouncementHandler     *handler.AnnouncementHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	AdminDashboardHandler   *handler.AdminDashboardHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		// Credential endpoints are rate limited per client.
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	// Student surface. Reads require authentication; every student route
	// scopes data to the caller's own account inside the service layer.
	authenticated := api.Group("", jwtMiddleware)

	if deps.ExerciseHandler != nil {
		exercises := authenticated.Group("/exercises")
		deps.ExerciseHandler.Register(exercises)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(authenticated)
	}

	if deps.AnnouncementHandler != nil {
		announcements := authenticated.Group("/announcements")
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.StudentDashboardHandler != nil {
		dashboard := authenticated.Group("/dashboard")
		deps.StudentDashboardHandler.Register(dashboard)
	}

	// Admin surface.
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))

	if deps.AdminDashboardHandler != nil {
		dashboard := admin.Group("/dashboard")
		deps.AdminDashboardHandler.Register(dashboard)
	}

	if deps.ExerciseAdminHandler != nil {
		exercises := admin.Group("/exercises")
		deps.ExerciseAdminHandler.Register(exercises)
	}

	if deps.GradingHandler != nil {
		submissions := admin.Group("/submissions")
		deps.GradingHandler.Register(submissions)
	}

	if deps.AnnouncementHandler != nil {
		announcements := admin.Group("/announcements")
		deps.AnnouncementHandler.RegisterAdmin(announcements)
	}

	if deps.UserAdminHandler != nil {
		users := admin.Group("/users")
		deps.UserAdminHandler.Register(users)
	}
}
