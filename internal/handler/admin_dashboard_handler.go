package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kodeclass/kodex-api/internal/service"
	"github.com/kodeclass/kodex-api/internal/utils"
)

// AdminDashboardHandler serves the admin landing view aggregates.
type AdminDashboardHandler struct {
	service service.AdminDashboardService
	logger  zerolog.Logger
}

// NewAdminDashboardHandler builds an admin dashboard handler instance.
func NewAdminDashboardHandler(service service.AdminDashboardService, logger zerolog.Logger) *AdminDashboardHandler {
	return &AdminDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_dashboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminDashboardHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
}

func (h *AdminDashboardHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.GetOverview(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load admin dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", overview)
}
