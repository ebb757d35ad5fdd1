package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kodeclass/kodex-api/internal/config"
	"github.com/kodeclass/kodex-api/internal/utils"
)

var processStart = time.Now()

// HealthResponse reports liveness plus enough identity for dashboards to
// tell environments apart.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Uptime      string    `json:"uptime"`
}

// HealthCheck returns the liveness probe handler.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Uptime:      time.Since(processStart).Round(time.Second).String(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
