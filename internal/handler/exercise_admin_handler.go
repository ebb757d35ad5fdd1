package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kodeclass/kodex-api/internal/dto"
	"github.com/kodeclass/kodex-api/internal/service"
	"github.com/kodeclass/kodex-api/internal/utils"
)

// ExerciseAdminHandler serves the exercise authoring endpoints.
type ExerciseAdminHandler struct {
	service service.ExerciseService
	logger  zerolog.Logger
}

// NewExerciseAdminHandler builds an exercise admin handler instance.
func NewExerciseAdminHandler(service service.ExerciseService, logger zerolog.Logger) *ExerciseAdminHandler {
	return &ExerciseAdminHandler{
		service: service,
		logger:  logger.With().Str("component", "exercise_admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ExerciseAdminHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Patch("/:id/publish", h.setPublished)
	router.Put("/:id/solution", h.updateSolution)
	router.Post("/:id/test-file", h.uploadTestFile)
}

func (h *ExerciseAdminHandler) list(c *fiber.Ctx) error {
	exercises, err := h.service.ListAdmin(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exercises retrieved", exercises)
}

func (h *ExerciseAdminHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	exercise, err := h.service.GetAdmin(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exercise retrieved", exercise)
}

func (h *ExerciseAdminHandler) create(c *fiber.Ctx) error {
	var payload dto.ExerciseSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exercise, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "exercise created", exercise)
}

func (h *ExerciseAdminHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.ExerciseSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exercise, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exercise updated", exercise)
}

func (h *ExerciseAdminHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exercise deleted", nil)
}

func (h *ExerciseAdminHandler) setPublished(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload struct {
		IsPublished bool `json:"is_published"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exercise, err := h.service.SetPublished(c.Context(), id, payload.IsPublished)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "exercise publication updated", exercise)
}

func (h *ExerciseAdminHandler) updateSolution(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payload dto.SolutionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	exercise, err := h.service.UpdateSolution(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "solution updated", exercise)
}

func (h *ExerciseAdminHandler) uploadTestFile(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	exercise, err := h.service.UploadTestFile(c.Context(), id, file)
	if err != nil {
		if strings.Contains(err.Error(), "unsupported file type") {
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test file attached", exercise)
}

func (h *ExerciseAdminHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "exercise not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
