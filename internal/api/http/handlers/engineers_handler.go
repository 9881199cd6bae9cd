package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/dto"
	"github.com/spec-kit/crp-service/internal/engine"
	"github.com/spec-kit/crp-service/internal/store"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// EngineersHandler exposes the roster read model and availability
// overrides.
type EngineersHandler struct {
	engine *engine.Engine
	store  *store.Store
}

// NewEngineersHandler constructs handler.
func NewEngineersHandler(eng *engine.Engine, st *store.Store) *EngineersHandler {
	return &EngineersHandler{engine: eng, store: st}
}

// ListEngineers GET /engineers.
func (h *EngineersHandler) ListEngineers(c *fiber.Ctx) error {
	engineers := h.store.ListEngineers()
	items := make([]dto.EngineerResponse, 0, len(engineers))
	for _, engineer := range engineers {
		items = append(items, engineerResponse(engineer))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetEngineer GET /engineers/:id.
func (h *EngineersHandler) GetEngineer(c *fiber.Ctx) error {
	engineer, err := h.store.EngineerByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": engineerResponse(engineer)})
}

// SetAvailability POST /engineers/:id/availability.
func (h *EngineersHandler) SetAvailability(c *fiber.Ctx) error {
	var req dto.AvailabilityOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	engineer, err := h.engine.SetAvailabilityOverride(c.Context(), c.Params("id"), req.Offline)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": engineerResponse(engineer)})
}
