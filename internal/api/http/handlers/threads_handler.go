package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/dto"
	"github.com/spec-kit/crp-service/internal/engine"
	"github.com/spec-kit/crp-service/internal/store"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// ThreadsHandler manages thread assignment and completion endpoints.
type ThreadsHandler struct {
	engine *engine.Engine
	store  *store.Store
}

// NewThreadsHandler constructs handler.
func NewThreadsHandler(eng *engine.Engine, st *store.Store) *ThreadsHandler {
	return &ThreadsHandler{engine: eng, store: st}
}

// GetThread GET /threads/:id.
func (h *ThreadsHandler) GetThread(c *fiber.Ctx) error {
	thread, err := h.store.ThreadByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": threadResponse(thread)})
}

// Candidates GET /threads/:id/candidates.
func (h *ThreadsHandler) Candidates(c *fiber.Ctx) error {
	candidates, err := h.engine.RecommendForThread(c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ThreadCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, dto.ThreadCandidateResponse{
			Engineer:        engineerResponse(candidate.Engineer),
			MatchScore:      candidate.MatchScore,
			SkillsMatched:   candidate.SkillsMatched,
			NormalizedScore: candidate.NormalizedScore,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Assign POST /threads/:id/assign.
func (h *ThreadsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EngineerID == "" {
		return apperrors.NewValidationError("engineer_id required", nil)
	}
	thread, err := h.engine.Assign(c.Context(), c.Params("id"), req.EngineerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": threadResponse(thread)})
}

// Complete POST /threads/:id/complete.
func (h *ThreadsHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	thread, err := h.engine.Complete(c.Context(), c.Params("id"), req.Solution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": threadResponse(thread)})
}
