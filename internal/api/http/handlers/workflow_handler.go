package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/dto"
	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/workflow"
)

// WorkflowHandler exposes tracker state and the event read model.
type WorkflowHandler struct {
	tracker    *workflow.Tracker
	dispatcher events.Dispatcher
}

// NewWorkflowHandler constructs handler.
func NewWorkflowHandler(tracker *workflow.Tracker, dispatcher events.Dispatcher) *WorkflowHandler {
	return &WorkflowHandler{tracker: tracker, dispatcher: dispatcher}
}

// Current GET /workflow.
func (h *WorkflowHandler) Current(c *fiber.Ctx) error {
	state := h.tracker.Current()
	if state == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.WorkflowStateResponse{
		CurrentStage:  state.CurrentStage,
		TicketID:      state.TicketID,
		TicketSubject: state.TicketSubject,
	}})
}

// Reset POST /workflow/reset.
func (h *WorkflowHandler) Reset(c *fiber.Ctx) error {
	h.tracker.Reset()
	return c.JSON(fiber.Map{"data": "ok"})
}

// Events GET /events.
func (h *WorkflowHandler) Events(c *fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return c.JSON(fiber.Map{"data": h.dispatcher.Recent(limit)})
}
