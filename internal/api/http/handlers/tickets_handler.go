package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crp-service/internal/api/dto"
	"github.com/spec-kit/crp-service/internal/domain"
	"github.com/spec-kit/crp-service/internal/engine"
	"github.com/spec-kit/crp-service/internal/service"
	"github.com/spec-kit/crp-service/internal/store"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// TicketsHandler manages ticket intake and the resolution pipeline.
type TicketsHandler struct {
	intake *service.IntakeService
	engine *engine.Engine
	store  *store.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(intake *service.IntakeService, eng *engine.Engine, st *store.Store) *TicketsHandler {
	return &TicketsHandler{intake: intake, engine: eng, store: st}
}

// SubmitTicket POST /tickets.
func (h *TicketsHandler) SubmitTicket(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.intake.SubmitTicket(c.Context(), service.SubmitInput{
		Subject:        req.Subject,
		Description:    req.Description,
		Urgency:        req.Urgency,
		AffectedSystem: req.AffectedSystem,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.store.ListTickets()
	items := make([]dto.TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, ticketSummary(ticket))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.store.TicketByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ClassifyTicket POST /tickets/:id/classify.
func (h *TicketsHandler) ClassifyTicket(c *fiber.Ctx) error {
	ticket, err := h.intake.ClassifyTicket(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// LaunchResolution POST /tickets/:id/launch.
func (h *TicketsHandler) LaunchResolution(c *fiber.Ctx) error {
	ticket, err := h.intake.LaunchResolution(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// LeadRecommendations GET /tickets/:id/lead-recommendations.
func (h *TicketsHandler) LeadRecommendations(c *fiber.Ctx) error {
	candidates, err := h.engine.RecommendLead(c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.LeadCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, dto.LeadCandidateResponse{
			Engineer:        engineerResponse(candidate.Engineer),
			ExperienceScore: candidate.ExperienceScore,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// LeadDominance GET /tickets/:id/lead-dominance?engineer_id=...
func (h *TicketsHandler) LeadDominance(c *fiber.Ctx) error {
	engineerID := c.Query("engineer_id")
	if engineerID == "" {
		return apperrors.NewValidationError("engineer_id required", nil)
	}
	dominant, err := h.engine.CheckDominantLead(c.Params("id"), engineerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"engineer_id": engineerID,
		"dominant":    dominant,
	}})
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:             ticket.ID,
		Subject:        ticket.Subject,
		Urgency:        ticket.Urgency,
		AffectedSystem: ticket.AffectedSystem,
		Status:         ticket.Status,
		AssignedLeadID: ticket.AssignedLeadID,
		ThreadCount:    len(ticket.Threads),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		ID:             ticket.ID,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Urgency:        ticket.Urgency,
		AffectedSystem: ticket.AffectedSystem,
		Status:         ticket.Status,
		AssignedLeadID: ticket.AssignedLeadID,
		Threads:        make([]dto.ThreadResponse, 0, len(ticket.Threads)),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
	if ticket.Classification != nil {
		resp.Classification = &dto.ClassificationResponse{
			UrgencyScore:       ticket.Classification.UrgencyScore,
			ComplexityEstimate: ticket.Classification.ComplexityEstimate,
			SkillTags:          ticket.Classification.SkillTags,
			RecommendedAction:  ticket.Classification.RecommendedAction,
			ConfidenceScore:    ticket.Classification.ConfidenceScore,
		}
	}
	for _, thread := range ticket.Threads {
		resp.Threads = append(resp.Threads, threadResponse(thread))
	}
	return resp
}

func threadResponse(thread *domain.IssueThread) dto.ThreadResponse {
	return dto.ThreadResponse{
		ID:                 thread.ID,
		ParentTicketID:     thread.ParentTicketID,
		Title:              thread.Title,
		Description:        thread.Description,
		RequiredSkills:     thread.RequiredSkills,
		Priority:           thread.Priority,
		AssignedEngineerID: thread.AssignedEngineerID,
		Status:             thread.Status,
		Solution:           thread.Solution,
		CreatedAt:          thread.CreatedAt,
		UpdatedAt:          thread.UpdatedAt,
	}
}

func engineerResponse(engineer *domain.Engineer) dto.EngineerResponse {
	return dto.EngineerResponse{
		ID:              engineer.ID,
		Name:            engineer.Name,
		Department:      engineer.Department,
		Email:           engineer.Email,
		Skills:          engineer.Skills,
		Expertise:       engineer.Expertise,
		Availability:    engineer.Availability,
		CurrentWorkload: engineer.CurrentWorkload,
		IsLeadEngineer:  engineer.IsLeadEngineer,
	}
}
