package dto

import (
	"time"

	"github.com/spec-kit/crp-service/internal/domain"
)

// EngineerResponse represents a roster member.
type EngineerResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Department      string                   `json:"department"`
	Email           string                   `json:"email"`
	Skills          []domain.SkillType       `json:"skills"`
	Expertise       map[domain.SkillType]int `json:"expertise"`
	Availability    domain.Availability      `json:"availability"`
	CurrentWorkload int                      `json:"current_workload"`
	IsLeadEngineer  bool                     `json:"is_lead_engineer"`
}

// AvailabilityOverrideRequest payload.
type AvailabilityOverrideRequest struct {
	Offline bool `json:"offline"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WorkflowStateResponse represents tracker state.
type WorkflowStateResponse struct {
	CurrentStage  domain.WorkflowStage `json:"current_stage"`
	TicketID      string               `json:"ticket_id"`
	TicketSubject string               `json:"ticket_subject"`
}
