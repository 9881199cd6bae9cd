package events

import (
	"time"

	"github.com/spec-kit/crp-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted  EventType = "ticket_submitted"
	EventTicketClassified EventType = "ticket_classified"
	EventTicketUpdated    EventType = "ticket_updated"
	EventThreadUpdated    EventType = "thread_updated"
	EventEngineerUpdated  EventType = "engineer_updated"
	EventWorkflowAdvanced EventType = "workflow_advanced"
)

// Event represents a domain event emitted after a successful mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	Subject        string               `json:"subject"`
	Urgency        domain.TicketUrgency `json:"urgency"`
	AffectedSystem string               `json:"affected_system"`
}

// TicketClassifiedPayload payload.
type TicketClassifiedPayload struct {
	UrgencyScore       int                      `json:"urgency_score"`
	ComplexityEstimate domain.ComplexityTier    `json:"complexity_estimate"`
	SkillTags          []domain.SkillType       `json:"skill_tags"`
	RecommendedAction  domain.RecommendedAction `json:"recommended_action"`
	ConfidenceScore    int                      `json:"confidence_score"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus      domain.TicketStatus `json:"old_status"`
	NewStatus      domain.TicketStatus `json:"new_status"`
	AssignedLeadID *string             `json:"assigned_lead_id,omitempty"`
}

// ThreadUpdatedPayload payload.
type ThreadUpdatedPayload struct {
	ThreadID           string              `json:"thread_id"`
	OldStatus          domain.ThreadStatus `json:"old_status"`
	NewStatus          domain.ThreadStatus `json:"new_status"`
	AssignedEngineerID *string             `json:"assigned_engineer_id,omitempty"`
}

// EngineerUpdatedPayload payload.
type EngineerUpdatedPayload struct {
	EngineerID      string              `json:"engineer_id"`
	CurrentWorkload int                 `json:"current_workload"`
	Availability    domain.Availability `json:"availability"`
}

// WorkflowAdvancedPayload payload.
type WorkflowAdvancedPayload struct {
	Stage         domain.WorkflowStage `json:"stage"`
	TicketSubject string               `json:"ticket_subject,omitempty"`
}
