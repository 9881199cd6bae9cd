package dto

import (
	"time"

	"github.com/spec-kit/crp-service/internal/domain"
)

// SubmitTicketRequest payload.
type SubmitTicketRequest struct {
	Subject        string               `json:"subject"`
	Description    string               `json:"description"`
	Urgency        domain.TicketUrgency `json:"urgency"`
	AffectedSystem string               `json:"affected_system"`
}

// ClassificationResponse mirrors the classifier output.
type ClassificationResponse struct {
	UrgencyScore       int                      `json:"urgency_score"`
	ComplexityEstimate domain.ComplexityTier    `json:"complexity_estimate"`
	SkillTags          []domain.SkillType       `json:"skill_tags"`
	RecommendedAction  domain.RecommendedAction `json:"recommended_action"`
	ConfidenceScore    int                      `json:"confidence_score"`
}

// ThreadResponse represents an issue thread.
type ThreadResponse struct {
	ID                 string              `json:"id"`
	ParentTicketID     string              `json:"parent_ticket_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	RequiredSkills     []domain.SkillType  `json:"required_skills"`
	Priority           int                 `json:"priority"`
	AssignedEngineerID *string             `json:"assigned_engineer_id,omitempty"`
	Status             domain.ThreadStatus `json:"status"`
	Solution           string              `json:"solution,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TicketSummary response.
type TicketSummary struct {
	ID             string               `json:"id"`
	Subject        string               `json:"subject"`
	Urgency        domain.TicketUrgency `json:"urgency"`
	AffectedSystem string               `json:"affected_system"`
	Status         domain.TicketStatus  `json:"status"`
	AssignedLeadID *string              `json:"assigned_lead_id,omitempty"`
	ThreadCount    int                  `json:"thread_count"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID             string                  `json:"id"`
	Subject        string                  `json:"subject"`
	Description    string                  `json:"description"`
	Urgency        domain.TicketUrgency    `json:"urgency"`
	AffectedSystem string                  `json:"affected_system"`
	Status         domain.TicketStatus     `json:"status"`
	Classification *ClassificationResponse `json:"classification,omitempty"`
	AssignedLeadID *string                 `json:"assigned_lead_id,omitempty"`
	Threads        []ThreadResponse        `json:"threads"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// AssignThreadRequest payload.
type AssignThreadRequest struct {
	EngineerID string `json:"engineer_id"`
}

// CompleteThreadRequest payload.
type CompleteThreadRequest struct {
	Solution string `json:"solution"`
}

// LeadCandidateResponse pairs an engineer with their experience score.
type LeadCandidateResponse struct {
	Engineer        EngineerResponse `json:"engineer"`
	ExperienceScore float64          `json:"experience_score"`
}

// ThreadCandidateResponse pairs an engineer with their match scores.
type ThreadCandidateResponse struct {
	Engineer        EngineerResponse `json:"engineer"`
	MatchScore      int              `json:"match_score"`
	SkillsMatched   int              `json:"skills_matched"`
	NormalizedScore float64          `json:"normalized_score"`
}
