package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. Transitions only
// move forward: Submitted -> Classified -> In Progress -> Resolved.
type TicketStatus string

const (
	TicketStatusSubmitted  TicketStatus = "SUBMITTED"
	TicketStatusClassified TicketStatus = "CLASSIFIED"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
)

// TicketUrgency enumerates declared customer urgency.
type TicketUrgency string

const (
	UrgencyLow      TicketUrgency = "LOW"
	UrgencyMedium   TicketUrgency = "MEDIUM"
	UrgencyHigh     TicketUrgency = "HIGH"
	UrgencyCritical TicketUrgency = "CRITICAL"
)

// ComplexityTier enumerates the classifier's complexity estimate.
type ComplexityTier string

const (
	ComplexityLow    ComplexityTier = "LOW"
	ComplexityMedium ComplexityTier = "MEDIUM"
	ComplexityHigh   ComplexityTier = "HIGH"
)

// RecommendedAction is the classifier's routing recommendation.
type RecommendedAction string

const (
	ActionCRP      RecommendedAction = "CRP"
	ActionStandard RecommendedAction = "STANDARD"
)

// Classification is the rule-based estimate attached to a ticket.
type Classification struct {
	UrgencyScore       int
	ComplexityEstimate ComplexityTier
	SkillTags          []SkillType
	RecommendedAction  RecommendedAction
	ConfidenceScore    int
}

// Ticket is the aggregate for resolution requests.
type Ticket struct {
	ID             string
	Sequence       int
	Subject        string
	Description    string
	Urgency        TicketUrgency
	AffectedSystem string
	Classification *Classification
	Status         TicketStatus
	Threads        []*IssueThread
	AssignedLeadID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TicketID renders the canonical ticket identifier for a sequence number.
func TicketID(year int, sequence int) string {
	return fmt.Sprintf("TKT-%d-%03d", year, sequence)
}

var ticketStatusOrder = map[TicketStatus]int{
	TicketStatusSubmitted:  0,
	TicketStatusClassified: 1,
	TicketStatusInProgress: 2,
	TicketStatusResolved:   3,
}

// CanTransitionTo reports whether moving to next respects the forward-only
// ticket lifecycle.
func (t *Ticket) CanTransitionTo(next TicketStatus) bool {
	cur, okCur := ticketStatusOrder[t.Status]
	nxt, okNext := ticketStatusOrder[next]
	if !okCur || !okNext {
		return false
	}
	return nxt > cur
}

// AllThreadsResolved reports whether every owned thread has been resolved.
// False when the ticket has no threads yet.
func (t *Ticket) AllThreadsResolved() bool {
	if len(t.Threads) == 0 {
		return false
	}
	for _, thread := range t.Threads {
		if thread.Status != ThreadStatusResolved {
			return false
		}
	}
	return true
}

// Clone deep-copies the ticket including its threads.
func (t *Ticket) Clone() *Ticket {
	clone := *t
	if t.Classification != nil {
		classification := *t.Classification
		classification.SkillTags = append([]SkillType(nil), t.Classification.SkillTags...)
		clone.Classification = &classification
	}
	if t.AssignedLeadID != nil {
		lead := *t.AssignedLeadID
		clone.AssignedLeadID = &lead
	}
	clone.Threads = make([]*IssueThread, 0, len(t.Threads))
	for _, thread := range t.Threads {
		clone.Threads = append(clone.Threads, thread.Clone())
	}
	return &clone
}
