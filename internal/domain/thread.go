package domain

import (
	"fmt"
	"time"
)

// ThreadStatus enumerates lifecycle states for issue threads.
type ThreadStatus string

const (
	ThreadStatusOpen       ThreadStatus = "OPEN"
	ThreadStatusInProgress ThreadStatus = "IN_PROGRESS"
	ThreadStatusResolved   ThreadStatus = "RESOLVED"
)

// IssueThread is a skill-tagged unit of work decomposed from a ticket.
// A Resolved thread always carries a non-empty solution and an assignee.
type IssueThread struct {
	ID                 string
	ParentTicketID     string
	Title              string
	Description        string
	RequiredSkills     []SkillType
	Priority           int
	AssignedEngineerID *string
	Status             ThreadStatus
	Solution           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ThreadID renders the canonical thread identifier for a ticket sequence
// and thread index (1-based).
func ThreadID(ticketSequence, threadIndex int) string {
	return fmt.Sprintf("THR-%d-%d", ticketSequence, threadIndex)
}

// Clone returns a deep copy of the thread.
func (th *IssueThread) Clone() *IssueThread {
	clone := *th
	clone.RequiredSkills = append([]SkillType(nil), th.RequiredSkills...)
	if th.AssignedEngineerID != nil {
		id := *th.AssignedEngineerID
		clone.AssignedEngineerID = &id
	}
	return &clone
}
