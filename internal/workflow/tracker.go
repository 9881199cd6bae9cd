// Package workflow tracks which of the four linear stages a ticket's
// resolution run occupies. Pure bookkeeping for orchestration and display.
package workflow

import (
	"sync"

	"github.com/spec-kit/crp-service/internal/domain"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// Tracker records monotonic stage progression for the active run. Reset is
// the only way to rewind, used when starting a new demo run.
type Tracker struct {
	mu    sync.RWMutex
	state *domain.WorkflowState
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Advance moves the run to stage. Stages only move forward; regressing or
// re-entering the current stage is a conflict. Ticket metadata is
// denormalized onto the state for display.
func (t *Tracker) Advance(stage domain.WorkflowStage, ticket *domain.Ticket) (*domain.WorkflowState, error) {
	rank := domain.StageRank(stage)
	if rank < 0 {
		return nil, apperrors.NewValidationError("unknown workflow stage", map[string]any{"stage": stage})
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != nil && domain.StageRank(t.state.CurrentStage) >= rank {
		return nil, apperrors.NewConflict("workflow stage cannot regress", map[string]any{
			"current": t.state.CurrentStage,
			"target":  stage,
		})
	}

	state := &domain.WorkflowState{CurrentStage: stage}
	if t.state != nil {
		state.TicketID = t.state.TicketID
		state.TicketSubject = t.state.TicketSubject
	}
	if ticket != nil {
		state.TicketID = ticket.ID
		state.TicketSubject = ticket.Subject
	}
	t.state = state

	copied := *state
	return &copied, nil
}

// Current returns the active state, nil when no run has started.
func (t *Tracker) Current() *domain.WorkflowState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state == nil {
		return nil
	}
	copied := *t.state
	return &copied
}

// Reset clears the tracker for a fresh run.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = nil
}
