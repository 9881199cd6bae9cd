// Package engine implements lead selection, per-thread engineer matching
// and the assignment/completion mutations on the shared roster and board.
// Matching is pure computation; mutations are serialized through the store
// and emit domain events after they commit.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crp-service/internal/domain"
	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/observability"
	"github.com/spec-kit/crp-service/internal/store"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// Engine is the only component allowed to mutate engineers, tickets and
// threads after intake.
type Engine struct {
	store      *store.Store
	dispatcher events.Dispatcher
	deltas     DeltaSource
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Dependencies bundles engine collaborators.
type Dependencies struct {
	Store      *store.Store
	Dispatcher events.Dispatcher
	Deltas     DeltaSource
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// New creates the engine. A nil delta source falls back to the random
// production source, a nil logger to a no-op logger.
func New(deps Dependencies) *Engine {
	deltas := deps.Deltas
	if deltas == nil {
		deltas = NewRandomDeltaSource()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		deltas:     deltas,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// RecommendLead ranks lead candidates for a classified ticket.
func (e *Engine) RecommendLead(ticketID string) ([]LeadCandidate, error) {
	ticket, err := e.store.TicketByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Classification == nil {
		return nil, apperrors.NewPreconditionFailed("ticket is not classified", map[string]any{"ticket_id": ticketID})
	}
	return RankLeadCandidates(ticket.Classification.SkillTags, e.store.ListEngineers()), nil
}

// RecommendForThread ranks engineer candidates for a thread.
func (e *Engine) RecommendForThread(threadID string) ([]ThreadCandidate, error) {
	thread, err := e.store.ThreadByID(threadID)
	if err != nil {
		return nil, err
	}
	return RankThreadCandidates(thread.RequiredSkills, e.store.ListEngineers()), nil
}

// CheckDominantLead evaluates the 70% dominance rule for an engineer
// against a ticket's skill tags.
func (e *Engine) CheckDominantLead(ticketID, engineerID string) (bool, error) {
	ticket, err := e.store.TicketByID(ticketID)
	if err != nil {
		return false, err
	}
	if ticket.Classification == nil {
		return false, apperrors.NewPreconditionFailed("ticket is not classified", map[string]any{"ticket_id": ticketID})
	}
	engineer, err := e.store.EngineerByID(engineerID)
	if err != nil {
		return false, err
	}
	return IsDominantLead(engineer, ticket.Classification.SkillTags), nil
}

// Assign puts a thread in progress under an engineer and charges the
// engineer a workload delta. Re-assigning a thread to the engineer who
// already holds it is a no-op; any other state mismatch is a conflict.
func (e *Engine) Assign(ctx context.Context, threadID, engineerID string) (*domain.IssueThread, error) {
	var result *domain.IssueThread
	var emitted []events.Event

	err := e.store.Apply(func(data *store.Data) error {
		thread, ok := data.Threads[threadID]
		if !ok {
			return apperrors.NewNotFound("thread", map[string]any{"thread_id": threadID})
		}
		engineer, ok := data.Engineers[engineerID]
		if !ok {
			return apperrors.NewNotFound("engineer", map[string]any{"engineer_id": engineerID})
		}
		switch thread.Status {
		case domain.ThreadStatusResolved:
			return apperrors.NewConflict("thread already resolved", map[string]any{"thread_id": threadID})
		case domain.ThreadStatusInProgress:
			if thread.AssignedEngineerID != nil && *thread.AssignedEngineerID == engineerID {
				result = thread.Clone()
				return nil
			}
			return apperrors.NewConflict("thread already assigned", map[string]any{
				"thread_id":   threadID,
				"assigned_to": thread.AssignedEngineerID,
			})
		}

		now := e.now()
		oldStatus := thread.Status
		thread.Status = domain.ThreadStatusInProgress
		thread.AssignedEngineerID = &engineerID
		thread.UpdatedAt = now

		engineer.CurrentWorkload = clampWorkload(engineer.CurrentWorkload + e.deltas.WorkloadDelta())
		engineer.RecomputeAvailability()

		emitted = append(emitted,
			e.newEvent(events.EventThreadUpdated, thread.ParentTicketID, events.ThreadUpdatedPayload{
				ThreadID:           thread.ID,
				OldStatus:          oldStatus,
				NewStatus:          thread.Status,
				AssignedEngineerID: thread.AssignedEngineerID,
			}),
			e.newEvent(events.EventEngineerUpdated, thread.ParentTicketID, events.EngineerUpdatedPayload{
				EngineerID:      engineer.ID,
				CurrentWorkload: engineer.CurrentWorkload,
				Availability:    engineer.Availability,
			}),
		)

		if ticket, ok := data.Tickets[thread.ParentTicketID]; ok && ticket.Status != domain.TicketStatusInProgress {
			if ticket.CanTransitionTo(domain.TicketStatusInProgress) {
				oldTicketStatus := ticket.Status
				ticket.Status = domain.TicketStatusInProgress
				ticket.UpdatedAt = now
				emitted = append(emitted, e.newEvent(events.EventTicketUpdated, ticket.ID, events.TicketUpdatedPayload{
					OldStatus:      oldTicketStatus,
					NewStatus:      ticket.Status,
					AssignedLeadID: ticket.AssignedLeadID,
				}))
			}
		}

		result = thread.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, emitted)
	e.metrics.RecordAssignment()
	e.logger.Info("thread assigned",
		zap.String("thread_id", threadID),
		zap.String("engineer_id", engineerID))
	return result, nil
}

// Complete resolves a thread with a solution, relieves the assignee's
// workload and promotes the parent ticket when the last sibling resolves.
// The sibling check runs inside the same critical section as the thread
// update, so concurrent completions cannot leave a fully-resolved ticket
// unpromoted or promote it twice.
func (e *Engine) Complete(ctx context.Context, threadID, solution string) (*domain.IssueThread, error) {
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, apperrors.NewValidationError("solution required", map[string]any{"thread_id": threadID})
	}

	var result *domain.IssueThread
	var emitted []events.Event

	err := e.store.Apply(func(data *store.Data) error {
		thread, ok := data.Threads[threadID]
		if !ok {
			return apperrors.NewNotFound("thread", map[string]any{"thread_id": threadID})
		}
		if thread.Status == domain.ThreadStatusResolved {
			return apperrors.NewConflict("thread already resolved", map[string]any{"thread_id": threadID})
		}
		if thread.AssignedEngineerID == nil {
			return apperrors.NewPreconditionFailed("thread has no assigned engineer", map[string]any{"thread_id": threadID})
		}

		now := e.now()
		oldStatus := thread.Status
		thread.Status = domain.ThreadStatusResolved
		thread.Solution = solution
		thread.UpdatedAt = now

		emitted = append(emitted, e.newEvent(events.EventThreadUpdated, thread.ParentTicketID, events.ThreadUpdatedPayload{
			ThreadID:           thread.ID,
			OldStatus:          oldStatus,
			NewStatus:          thread.Status,
			AssignedEngineerID: thread.AssignedEngineerID,
		}))

		if engineer, ok := data.Engineers[*thread.AssignedEngineerID]; ok {
			engineer.CurrentWorkload = clampWorkload(engineer.CurrentWorkload - e.deltas.WorkloadDelta())
			engineer.RecomputeAvailability()
			emitted = append(emitted, e.newEvent(events.EventEngineerUpdated, thread.ParentTicketID, events.EngineerUpdatedPayload{
				EngineerID:      engineer.ID,
				CurrentWorkload: engineer.CurrentWorkload,
				Availability:    engineer.Availability,
			}))
		}

		if ticket, ok := data.Tickets[thread.ParentTicketID]; ok {
			if ticket.AllThreadsResolved() && ticket.CanTransitionTo(domain.TicketStatusResolved) {
				oldTicketStatus := ticket.Status
				ticket.Status = domain.TicketStatusResolved
				ticket.UpdatedAt = now
				emitted = append(emitted, e.newEvent(events.EventTicketUpdated, ticket.ID, events.TicketUpdatedPayload{
					OldStatus:      oldTicketStatus,
					NewStatus:      ticket.Status,
					AssignedLeadID: ticket.AssignedLeadID,
				}))
			}
		}

		result = thread.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, emitted)
	e.metrics.RecordCompletion()
	e.logger.Info("thread completed", zap.String("thread_id", threadID))
	return result, nil
}

// SetAvailabilityOverride forces an engineer Offline or clears the
// override, after which the workload threshold rule applies again.
func (e *Engine) SetAvailabilityOverride(ctx context.Context, engineerID string, offline bool) (*domain.Engineer, error) {
	var result *domain.Engineer
	var emitted []events.Event

	err := e.store.Apply(func(data *store.Data) error {
		engineer, ok := data.Engineers[engineerID]
		if !ok {
			return apperrors.NewNotFound("engineer", map[string]any{"engineer_id": engineerID})
		}
		engineer.ForcedOffline = offline
		engineer.RecomputeAvailability()
		emitted = append(emitted, e.newEvent(events.EventEngineerUpdated, "", events.EngineerUpdatedPayload{
			EngineerID:      engineer.ID,
			CurrentWorkload: engineer.CurrentWorkload,
			Availability:    engineer.Availability,
		}))
		result = engineer.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, emitted)
	return result, nil
}

func (e *Engine) newEvent(eventType events.EventType, ticketID string, payload any) events.Event {
	return events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: e.now(),
		Payload:   payload,
	}
}

// publish delivers events after the store lock is released so handlers
// never run inside the critical section.
func (e *Engine) publish(ctx context.Context, emitted []events.Event) {
	if e.dispatcher == nil {
		return
	}
	for _, event := range emitted {
		_ = e.dispatcher.Publish(ctx, event)
	}
}

func clampWorkload(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
