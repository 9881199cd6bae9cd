package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/crp-service/internal/classifier"
	"github.com/spec-kit/crp-service/internal/decomposer"
	"github.com/spec-kit/crp-service/internal/domain"
	"github.com/spec-kit/crp-service/internal/engine"
	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/observability"
	"github.com/spec-kit/crp-service/internal/store"
	"github.com/spec-kit/crp-service/internal/workflow"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// IntakeService orchestrates the submission -> classification ->
// decomposition -> lead-selection pipeline. Classification and
// decomposition run synchronously; any progress theater belongs to
// callers.
type IntakeService struct {
	store      *store.Store
	dispatcher events.Dispatcher
	engine     *engine.Engine
	tracker    *workflow.Tracker
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// IntakeDependencies bundles intake collaborators.
type IntakeDependencies struct {
	Store      *store.Store
	Dispatcher events.Dispatcher
	Engine     *engine.Engine
	Tracker    *workflow.Tracker
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// SubmitInput describes a new ticket from the intake collaborator.
type SubmitInput struct {
	Subject        string
	Description    string
	Urgency        domain.TicketUrgency
	AffectedSystem string
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		engine:     deps.Engine,
		tracker:    deps.Tracker,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

var validUrgencies = map[domain.TicketUrgency]bool{
	domain.UrgencyLow:      true,
	domain.UrgencyMedium:   true,
	domain.UrgencyHigh:     true,
	domain.UrgencyCritical: true,
}

// SubmitTicket creates a ticket and starts a fresh workflow run.
func (s *IntakeService) SubmitTicket(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if input.Urgency == "" {
		input.Urgency = domain.UrgencyMedium
	}
	if !validUrgencies[input.Urgency] {
		return nil, apperrors.NewValidationError("unknown urgency", map[string]any{"urgency": input.Urgency})
	}

	now := s.now()
	sequence := s.store.NextTicketSequence()
	ticket := &domain.Ticket{
		ID:             domain.TicketID(now.Year(), sequence),
		Sequence:       sequence,
		Subject:        subject,
		Description:    strings.TrimSpace(input.Description),
		Urgency:        input.Urgency,
		AffectedSystem: strings.TrimSpace(input.AffectedSystem),
		Status:         domain.TicketStatusSubmitted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.AddTicket(ticket); err != nil {
		return nil, err
	}

	s.tracker.Reset()
	state, err := s.tracker.Advance(domain.StageSubmission, ticket)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketSubmitted, ticket.ID, events.TicketSubmittedPayload{
		Subject:        ticket.Subject,
		Urgency:        ticket.Urgency,
		AffectedSystem: ticket.AffectedSystem,
	})
	s.publish(ctx, events.EventWorkflowAdvanced, ticket.ID, events.WorkflowAdvancedPayload{
		Stage:         state.CurrentStage,
		TicketSubject: state.TicketSubject,
	})

	s.logger.Info("ticket submitted",
		zap.String("ticket_id", ticket.ID),
		zap.String("urgency", string(ticket.Urgency)))
	return ticket.Clone(), nil
}

// ClassifyTicket runs the rule-based classifier, decomposes the result
// into threads and attaches a lead recommendation. When the classifier
// recommends the collaborative path and the selected lead passes the
// dominance rule, resolution is launched immediately.
func (s *IntakeService) ClassifyTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	var result *domain.Ticket
	var lead *domain.Engineer
	var classification domain.Classification

	err := s.store.Apply(func(data *store.Data) error {
		ticket, ok := data.Tickets[ticketID]
		if !ok {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		if ticket.Status != domain.TicketStatusSubmitted {
			return apperrors.NewConflict("ticket already classified", map[string]any{
				"ticket_id": ticketID,
				"status":    ticket.Status,
			})
		}

		classification = classifier.Classify(classifier.Input{
			Subject:        ticket.Subject,
			Description:    ticket.Description,
			Urgency:        ticket.Urgency,
			AffectedSystem: ticket.AffectedSystem,
		})
		ticket.Classification = &classification
		ticket.Status = domain.TicketStatusClassified
		now := s.now()
		ticket.UpdatedAt = now

		if len(classification.SkillTags) > 0 {
			threads, err := decomposer.Decompose(ticket, now)
			if err != nil {
				return err
			}
			ticket.Threads = threads
			data.IndexThreads(threads)
		}

		engineers := make([]*domain.Engineer, 0, len(data.Engineers))
		for _, engineer := range data.Engineers {
			engineers = append(engineers, engineer)
		}
		if candidate := engine.SelectLead(classification.SkillTags, engineers); candidate != nil {
			leadID := candidate.ID
			ticket.AssignedLeadID = &leadID
			lead = candidate.Clone()
		}

		result = ticket.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordClassification()

	state, err := s.tracker.Advance(domain.StageClassification, result)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketClassified, result.ID, events.TicketClassifiedPayload{
		UrgencyScore:       classification.UrgencyScore,
		ComplexityEstimate: classification.ComplexityEstimate,
		SkillTags:          classification.SkillTags,
		RecommendedAction:  classification.RecommendedAction,
		ConfidenceScore:    classification.ConfidenceScore,
	})
	s.publish(ctx, events.EventTicketUpdated, result.ID, events.TicketUpdatedPayload{
		OldStatus:      domain.TicketStatusSubmitted,
		NewStatus:      result.Status,
		AssignedLeadID: result.AssignedLeadID,
	})
	s.publish(ctx, events.EventWorkflowAdvanced, result.ID, events.WorkflowAdvancedPayload{
		Stage:         state.CurrentStage,
		TicketSubject: state.TicketSubject,
	})

	s.logger.Info("ticket classified",
		zap.String("ticket_id", result.ID),
		zap.Int("urgency_score", classification.UrgencyScore),
		zap.String("complexity", string(classification.ComplexityEstimate)),
		zap.Int("skill_tags", len(classification.SkillTags)))

	// Auto-launch policy: collaborative routing plus the strict dominance
	// rule on the selected lead.
	if classification.RecommendedAction == domain.ActionCRP && lead != nil &&
		engine.IsDominantLead(lead, classification.SkillTags) {
		return s.LaunchResolution(ctx, result.ID)
	}
	return result, nil
}

// LaunchResolution moves the run into the resolution stage and assigns
// every open thread to its best-matching engineer. Threads with no
// positive match stay open for manual assignment.
func (s *IntakeService) LaunchResolution(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.store.TicketByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Classification == nil {
		return nil, apperrors.NewPreconditionFailed("ticket is not classified", map[string]any{"ticket_id": ticketID})
	}
	if len(ticket.Threads) == 0 {
		return nil, apperrors.NewPreconditionFailed("ticket has no threads", map[string]any{"ticket_id": ticketID})
	}

	state, err := s.tracker.Advance(domain.StageResolution, ticket)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventWorkflowAdvanced, ticket.ID, events.WorkflowAdvancedPayload{
		Stage:         state.CurrentStage,
		TicketSubject: state.TicketSubject,
	})

	for _, thread := range ticket.Threads {
		if thread.Status != domain.ThreadStatusOpen {
			continue
		}
		match := engine.MatchEngineerForThread(thread.RequiredSkills, s.store.ListEngineers())
		if match == nil {
			s.logger.Warn("no engineer match for thread", zap.String("thread_id", thread.ID))
			continue
		}
		if _, err := s.engine.Assign(ctx, thread.ID, match.ID); err != nil {
			return nil, err
		}
	}

	return s.store.TicketByID(ticketID)
}

// RegisterWorkflowHandlers keeps the workflow tracker in sync with ticket
// resolution: when the tracked ticket resolves, the run advances to
// completion.
func (s *IntakeService) RegisterWorkflowHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketUpdated, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.TicketUpdatedPayload)
		if !ok || payload.NewStatus != domain.TicketStatusResolved {
			return nil
		}
		current := s.tracker.Current()
		if current == nil || current.TicketID != event.TicketID {
			return nil
		}
		state, err := s.tracker.Advance(domain.StageCompletion, nil)
		if err != nil {
			return nil
		}
		s.publish(ctx, events.EventWorkflowAdvanced, event.TicketID, events.WorkflowAdvancedPayload{
			Stage:         state.CurrentStage,
			TicketSubject: state.TicketSubject,
		})
		return nil
	})
}

func (s *IntakeService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
