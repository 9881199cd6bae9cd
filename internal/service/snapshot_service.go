package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/repository"
	"github.com/spec-kit/crp-service/internal/store"
)

// SnapshotService is the persistence collaborator: it writes best-effort
// snapshots of engineers, tickets and threads to Postgres after each
// mutation, and restores them into the in-memory store at startup. The
// engine never blocks on it.
type SnapshotService struct {
	store      *store.Store
	dispatcher events.Dispatcher
	engineers  repository.EngineerRepository
	tickets    repository.TicketRepository
	threads    repository.ThreadRepository
	logger     *zap.Logger
}

// SnapshotDependencies bundles snapshot collaborators.
type SnapshotDependencies struct {
	Store        *store.Store
	Dispatcher   events.Dispatcher
	EngineerRepo repository.EngineerRepository
	TicketRepo   repository.TicketRepository
	ThreadRepo   repository.ThreadRepository
	Logger       *zap.Logger
}

// NewSnapshotService creates the service.
func NewSnapshotService(deps SnapshotDependencies) *SnapshotService {
	return &SnapshotService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		engineers:  deps.EngineerRepo,
		tickets:    deps.TicketRepo,
		threads:    deps.ThreadRepo,
		logger:     deps.Logger,
	}
}

// Restore loads persisted state into the store. Returns the number of
// engineers restored so the caller can decide whether to seed the demo
// roster instead.
func (s *SnapshotService) Restore(ctx context.Context) (int, error) {
	engineers, err := s.engineers.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, engineer := range engineers {
		if err := s.store.AddEngineer(engineer); err != nil {
			return 0, err
		}
	}

	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	threads, err := s.threads.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	byTicket := make(map[string][]int)
	for i, thread := range threads {
		byTicket[thread.ParentTicketID] = append(byTicket[thread.ParentTicketID], i)
	}
	maxSequence := 0
	for _, ticket := range tickets {
		for _, i := range byTicket[ticket.ID] {
			ticket.Threads = append(ticket.Threads, threads[i])
		}
		if err := s.store.AddTicket(ticket); err != nil {
			return 0, err
		}
		if ticket.Sequence > maxSequence {
			maxSequence = ticket.Sequence
		}
	}
	s.store.SetSequenceFloor(maxSequence)

	s.logger.Info("state restored from snapshots",
		zap.Int("engineers", len(engineers)),
		zap.Int("tickets", len(tickets)),
		zap.Int("threads", len(threads)))
	return len(engineers), nil
}

// PersistRoster writes the current roster, used once after seeding.
func (s *SnapshotService) PersistRoster(ctx context.Context) error {
	for _, engineer := range s.store.ListEngineers() {
		if err := s.engineers.Upsert(ctx, engineer); err != nil {
			return err
		}
	}
	return nil
}

// RegisterHandlers subscribes snapshot writers to mutation events.
func (s *SnapshotService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketSubmitted, s.snapshotTicket)
	s.dispatcher.Subscribe(events.EventTicketClassified, s.snapshotTicket)
	s.dispatcher.Subscribe(events.EventTicketUpdated, s.snapshotTicket)
	s.dispatcher.Subscribe(events.EventThreadUpdated, s.snapshotThread)
	s.dispatcher.Subscribe(events.EventEngineerUpdated, s.snapshotEngineer)
}

func (s *SnapshotService) snapshotTicket(ctx context.Context, event events.Event) error {
	ticket, err := s.store.TicketByID(event.TicketID)
	if err != nil {
		return nil
	}
	if err := s.tickets.Upsert(ctx, ticket); err != nil {
		s.logger.Warn("ticket snapshot failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	for _, thread := range ticket.Threads {
		if err := s.threads.Upsert(ctx, thread); err != nil {
			s.logger.Warn("thread snapshot failed", zap.String("thread_id", thread.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *SnapshotService) snapshotThread(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ThreadUpdatedPayload)
	if !ok {
		return nil
	}
	thread, err := s.store.ThreadByID(payload.ThreadID)
	if err != nil {
		return nil
	}
	if err := s.threads.Upsert(ctx, thread); err != nil {
		s.logger.Warn("thread snapshot failed", zap.String("thread_id", thread.ID), zap.Error(err))
	}
	return nil
}

func (s *SnapshotService) snapshotEngineer(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EngineerUpdatedPayload)
	if !ok {
		return nil
	}
	engineer, err := s.store.EngineerByID(payload.EngineerID)
	if err != nil {
		return nil
	}
	if err := s.engineers.Upsert(ctx, engineer); err != nil {
		s.logger.Warn("engineer snapshot failed", zap.String("engineer_id", engineer.ID), zap.Error(err))
	}
	return nil
}
