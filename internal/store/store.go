// Package store holds the in-memory engineer roster and ticket/thread
// board. It is the only shared mutable state in the service; every
// mutation runs inside Apply under one write lock, which serializes
// assignment and completion effects and makes sibling-status checks
// observe a consistent snapshot.
package store

import (
	"sort"
	"sync"

	"github.com/spec-kit/crp-service/internal/domain"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

// Data is the raw mutable view handed to Apply callbacks. Callers must not
// retain pointers into it past the callback.
type Data struct {
	Engineers map[string]*domain.Engineer
	Tickets   map[string]*domain.Ticket
	Threads   map[string]*domain.IssueThread
}

// Store is the concurrency boundary around roster and board state.
type Store struct {
	mu       sync.RWMutex
	data     Data
	sequence int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: Data{
			Engineers: make(map[string]*domain.Engineer),
			Tickets:   make(map[string]*domain.Ticket),
			Threads:   make(map[string]*domain.IssueThread),
		},
	}
}

// Apply runs fn with exclusive access to the underlying data. All engine
// mutations go through here; two mutations on the same ticket or thread can
// never interleave.
func (s *Store) Apply(fn func(*Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

// NextTicketSequence increments and returns the session ticket counter.
func (s *Store) NextTicketSequence() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return s.sequence
}

// SetSequenceFloor raises the ticket counter so restored tickets never
// collide with new ones. Lower values are ignored.
func (s *Store) SetSequenceFloor(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.sequence {
		s.sequence = n
	}
}

// EngineerCount reports the roster size.
func (s *Store) EngineerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Engineers)
}

// AddEngineer inserts an engineer into the roster.
func (s *Store) AddEngineer(engineer *domain.Engineer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.Engineers[engineer.ID]; exists {
		return apperrors.NewConflict("engineer already exists", map[string]any{"engineer_id": engineer.ID})
	}
	s.data.Engineers[engineer.ID] = engineer
	return nil
}

// AddTicket inserts a ticket and indexes its threads.
func (s *Store) AddTicket(ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.Tickets[ticket.ID]; exists {
		return apperrors.NewConflict("ticket already exists", map[string]any{"ticket_id": ticket.ID})
	}
	s.data.Tickets[ticket.ID] = ticket
	for _, thread := range ticket.Threads {
		s.data.Threads[thread.ID] = thread
	}
	return nil
}

// IndexThreads registers threads added to an existing ticket. Must be
// called inside Apply by the engine after decomposition.
func (d *Data) IndexThreads(threads []*domain.IssueThread) {
	for _, thread := range threads {
		d.Threads[thread.ID] = thread
	}
}

// EngineerByID returns a copy of the engineer.
func (s *Store) EngineerByID(id string) (*domain.Engineer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engineer, ok := s.data.Engineers[id]
	if !ok {
		return nil, apperrors.NewNotFound("engineer", map[string]any{"engineer_id": id})
	}
	return engineer.Clone(), nil
}

// ListEngineers returns roster copies sorted by ID for stable output.
func (s *Store) ListEngineers() []*domain.Engineer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Engineer, 0, len(s.data.Engineers))
	for _, engineer := range s.data.Engineers {
		out = append(out, engineer.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TicketByID returns a deep copy of the ticket with its threads.
func (s *Store) TicketByID(id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.data.Tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket.Clone(), nil
}

// ListTickets returns ticket copies sorted by sequence.
func (s *Store) ListTickets() []*domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Ticket, 0, len(s.data.Tickets))
	for _, ticket := range s.data.Tickets {
		out = append(out, ticket.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// ThreadByID returns a copy of the thread.
func (s *Store) ThreadByID(id string) (*domain.IssueThread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread, ok := s.data.Threads[id]
	if !ok {
		return nil, apperrors.NewNotFound("thread", map[string]any{"thread_id": id})
	}
	return thread.Clone(), nil
}
