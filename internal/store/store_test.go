package store

import (
	"testing"

	"github.com/spec-kit/crp-service/internal/domain"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

func testEngineer(id string) *domain.Engineer {
	engineer := &domain.Engineer{
		ID:        id,
		Name:      id,
		Skills:    []domain.SkillType{domain.SkillDatabase},
		Expertise: map[domain.SkillType]int{domain.SkillDatabase: 80},
	}
	engineer.RecomputeAvailability()
	return engineer
}

func TestAddEngineerDuplicate(t *testing.T) {
	s := New()
	if err := s.AddEngineer(testEngineer("ENG-001")); err != nil {
		t.Fatalf("AddEngineer: %v", err)
	}
	if err := s.AddEngineer(testEngineer("ENG-001")); !apperrors.IsConflict(err) {
		t.Errorf("duplicate err = %v, want conflict", err)
	}
}

func TestEngineerByIDReturnsCopy(t *testing.T) {
	s := New()
	if err := s.AddEngineer(testEngineer("ENG-001")); err != nil {
		t.Fatalf("AddEngineer: %v", err)
	}

	first, err := s.EngineerByID("ENG-001")
	if err != nil {
		t.Fatalf("EngineerByID: %v", err)
	}
	first.CurrentWorkload = 99
	first.Expertise[domain.SkillDatabase] = 1

	second, err := s.EngineerByID("ENG-001")
	if err != nil {
		t.Fatalf("EngineerByID: %v", err)
	}
	if second.CurrentWorkload != 0 || second.Expertise[domain.SkillDatabase] != 80 {
		t.Error("mutating a returned engineer leaked into the store")
	}
}

func TestAddTicketIndexesThreads(t *testing.T) {
	s := New()
	ticket := &domain.Ticket{
		ID:       "TKT-2026-001",
		Sequence: 1,
		Status:   domain.TicketStatusClassified,
		Threads: []*domain.IssueThread{
			{ID: "THR-1-1", ParentTicketID: "TKT-2026-001", Status: domain.ThreadStatusOpen},
		},
	}
	if err := s.AddTicket(ticket); err != nil {
		t.Fatalf("AddTicket: %v", err)
	}

	thread, err := s.ThreadByID("THR-1-1")
	if err != nil {
		t.Fatalf("ThreadByID: %v", err)
	}
	if thread.ParentTicketID != ticket.ID {
		t.Errorf("ParentTicketID = %s, want %s", thread.ParentTicketID, ticket.ID)
	}

	if err := s.AddTicket(ticket); !apperrors.IsConflict(err) {
		t.Errorf("duplicate err = %v, want conflict", err)
	}
}

func TestNotFoundLookups(t *testing.T) {
	s := New()
	if _, err := s.EngineerByID("ENG-404"); !apperrors.IsNotFound(err) {
		t.Errorf("engineer err = %v, want not found", err)
	}
	if _, err := s.TicketByID("TKT-404"); !apperrors.IsNotFound(err) {
		t.Errorf("ticket err = %v, want not found", err)
	}
	if _, err := s.ThreadByID("THR-404"); !apperrors.IsNotFound(err) {
		t.Errorf("thread err = %v, want not found", err)
	}
}

func TestTicketSequence(t *testing.T) {
	s := New()
	if got := s.NextTicketSequence(); got != 1 {
		t.Errorf("NextTicketSequence = %d, want 1", got)
	}
	if got := s.NextTicketSequence(); got != 2 {
		t.Errorf("NextTicketSequence = %d, want 2", got)
	}

	s.SetSequenceFloor(10)
	if got := s.NextTicketSequence(); got != 11 {
		t.Errorf("NextTicketSequence after floor = %d, want 11", got)
	}

	// Lower floors are ignored.
	s.SetSequenceFloor(3)
	if got := s.NextTicketSequence(); got != 12 {
		t.Errorf("NextTicketSequence = %d, want 12", got)
	}
}

func TestListTicketsSortedBySequence(t *testing.T) {
	s := New()
	for _, seq := range []int{3, 1, 2} {
		ticket := &domain.Ticket{ID: domain.TicketID(2026, seq), Sequence: seq, Status: domain.TicketStatusSubmitted}
		if err := s.AddTicket(ticket); err != nil {
			t.Fatalf("AddTicket: %v", err)
		}
	}
	tickets := s.ListTickets()
	for i, ticket := range tickets {
		if ticket.Sequence != i+1 {
			t.Errorf("tickets[%d].Sequence = %d, want %d", i, ticket.Sequence, i+1)
		}
	}
}

func TestSeedRoster(t *testing.T) {
	s := New()
	if err := SeedRoster(s); err != nil {
		t.Fatalf("SeedRoster: %v", err)
	}
	if got := s.EngineerCount(); got != 8 {
		t.Fatalf("EngineerCount = %d, want 8", got)
	}

	// Seed workload 85 puts this engineer over the busy threshold on load.
	engineer, err := s.EngineerByID("ENG-007")
	if err != nil {
		t.Fatalf("EngineerByID: %v", err)
	}
	if engineer.Availability != domain.AvailabilityBusy {
		t.Errorf("ENG-007 availability = %s, want BUSY", engineer.Availability)
	}

	leads := 0
	for _, engineer := range s.ListEngineers() {
		if engineer.IsLeadEngineer {
			leads++
		}
	}
	if leads != 3 {
		t.Errorf("lead count = %d, want 3", leads)
	}
}
