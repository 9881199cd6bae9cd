package workflow

import (
	"testing"

	"github.com/spec-kit/crp-service/internal/domain"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

func TestTrackerAdvancesThroughStages(t *testing.T) {
	tracker := NewTracker()
	ticket := &domain.Ticket{ID: "TKT-2026-001", Subject: "Checkout degradation"}

	stages := []domain.WorkflowStage{
		domain.StageSubmission,
		domain.StageClassification,
		domain.StageResolution,
		domain.StageCompletion,
	}
	for _, stage := range stages {
		state, err := tracker.Advance(stage, ticket)
		if err != nil {
			t.Fatalf("Advance(%s): %v", stage, err)
		}
		if state.CurrentStage != stage {
			t.Errorf("CurrentStage = %s, want %s", state.CurrentStage, stage)
		}
		if state.TicketID != ticket.ID {
			t.Errorf("TicketID = %s, want %s", state.TicketID, ticket.ID)
		}
	}
}

func TestTrackerRejectsRegression(t *testing.T) {
	tracker := NewTracker()
	ticket := &domain.Ticket{ID: "TKT-2026-001", Subject: "Checkout degradation"}

	if _, err := tracker.Advance(domain.StageClassification, ticket); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if _, err := tracker.Advance(domain.StageSubmission, ticket); !apperrors.IsConflict(err) {
		t.Errorf("regression err = %v, want conflict", err)
	}
	if _, err := tracker.Advance(domain.StageClassification, ticket); !apperrors.IsConflict(err) {
		t.Errorf("re-entry err = %v, want conflict", err)
	}
}

func TestTrackerRejectsUnknownStage(t *testing.T) {
	tracker := NewTracker()
	if _, err := tracker.Advance("review", nil); !apperrors.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestTrackerCarriesTicketMetadata(t *testing.T) {
	tracker := NewTracker()
	ticket := &domain.Ticket{ID: "TKT-2026-001", Subject: "Checkout degradation"}

	if _, err := tracker.Advance(domain.StageSubmission, ticket); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	state, err := tracker.Advance(domain.StageClassification, nil)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.TicketID != ticket.ID || state.TicketSubject != ticket.Subject {
		t.Errorf("metadata lost on ticket-less advance: %+v", state)
	}
}

func TestTrackerCurrentAndReset(t *testing.T) {
	tracker := NewTracker()
	if tracker.Current() != nil {
		t.Fatal("Current() on fresh tracker should be nil")
	}

	if _, err := tracker.Advance(domain.StageSubmission, &domain.Ticket{ID: "TKT-2026-001"}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	state := tracker.Current()
	if state == nil || state.CurrentStage != domain.StageSubmission {
		t.Fatalf("Current() = %+v, want submission stage", state)
	}

	// Mutating the returned copy must not leak into the tracker.
	state.CurrentStage = domain.StageCompletion
	if tracker.Current().CurrentStage != domain.StageSubmission {
		t.Error("Current() returned aliased state")
	}

	tracker.Reset()
	if tracker.Current() != nil {
		t.Error("Current() after Reset should be nil")
	}
	if _, err := tracker.Advance(domain.StageSubmission, nil); err != nil {
		t.Errorf("Advance after Reset: %v", err)
	}
}
