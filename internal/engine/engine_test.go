package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crp-service/internal/domain"
	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/store"
	apperrors "github.com/spec-kit/crp-service/pkg/util"
)

func newTestEngine(t *testing.T, delta int) (*Engine, *store.Store, events.Dispatcher) {
	t.Helper()
	st := store.New()
	dispatcher := events.NewInMemoryDispatcher()

	dbEngineer := engineerFixture("ENG-DB", false, 30, map[domain.SkillType]int{domain.SkillDatabase: 90})
	secEngineer := engineerFixture("ENG-SEC", false, 75, map[domain.SkillType]int{domain.SkillSecurity: 80})
	require.NoError(t, st.AddEngineer(dbEngineer))
	require.NoError(t, st.AddEngineer(secEngineer))

	now := time.Now()
	ticket := &domain.Ticket{
		ID:       domain.TicketID(2026, 1),
		Sequence: 1,
		Subject:  "Checkout degradation",
		Status:   domain.TicketStatusClassified,
		Classification: &domain.Classification{
			UrgencyScore:       80,
			ComplexityEstimate: domain.ComplexityHigh,
			SkillTags:          []domain.SkillType{domain.SkillDatabase, domain.SkillSecurity},
			RecommendedAction:  domain.ActionCRP,
			ConfidenceScore:    70,
		},
		Threads: []*domain.IssueThread{
			{
				ID:             domain.ThreadID(1, 1),
				ParentTicketID: domain.TicketID(2026, 1),
				Title:          "Data layer investigation",
				RequiredSkills: []domain.SkillType{domain.SkillDatabase},
				Priority:       80,
				Status:         domain.ThreadStatusOpen,
				CreatedAt:      now,
				UpdatedAt:      now,
			},
			{
				ID:             domain.ThreadID(1, 2),
				ParentTicketID: domain.TicketID(2026, 1),
				Title:          "Security review",
				RequiredSkills: []domain.SkillType{domain.SkillSecurity},
				Priority:       70,
				Status:         domain.ThreadStatusOpen,
				CreatedAt:      now,
				UpdatedAt:      now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.AddTicket(ticket))

	eng := New(Dependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Deltas:     FixedDeltaSource(delta),
	})
	return eng, st, dispatcher
}

func TestAssignHappyPath(t *testing.T) {
	eng, st, dispatcher := newTestEngine(t, 10)

	thread, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	require.Equal(t, domain.ThreadStatusInProgress, thread.Status)
	require.NotNil(t, thread.AssignedEngineerID)
	require.Equal(t, "ENG-DB", *thread.AssignedEngineerID)

	engineer, err := st.EngineerByID("ENG-DB")
	require.NoError(t, err)
	require.Equal(t, 40, engineer.CurrentWorkload)
	require.Equal(t, domain.AvailabilityAvailable, engineer.Availability)

	ticket, err := st.TicketByID("TKT-2026-001")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusInProgress, ticket.Status)

	types := map[events.EventType]int{}
	for _, event := range dispatcher.Recent(0) {
		types[event.Type]++
	}
	require.Equal(t, 1, types[events.EventThreadUpdated])
	require.Equal(t, 1, types[events.EventEngineerUpdated])
	require.Equal(t, 1, types[events.EventTicketUpdated])
}

func TestAssignIdempotentForSameEngineer(t *testing.T) {
	eng, st, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)

	engineer, err := st.EngineerByID("ENG-DB")
	require.NoError(t, err)
	require.Equal(t, 40, engineer.CurrentWorkload, "repeat assignment must not charge workload twice")
}

func TestAssignConflictForOtherEngineer(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Assign(context.Background(), "THR-1-1", "ENG-SEC")
	require.True(t, apperrors.IsConflict(err), "err = %v", err)
}

func TestAssignResolvedThreadConflict(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Complete(context.Background(), "THR-1-1", "rebuilt the index")
	require.NoError(t, err)

	_, err = eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.True(t, apperrors.IsConflict(err), "err = %v", err)
}

func TestAssignNotFound(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-9-9", "ENG-DB")
	require.True(t, apperrors.IsNotFound(err), "err = %v", err)

	_, err = eng.Assign(context.Background(), "THR-1-1", "ENG-NOBODY")
	require.True(t, apperrors.IsNotFound(err), "err = %v", err)
}

func TestAssignCrossesBusyThreshold(t *testing.T) {
	eng, st, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-2", "ENG-SEC")
	require.NoError(t, err)

	engineer, err := st.EngineerByID("ENG-SEC")
	require.NoError(t, err)
	require.Equal(t, 85, engineer.CurrentWorkload)
	require.Equal(t, domain.AvailabilityBusy, engineer.Availability)
}

func TestCompleteRequiresSolution(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Complete(context.Background(), "THR-1-1", "   ")
	require.True(t, apperrors.IsValidation(err), "err = %v", err)
}

func TestCompleteRequiresAssignee(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Complete(context.Background(), "THR-1-1", "restarted the service")
	require.True(t, apperrors.IsPreconditionFailed(err), "err = %v", err)
}

func TestCompleteRelievesWorkload(t *testing.T) {
	eng, st, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)

	thread, err := eng.Complete(context.Background(), "THR-1-1", "rebuilt the index")
	require.NoError(t, err)
	require.Equal(t, domain.ThreadStatusResolved, thread.Status)
	require.Equal(t, "rebuilt the index", thread.Solution)

	engineer, err := st.EngineerByID("ENG-DB")
	require.NoError(t, err)
	require.Equal(t, 30, engineer.CurrentWorkload)
}

func TestCompleteWorkloadClampedAtZero(t *testing.T) {
	eng, st, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)

	require.NoError(t, st.Apply(func(data *store.Data) error {
		data.Engineers["ENG-DB"].CurrentWorkload = 5
		return nil
	}))

	_, err = eng.Complete(context.Background(), "THR-1-1", "rebuilt the index")
	require.NoError(t, err)

	engineer, err := st.EngineerByID("ENG-DB")
	require.NoError(t, err)
	require.Equal(t, 0, engineer.CurrentWorkload)
}

func TestCompleteConflictWhenAlreadyResolved(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)

	_, err := eng.Assign(context.Background(), "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Complete(context.Background(), "THR-1-1", "rebuilt the index")
	require.NoError(t, err)
	_, err = eng.Complete(context.Background(), "THR-1-1", "did it again")
	require.True(t, apperrors.IsConflict(err), "err = %v", err)
}

func TestCompletePromotesTicketOnlyWhenAllSiblingsResolved(t *testing.T) {
	eng, st, _ := newTestEngine(t, 10)
	ctx := context.Background()

	_, err := eng.Assign(ctx, "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Assign(ctx, "THR-1-2", "ENG-SEC")
	require.NoError(t, err)

	_, err = eng.Complete(ctx, "THR-1-1", "rebuilt the index")
	require.NoError(t, err)

	ticket, err := st.TicketByID("TKT-2026-001")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusInProgress, ticket.Status, "ticket must stay in progress with an open sibling")

	_, err = eng.Complete(ctx, "THR-1-2", "rotated the certificates")
	require.NoError(t, err)

	ticket, err = st.TicketByID("TKT-2026-001")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusResolved, ticket.Status)
}

func TestConcurrentCompletionsResolveTicketOnce(t *testing.T) {
	eng, st, dispatcher := newTestEngine(t, 10)
	ctx := context.Background()

	_, err := eng.Assign(ctx, "THR-1-1", "ENG-DB")
	require.NoError(t, err)
	_, err = eng.Assign(ctx, "THR-1-2", "ENG-SEC")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for _, threadID := range []string{"THR-1-1", "THR-1-2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := eng.Complete(ctx, id, "resolved")
			errCh <- err
		}(threadID)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	ticket, err := st.TicketByID("TKT-2026-001")
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusResolved, ticket.Status)

	resolvedEvents := 0
	for _, event := range dispatcher.Recent(0) {
		payload, ok := event.Payload.(events.TicketUpdatedPayload)
		if event.Type == events.EventTicketUpdated && ok && payload.NewStatus == domain.TicketStatusResolved {
			resolvedEvents++
		}
	}
	require.Equal(t, 1, resolvedEvents, "ticket resolution must be observed exactly once")
}

func TestSetAvailabilityOverride(t *testing.T) {
	eng, _, _ := newTestEngine(t, 10)
	ctx := context.Background()

	engineer, err := eng.SetAvailabilityOverride(ctx, "ENG-DB", true)
	require.NoError(t, err)
	require.Equal(t, domain.AvailabilityOffline, engineer.Availability)

	engineer, err = eng.SetAvailabilityOverride(ctx, "ENG-DB", false)
	require.NoError(t, err)
	require.Equal(t, domain.AvailabilityAvailable, engineer.Availability)

	_, err = eng.SetAvailabilityOverride(ctx, "ENG-NOBODY", true)
	require.True(t, apperrors.IsNotFound(err), "err = %v", err)
}
