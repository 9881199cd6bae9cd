package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := 0
	d.Subscribe(EventThreadUpdated, func(ctx context.Context, event Event) error {
		delivered++
		return nil
	})
	d.Subscribe(EventThreadUpdated, func(ctx context.Context, event Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventThreadUpdated, func(ctx context.Context, event Event) error {
		delivered++
		return nil
	})

	if err := d.Publish(context.Background(), Event{ID: "evt-1", Type: EventThreadUpdated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if delivered != 2 {
		t.Errorf("delivered = %d, want 2 (failing handler must not stop delivery)", delivered)
	}
}

func TestDispatcherIgnoresOtherTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTicketUpdated, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{ID: "evt-1", Type: EventThreadUpdated}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called {
		t.Error("handler for a different event type was invoked")
	}
}

func TestDispatcherRecentHistory(t *testing.T) {
	d := NewInMemoryDispatcher()
	ctx := context.Background()

	for i := 0; i < 300; i++ {
		if err := d.Publish(ctx, Event{ID: fmt.Sprintf("evt-%d", i), Type: EventTicketUpdated}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	all := d.Recent(0)
	if len(all) != 256 {
		t.Fatalf("len(Recent(0)) = %d, want capped history of 256", len(all))
	}
	if all[len(all)-1].ID != "evt-299" {
		t.Errorf("newest event = %s, want evt-299", all[len(all)-1].ID)
	}

	last := d.Recent(5)
	if len(last) != 5 {
		t.Fatalf("len(Recent(5)) = %d, want 5", len(last))
	}
	if last[0].ID != "evt-295" || last[4].ID != "evt-299" {
		t.Errorf("Recent(5) window = [%s..%s], want [evt-295..evt-299]", last[0].ID, last[4].ID)
	}
}
