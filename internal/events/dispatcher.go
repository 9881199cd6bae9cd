package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	Recent(limit int) []Event
}

// historyCapacity bounds the retained event history for the read model.
const historyCapacity = 256

// inMemoryDispatcher is a simple synchronous dispatcher that also retains a
// bounded history of published events.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	history   []Event
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event. Handler
// errors do not stop delivery to the remaining handlers.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.Lock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.history = append(d.history, event)
	if len(d.history) > historyCapacity {
		d.history = d.history[len(d.history)-historyCapacity:]
	}
	d.mu.Unlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Recent returns up to limit most recent events, newest last.
func (d *inMemoryDispatcher) Recent(limit int) []Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if limit <= 0 || limit > len(d.history) {
		limit = len(d.history)
	}
	out := make([]Event, limit)
	copy(out, d.history[len(d.history)-limit:])
	return out
}
