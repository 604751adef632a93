package events

import (
	"context"
	"sync"
	"time"
)

// Type enumerates the domain event identifiers.
type Type string

const (
	TicketCreated Type = "ticket-created"
	TicketUpdated Type = "ticket-updated"
	TicketDeleted Type = "ticket-deleted"
)

// TicketTypes lists the three ticket-change events subscribers usually
// want together.
var TicketTypes = []Type{TicketCreated, TicketUpdated, TicketDeleted}

// Event describes one ticket change. Origin identifies the emitting
// process so cross-context relays can suppress echoes.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	TicketID  string    `json:"ticketId"`
	UserID    string    `json:"userId"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler handles a published event.
type Handler func(context.Context, Event) error

// Dispatcher allows event publication and subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[Type][]Handler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[Type][]Handler),
	}
}

// Publish synchronously invokes handlers for the given event. Handler
// errors do not stop delivery to the remaining handlers.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]Handler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType Type, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
