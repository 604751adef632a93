package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishReachesAllHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var calls []string

	dispatcher.Subscribe(TicketCreated, func(_ context.Context, _ Event) error {
		calls = append(calls, "first")
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(TicketCreated, func(_ context.Context, _ Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(TicketDeleted, func(_ context.Context, _ Event) error {
		calls = append(calls, "wrong type")
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{ID: "e1", Type: TicketCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// The first handler's error must not block the second, and the
	// deleted-event handler must not fire.
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	if err := dispatcher.Publish(context.Background(), Event{ID: "e1", Type: TicketUpdated}); err != nil {
		t.Errorf("publish without subscribers: %v", err)
	}
}
