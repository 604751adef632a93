package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/events"
)

// Feedback translates ticket-change events into feedback messages so
// every mutation ends in a visible outcome, including mutations that
// arrive from another context.
type Feedback struct {
	channel *Channel
	logger  *zap.Logger
}

// NewFeedback creates the subscriber.
func NewFeedback(channel *Channel, logger *zap.Logger) *Feedback {
	return &Feedback{channel: channel, logger: logger}
}

// RegisterHandlers subscribes to the ticket-change events.
func (f *Feedback) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.TicketCreated, f.handle("Ticket created", KindSuccess))
	dispatcher.Subscribe(events.TicketUpdated, f.handle("Ticket updated", KindSuccess))
	dispatcher.Subscribe(events.TicketDeleted, f.handle("Ticket deleted", KindSuccess))
}

func (f *Feedback) handle(text string, kind Kind) events.Handler {
	return func(_ context.Context, event events.Event) error {
		f.logger.Debug("feedback for event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
		f.channel.Show(text, kind, 0)
		return nil
	}
}
