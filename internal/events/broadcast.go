package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Broadcaster relays ticket-change events between processes sharing a
// store, over a Redis pub/sub channel. Locally published events go out
// on the channel; received events from other origins are replayed into
// the local dispatcher so subscribers see them as ordinary events.
type Broadcaster struct {
	client  *redis.Client
	channel string
	origin  string
	local   Dispatcher
	logger  *zap.Logger
}

// NewBroadcaster wires the relay onto the local dispatcher. origin must
// be unique per process.
func NewBroadcaster(client *redis.Client, channel, origin string, local Dispatcher, logger *zap.Logger) *Broadcaster {
	b := &Broadcaster{
		client:  client,
		channel: channel,
		origin:  origin,
		local:   local,
		logger:  logger,
	}
	for _, eventType := range TicketTypes {
		local.Subscribe(eventType, b.relayOut)
	}
	return b
}

// Listen consumes the channel until ctx is done, replaying foreign
// events locally. Run it on its own goroutine.
func (b *Broadcaster) Listen(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("unreadable cross-context event", zap.Error(err))
				continue
			}
			if event.Origin == b.origin {
				continue
			}
			_ = b.local.Publish(ctx, event)
		}
	}
}

// relayOut forwards locally originated events to the channel. Events
// that arrived from another origin are not re-broadcast.
func (b *Broadcaster) relayOut(ctx context.Context, event Event) error {
	if event.Origin != b.origin {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Warn("cross-context publish failed", zap.Error(err))
	}
	return nil
}
