package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/internal/stats"
	"github.com/spec-kit/ticket-desk/internal/ticket"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// Dashboard orchestrates the protected view: it gates on session
// validity, loads statistics into the display targets, and keeps the
// counts fresh when tickets change, locally or in another context.
type Dashboard struct {
	sessions *session.Manager
	tickets  *ticket.Repository
	stats    *stats.Aggregator
	display  *stats.Display
	logger   *zap.Logger
}

// View is what the dashboard shows.
type View struct {
	Username   string         `json:"username"`
	Statistics stats.Snapshot `json:"statistics"`
}

// NewDashboard constructs the controller and subscribes it to the
// ticket-change events so statistics refresh without polling.
func NewDashboard(sessions *session.Manager, tickets *ticket.Repository, aggregator *stats.Aggregator, display *stats.Display, logger *zap.Logger) *Dashboard {
	d := &Dashboard{
		sessions: sessions,
		tickets:  tickets,
		stats:    aggregator,
		display:  display,
		logger:   logger,
	}
	for _, eventType := range events.TicketTypes {
		tickets.Subscribe(eventType, d.onTicketChanged)
	}
	return d
}

// Load gates on the session and returns the view. When unauthenticated
// it records the redirect intent and reports the authentication failure.
func (d *Dashboard) Load(ctx context.Context) (*View, error) {
	if d.sessions.RedirectIfNotAuth(ctx, "/dashboard", "Please log in to view your dashboard") {
		return nil, outcome.Unauthenticated("authentication required")
	}
	user := d.sessions.CurrentUser(ctx)
	if user == nil {
		return nil, outcome.Unauthenticated("authentication required")
	}

	snapshot := d.stats.Calculate(ctx, false)
	d.display.Update(snapshot)
	return &View{Username: user.Username, Statistics: snapshot}, nil
}

// onTicketChanged forces a statistics refresh after any ticket change.
func (d *Dashboard) onTicketChanged(ctx context.Context, event events.Event) error {
	d.logger.Debug("refreshing statistics",
		zap.String("event_type", string(event.Type)),
		zap.String("origin", event.Origin))
	d.stats.Invalidate()
	if d.sessions.IsAuthenticated(ctx) {
		d.display.Update(d.stats.Calculate(ctx, true))
	}
	return nil
}
