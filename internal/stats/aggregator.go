package stats

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/ticket"
)

// Snapshot holds derived, non-persisted counts. Total always equals
// the sum of the three categories.
type Snapshot struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Closed     int `json:"closed"`
}

// Aggregator derives counts from the repository's current collection
// in one linear pass. The last snapshot is cached; invalidation is
// explicit — external mutations are not auto-detected.
type Aggregator struct {
	tickets *ticket.Repository
	logger  *zap.Logger

	mu     sync.Mutex
	cached *Snapshot
}

// NewAggregator constructs the aggregator.
func NewAggregator(tickets *ticket.Repository, logger *zap.Logger) *Aggregator {
	return &Aggregator{tickets: tickets, logger: logger}
}

// Calculate returns the cached snapshot when available unless
// forceRefresh bypasses it. Zero tickets yields an all-zero snapshot.
func (a *Aggregator) Calculate(ctx context.Context, forceRefresh bool) Snapshot {
	a.mu.Lock()
	if !forceRefresh && a.cached != nil {
		snapshot := *a.cached
		a.mu.Unlock()
		return snapshot
	}
	a.mu.Unlock()

	var snapshot Snapshot
	for _, t := range a.tickets.List(ctx) {
		snapshot.Total++
		switch t.Status {
		case domain.TicketStatusOpen:
			snapshot.Open++
		case domain.TicketStatusInProgress:
			snapshot.InProgress++
		case domain.TicketStatusClosed:
			snapshot.Closed++
		}
	}

	a.mu.Lock()
	a.cached = &snapshot
	a.mu.Unlock()
	return snapshot
}

// Invalidate drops the cached snapshot so the next Calculate recounts.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	a.cached = nil
	a.mu.Unlock()
}
