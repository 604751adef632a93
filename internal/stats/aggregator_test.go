package stats

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/internal/storage"
	"github.com/spec-kit/ticket-desk/internal/ticket"
)

func newTestAggregator(t *testing.T) (*Aggregator, *ticket.Repository) {
	t.Helper()
	store := storage.NewAdapter(storage.NewMemoryKV(0), zap.NewNop())
	transient := storage.NewAdapter(storage.NewMemoryKV(0), zap.NewNop())
	tokens := session.NewTokenManager("test-secret")
	sessions, err := session.NewManager(store, transient, tokens, config.AuthConfig{JWTSecret: "test-secret", SessionTTLHours: 24}, zap.NewNop())
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	if _, err := sessions.Login(context.Background(), "demo", "password"); err != nil {
		t.Fatalf("login: %v", err)
	}

	repo := ticket.NewRepository(ticket.Dependencies{
		Store:    store,
		Sessions: sessions,
		Logger:   zap.NewNop(),
	})
	t.Cleanup(func() {
		store.Close()
		transient.Close()
	})
	return NewAggregator(repo, zap.NewNop()), repo
}

func seedTickets(t *testing.T, repo *ticket.Repository, open, inProgress, closed int) {
	t.Helper()
	ctx := context.Background()
	counts := map[domain.TicketStatus]int{
		domain.TicketStatusOpen:       open,
		domain.TicketStatusInProgress: inProgress,
		domain.TicketStatusClosed:     closed,
	}
	i := 0
	for status, n := range counts {
		for j := 0; j < n; j++ {
			i++
			if _, err := repo.Create(ctx, ticket.CreateInput{
				Title:  fmt.Sprintf("ticket %03d", i),
				Status: status,
			}); err != nil {
				t.Fatalf("seed ticket %d: %v", i, err)
			}
		}
	}
}

func TestCalculateZeroTickets(t *testing.T) {
	aggregator, _ := newTestAggregator(t)

	snapshot := aggregator.Calculate(context.Background(), false)
	if snapshot != (Snapshot{}) {
		t.Errorf("snapshot = %+v, want all zeros", snapshot)
	}
}

func TestCalculateConservation(t *testing.T) {
	aggregator, repo := newTestAggregator(t)
	seedTickets(t, repo, 40, 30, 30)

	snapshot := aggregator.Calculate(context.Background(), false)
	if snapshot.Open != 40 || snapshot.InProgress != 30 || snapshot.Closed != 30 {
		t.Errorf("counts = %+v, want 40/30/30", snapshot)
	}
	if snapshot.Total != snapshot.Open+snapshot.InProgress+snapshot.Closed {
		t.Errorf("total %d != sum of categories %d", snapshot.Total,
			snapshot.Open+snapshot.InProgress+snapshot.Closed)
	}
	if snapshot.Total != 100 {
		t.Errorf("total = %d, want 100", snapshot.Total)
	}
}

func TestCalculateCaching(t *testing.T) {
	aggregator, repo := newTestAggregator(t)
	ctx := context.Background()
	seedTickets(t, repo, 2, 0, 0)

	first := aggregator.Calculate(ctx, false)
	if first.Total != 2 {
		t.Fatalf("total = %d, want 2", first.Total)
	}

	// A mutation the aggregator was not told about: the cache answers.
	seedTickets(t, repo, 1, 0, 0)
	if cached := aggregator.Calculate(ctx, false); cached.Total != 2 {
		t.Errorf("cached total = %d, want stale 2", cached.Total)
	}

	if fresh := aggregator.Calculate(ctx, true); fresh.Total != 3 {
		t.Errorf("forced total = %d, want 3", fresh.Total)
	}

	seedTickets(t, repo, 1, 0, 0)
	aggregator.Invalidate()
	if recount := aggregator.Calculate(ctx, false); recount.Total != 4 {
		t.Errorf("total after invalidate = %d, want 4", recount.Total)
	}
}

func TestDisplayUpdate(t *testing.T) {
	display := NewDisplay(zap.NewNop())
	got := map[string]int{}
	for _, name := range []string{TargetTotal, TargetOpen, TargetInProgress, TargetClosed} {
		name := name
		display.Register(name, func(count int) { got[name] = count })
	}

	display.Update(Snapshot{Total: 10, Open: 5, InProgress: 3, Closed: 2})

	want := map[string]int{TargetTotal: 10, TargetOpen: 5, TargetInProgress: 3, TargetClosed: 2}
	for name, count := range want {
		if got[name] != count {
			t.Errorf("%s = %d, want %d", name, got[name], count)
		}
	}
}

func TestDisplaySkipsMissingTargets(t *testing.T) {
	display := NewDisplay(zap.NewNop())
	var total int
	display.Register(TargetTotal, func(count int) { total = count })

	// Only one target registered; the other pushes must be no-ops.
	display.Update(Snapshot{Total: 7, Open: 4, InProgress: 2, Closed: 1})
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
}

func TestDisplayRegisterReplacesAndIgnoresNil(t *testing.T) {
	display := NewDisplay(zap.NewNop())
	var seen []int
	display.Register(TargetOpen, func(count int) { seen = append(seen, count) })
	display.Register(TargetOpen, func(count int) { seen = append(seen, count*10) })
	display.Register(TargetClosed, nil)

	display.Update(Snapshot{Open: 2})
	if len(seen) != 1 || seen[0] != 20 {
		t.Errorf("seen = %v, want [20]", seen)
	}
}
