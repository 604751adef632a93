package notify

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/events"
)

func newTestChannel(t *testing.T, ttl time.Duration) *Channel {
	t.Helper()
	channel := NewChannel(ttl, zap.NewNop())
	t.Cleanup(channel.Close)
	return channel
}

func TestShowEscapesHTML(t *testing.T) {
	channel := newTestChannel(t, time.Minute)

	channel.Show(`<script>alert("x")</script>`, KindInfo, 0)

	active := channel.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d messages, want 1", len(active))
	}
	want := "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;"
	if active[0].Text != want {
		t.Errorf("text = %q, want %q", active[0].Text, want)
	}
}

func TestShowIDsStrictlyIncrease(t *testing.T) {
	channel := newTestChannel(t, time.Minute)

	var last int64
	for i := 0; i < 10; i++ {
		id := channel.Show("message", KindInfo, 0)
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}

	// Dismissal must not recycle ids.
	channel.Dismiss(last)
	if id := channel.Show("after dismiss", KindInfo, 0); id <= last {
		t.Errorf("id %d reused after dismiss of %d", id, last)
	}
}

func TestKindGlyphs(t *testing.T) {
	for kind, glyph := range map[Kind]string{
		KindSuccess: "✓",
		KindError:   "✕",
		KindWarning: "⚠",
		KindInfo:    "ℹ",
	} {
		if got := kind.Glyph(); got != glyph {
			t.Errorf("%s glyph = %q, want %q", kind, got, glyph)
		}
	}
}

func TestShowUnknownKindFallsBackToInfo(t *testing.T) {
	channel := newTestChannel(t, time.Minute)

	channel.Show("odd", Kind("celebration"), 0)
	active := channel.Active()
	if len(active) != 1 || active[0].Kind != KindInfo {
		t.Errorf("active = %+v, want single info message", active)
	}
}

func TestDismissIndependent(t *testing.T) {
	channel := newTestChannel(t, time.Minute)

	first := channel.Show("first", KindSuccess, 0)
	second := channel.Show("second", KindError, 0)
	third := channel.Show("third", KindWarning, 0)

	if !channel.Dismiss(second) {
		t.Fatal("dismiss of live message returned false")
	}
	if channel.Dismiss(second) {
		t.Error("second dismiss of same id returned true")
	}

	active := channel.Active()
	if len(active) != 2 {
		t.Fatalf("active = %d messages, want 2", len(active))
	}
	if active[0].ID != first || active[1].ID != third {
		t.Errorf("survivors = %d, %d, want %d, %d", active[0].ID, active[1].ID, first, third)
	}
}

func TestAutoDismiss(t *testing.T) {
	channel := newTestChannel(t, time.Minute)

	channel.Show("short lived", KindInfo, 20*time.Millisecond)
	keeper := channel.Show("long lived", KindInfo, time.Minute)

	deadline := time.After(2 * time.Second)
	for {
		active := channel.Active()
		if len(active) == 1 {
			if active[0].ID != keeper {
				t.Fatalf("survivor = %d, want %d", active[0].ID, keeper)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("message not auto-dismissed; active = %+v", active)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCloseStopsEverything(t *testing.T) {
	channel := NewChannel(time.Minute, zap.NewNop())
	channel.Show("one", KindInfo, 0)
	channel.Show("two", KindInfo, 0)

	channel.Close()
	if active := channel.Active(); len(active) != 0 {
		t.Errorf("active after close = %+v, want none", active)
	}
}

func TestFeedbackOnTicketEvents(t *testing.T) {
	channel := newTestChannel(t, time.Minute)
	dispatcher := events.NewInMemoryDispatcher()
	NewFeedback(channel, zap.NewNop()).RegisterHandlers(dispatcher)

	ctx := context.Background()
	for _, eventType := range events.TicketTypes {
		if err := dispatcher.Publish(ctx, events.Event{ID: "e", Type: eventType, TicketID: "TKT-1-abc"}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}

	active := channel.Active()
	if len(active) != 3 {
		t.Fatalf("active = %d messages, want 3", len(active))
	}
	wantTexts := []string{"Ticket created", "Ticket updated", "Ticket deleted"}
	for i, msg := range active {
		if msg.Text != wantTexts[i] {
			t.Errorf("message %d = %q, want %q", i, msg.Text, wantTexts[i])
		}
		if msg.Kind != KindSuccess {
			t.Errorf("message %d kind = %s, want success", i, msg.Kind)
		}
	}
}
