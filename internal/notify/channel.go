package notify

import (
	"html"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind classifies a feedback message.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Glyph returns the identifier rendered next to messages of this kind.
func (k Kind) Glyph() string {
	switch k {
	case KindSuccess:
		return "✓"
	case KindError:
		return "✕"
	case KindWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Message is one transient feedback entry. Text is already escaped;
// it is never to be interpreted as markup.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Kind      Kind      `json:"kind"`
	Glyph     string    `json:"glyph"`
	ShownAt   time.Time `json:"shownAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Channel is the transient feedback queue every higher-level operation
// reports outcomes to. Messages auto-dismiss after their duration
// unless dismissed first; lifetimes are independent and ids strictly
// increase.
type Channel struct {
	defaultTTL time.Duration
	logger     *zap.Logger

	mu     sync.Mutex
	nextID int64
	active map[int64]Message
	timers map[int64]*time.Timer
}

// NewChannel builds a channel with the given default auto-dismiss
// duration (~3s when zero).
func NewChannel(defaultTTL time.Duration, logger *zap.Logger) *Channel {
	if defaultTTL <= 0 {
		defaultTTL = 3 * time.Second
	}
	return &Channel{
		defaultTTL: defaultTTL,
		logger:     logger,
		active:     make(map[int64]Message),
		timers:     make(map[int64]*time.Timer),
	}
}

// Show enqueues a message and returns its id. Content is HTML-escaped
// so ticket text echoed back to the user can never inject markup.
// duration <= 0 selects the channel default.
func (c *Channel) Show(text string, kind Kind, duration time.Duration) int64 {
	if duration <= 0 {
		duration = c.defaultTTL
	}
	switch kind {
	case KindSuccess, KindError, KindWarning, KindInfo:
	default:
		kind = KindInfo
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	now := time.Now()
	c.active[id] = Message{
		ID:        id,
		Text:      html.EscapeString(text),
		Kind:      kind,
		Glyph:     kind.Glyph(),
		ShownAt:   now,
		ExpiresAt: now.Add(duration),
	}
	c.timers[id] = time.AfterFunc(duration, func() {
		c.Dismiss(id)
	})
	return id
}

// Dismiss removes one message; other messages are unaffected. Returns
// false when the id is unknown or already gone.
func (c *Channel) Dismiss(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.active[id]; !ok {
		return false
	}
	delete(c.active, id)
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	return true
}

// Active lists the live messages in arrival order.
func (c *Channel) Active() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]Message, 0, len(c.active))
	for _, msg := range c.active {
		messages = append(messages, msg)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages
}

// Close stops all pending auto-dismiss timers.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.active = make(map[int64]Message)
}
