package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// AllTicketStatuses lists the valid statuses in display order.
var AllTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusClosed,
}

// ValidTicketStatus reports whether s is one of the three statuses.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is one trackable unit of work. The store holds tickets as a
// serialized collection; writes are always whole-record replacements.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	UserID      string       `json:"userId"`
}

// WellFormed reports whether a deserialized ticket satisfies the
// structural invariants. Raw store content is never trusted
// downstream; readers drop records that fail this check.
func (t Ticket) WellFormed() bool {
	if t.ID == "" || t.UserID == "" {
		return false
	}
	if !ValidTicketStatus(t.Status) {
		return false
	}
	if t.CreatedAt.IsZero() || t.UpdatedAt.Before(t.CreatedAt) {
		return false
	}
	return true
}

// TicketPatch carries a partial update. Nil fields are absent from the
// payload and are neither validated nor merged.
type TicketPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TicketStatus `json:"status"`
}

// Empty reports whether the patch carries no fields at all.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}
