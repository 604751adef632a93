package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
}

// UpdateTicketRequest carries a partial update; nil fields are absent.
type UpdateTicketRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TicketStatus `json:"status"`
}

// Patch converts the request into the domain patch shape.
func (r UpdateTicketRequest) Patch() domain.TicketPatch {
	return domain.TicketPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	UserID      string              `json:"userId"`
}

// DeleteTicketResponse reports a delete outcome, including the
// confirmation handshake.
type DeleteTicketResponse struct {
	Success              bool            `json:"success"`
	RequiresConfirmation bool            `json:"requiresConfirmation,omitempty"`
	Ticket               *TicketResponse `json:"ticket,omitempty"`
	DeletedTicket        *TicketResponse `json:"deletedTicket,omitempty"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		UserID:      ticket.UserID,
	}
}

// NewTicketResponses maps a slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, NewTicketResponse(ticket))
	}
	return items
}
