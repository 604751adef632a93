package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/notify"
	"github.com/spec-kit/ticket-desk/internal/ticket"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// TicketsHandler manages the ticket CRUD endpoints.
type TicketsHandler struct {
	tickets *ticket.Repository
	notify  *notify.Channel
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(repo *ticket.Repository, channel *notify.Channel) *TicketsHandler {
	return &TicketsHandler{tickets: repo, notify: channel}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return report(h.notify, outcome.Validation(map[string]string{"body": "invalid payload"}))
	}

	created, err := h.tickets.Create(c.UserContext(), ticket.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return report(h.notify, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewTicketResponse(*created),
	})
}

// List GET /tickets, optionally filtered by ?status=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	status := domain.TicketStatus(c.Query("status"))
	var tickets []domain.Ticket
	if status != "" {
		if !domain.ValidTicketStatus(status) {
			return report(h.notify, outcome.Validation(map[string]string{"status": "Status must be one of Open, In Progress, Closed"}))
		}
		tickets = h.tickets.ListByStatus(c.UserContext(), status)
	} else {
		tickets = h.tickets.List(c.UserContext())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewTicketResponses(tickets),
	})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	found := h.tickets.GetByID(c.UserContext(), c.Params("id"))
	if found == nil {
		return outcome.NotFound("ticket")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewTicketResponse(*found),
	})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return report(h.notify, outcome.Validation(map[string]string{"body": "invalid payload"}))
	}

	updated, err := h.tickets.Update(c.UserContext(), c.Params("id"), req.Patch())
	if err != nil {
		return report(h.notify, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewTicketResponse(*updated),
	})
}

// Delete DELETE /tickets/:id?confirmed=true. The unconfirmed call is a
// dry run: it reports the pending target without touching state.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	confirmed := c.QueryBool("confirmed")
	result, err := h.tickets.Delete(c.UserContext(), c.Params("id"), confirmed)
	if err != nil {
		return report(h.notify, err)
	}

	if result.RequiresConfirmation {
		pending := dto.NewTicketResponse(result.Ticket)
		return c.JSON(dto.DeleteTicketResponse{
			Success:              false,
			RequiresConfirmation: true,
			Ticket:               &pending,
		})
	}

	deleted := dto.NewTicketResponse(result.Ticket)
	return c.JSON(dto.DeleteTicketResponse{
		Success:       true,
		DeletedTicket: &deleted,
	})
}
