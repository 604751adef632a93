package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/notify"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// SessionsHandler exposes the session lifecycle endpoints.
type SessionsHandler struct {
	sessions *session.Manager
	notify   *notify.Channel
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessions *session.Manager, channel *notify.Channel) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, notify: channel}
}

// Login handles POST /auth/login.
func (h *SessionsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return report(h.notify, outcome.Validation(map[string]string{"body": "invalid payload"}))
	}

	record, err := h.sessions.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return report(h.notify, err)
	}

	redirect, message := h.sessions.ConsumeRedirect(c.UserContext())
	h.notify.Show("Welcome back, "+record.User.Username, notify.KindSuccess, 0)

	return c.JSON(fiber.Map{
		"success": true,
		"data": dto.SessionResponse{
			User:      dto.NewUserResponse(record.User),
			ExpiresAt: record.ExpiresAt,
			Redirect:  redirect,
			Message:   message,
		},
	})
}

// Logout handles POST /auth/logout. Always succeeds, session or not.
func (h *SessionsHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())
	h.notify.Show("You have been logged out", notify.KindInfo, 0)
	return c.JSON(fiber.Map{"success": true})
}

// Refresh handles POST /auth/refresh.
func (h *SessionsHandler) Refresh(c *fiber.Ctx) error {
	if !h.sessions.Refresh(c.UserContext()) {
		return report(h.notify, outcome.Unauthenticated("no valid session to refresh"))
	}
	record := h.sessions.Session(c.UserContext())
	if record == nil {
		return report(h.notify, outcome.Unauthenticated("no valid session to refresh"))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": dto.SessionResponse{
			User:      dto.NewUserResponse(record.User),
			ExpiresAt: record.ExpiresAt,
		},
	})
}

// Me handles GET /auth/me.
func (h *SessionsHandler) Me(c *fiber.Ctx) error {
	if !h.sessions.IsAuthenticated(c.UserContext()) {
		return outcome.Unauthenticated("authentication required")
	}
	record := h.sessions.Session(c.UserContext())
	if record == nil {
		return outcome.Unauthenticated("authentication required")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": dto.SessionResponse{
			User:      dto.NewUserResponse(record.User),
			ExpiresAt: record.ExpiresAt,
		},
	})
}
