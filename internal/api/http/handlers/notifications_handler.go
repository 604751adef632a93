package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/notify"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// NotificationsHandler exposes the live feedback queue.
type NotificationsHandler struct {
	channel *notify.Channel
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(channel *notify.Channel) *NotificationsHandler {
	return &NotificationsHandler{channel: channel}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.channel.Active(),
	})
}

// Dismiss DELETE /notifications/:id.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return outcome.Validation(map[string]string{"id": "invalid notification id"})
	}
	if !h.channel.Dismiss(id) {
		return outcome.NotFound("notification")
	}
	return c.JSON(fiber.Map{"success": true})
}
