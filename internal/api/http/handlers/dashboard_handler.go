package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/controller"
)

// DashboardHandler serves the protected dashboard view.
type DashboardHandler struct {
	dashboard *controller.Dashboard
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *controller.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// View GET /dashboard.
func (h *DashboardHandler) View(c *fiber.Ctx) error {
	view, err := h.dashboard.Load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}
