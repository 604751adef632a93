package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/storage"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	store   *storage.Adapter
	metrics *observability.Metrics
}

// NewHealthHandler constructs handler.
func NewHealthHandler(store *storage.Adapter, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{store: store, metrics: metrics}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready GET /health/ready. Unhealthy when the store backend is
// unreachable.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	requests, failures := h.metrics.Totals()
	return c.JSON(fiber.Map{
		"status":   "ok",
		"requests": requests,
		"failures": failures,
	})
}
