package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Sessions      *handlers.SessionsHandler
	Tickets       *handlers.TicketsHandler
	Dashboard     *handlers.DashboardHandler
	Notifications *handlers.NotificationsHandler
	SessionGate   *session.Manager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Sessions.Login)
	authGroup.Post("/logout", cfg.Sessions.Logout)
	authGroup.Post("/refresh", cfg.Sessions.Refresh)
	authGroup.Get("/me", cfg.Sessions.Me)

	protected := app.Group("", RequireSession(cfg.SessionGate))
	protected.Get("/dashboard", cfg.Dashboard.View)

	tickets := protected.Group("/tickets")
	tickets.Get("", cfg.Tickets.List)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Delete("/:id", cfg.Notifications.Dismiss)
}
