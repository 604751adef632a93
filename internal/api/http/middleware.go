package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/pkg/outcome"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// RequireSession gates protected routes. It records the intended
// redirect target before rejecting so the login flow can resume it.
func RequireSession(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessions.RedirectIfNotAuth(c.UserContext(), c.Path(), "Please log in to continue") {
			return outcome.Unauthenticated("authentication required")
		}
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the outermost operation boundary: any
// failure, including a recovered panic, becomes a tagged response and
// the process stays usable.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = outcome.Internal(nil)
			}
			if err != nil {
				failure := outcome.As(err)
				metrics.RecordError(c.Path(), c.Method(), string(failure.Kind))
				response := fiber.Map{
					"success": false,
					"error": fiber.Map{
						"kind":    failure.Kind,
						"message": failure.Message,
					},
				}
				if len(failure.Fields) > 0 {
					response["error"].(fiber.Map)["fields"] = failure.Fields
				}
				status := outcome.HTTPStatus(failure.Kind)
				if status >= 500 {
					logger.Error("request failed", zap.Error(failure))
				}
				c.Status(status)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
