package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-desk/internal/api/http"
	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/controller"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/notify"
	"github.com/spec-kit/ticket-desk/internal/observability"
	"github.com/spec-kit/ticket-desk/internal/session"
	"github.com/spec-kit/ticket-desk/internal/stats"
	"github.com/spec-kit/ticket-desk/internal/storage"
	"github.com/spec-kit/ticket-desk/internal/ticket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, redisKV, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store backend", zap.Error(err))
	}

	store := storage.NewAdapter(kv, logger)
	defer store.Close()
	transient := storage.NewAdapter(storage.NewMemoryKV(0), logger)

	origin := uuid.NewString()
	dispatcher := events.NewInMemoryDispatcher()

	tokens := session.NewTokenManager(cfg.Auth.JWTSecret)
	sessions, err := session.NewManager(store, transient, tokens, cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to build session manager", zap.Error(err))
	}

	repo := ticket.NewRepository(ticket.Dependencies{
		Store:      store,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Origin:     origin,
		Logger:     logger,
	})

	aggregator := stats.NewAggregator(repo, logger)
	display := stats.NewDisplay(logger)
	dashboard := controller.NewDashboard(sessions, repo, aggregator, display, logger)

	channel := notify.NewChannel(cfg.Notify.DefaultDuration(), logger)
	defer channel.Close()
	feedback := notify.NewFeedback(channel, logger)
	feedback.RegisterHandlers(dispatcher)

	if redisKV != nil {
		broadcaster := events.NewBroadcaster(redisKV.Client(), cfg.Redis.Channel, origin, dispatcher, logger)
		go broadcaster.Listen(ctx)
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(store, metrics),
		Sessions:      handlers.NewSessionsHandler(sessions, channel),
		Tickets:       handlers.NewTicketsHandler(repo, channel),
		Dashboard:     handlers.NewDashboardHandler(dashboard),
		Notifications: handlers.NewNotificationsHandler(channel),
		SessionGate:   sessions,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// openBackend selects the configured KV backend. The redis handle is
// returned separately so the event broadcaster can share the client.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.KV, *storage.RedisKV, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return storage.NewMemoryKV(cfg.Store.MemoryQuotaBytes), nil, nil
	case config.BackendSQLite:
		kv, err := storage.OpenSQLite(cfg.Store.SQLitePath, logger)
		return kv, nil, err
	case config.BackendPostgres:
		kv, err := storage.OpenPostgres(ctx, cfg.Store, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.RunMigrations {
			if err := kv.RunMigrations(ctx, logger); err != nil {
				return nil, nil, err
			}
		}
		return kv, nil, nil
	default:
		kv := storage.OpenRedis(cfg.Redis, logger)
		return kv, kv, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
