package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/atmoslens/weather-dashboard/internal/api/http"
	"github.com/atmoslens/weather-dashboard/internal/cache"
	"github.com/atmoslens/weather-dashboard/internal/config"
	"github.com/atmoslens/weather-dashboard/internal/history"
	"github.com/atmoslens/weather-dashboard/internal/logger"
	"github.com/atmoslens/weather-dashboard/internal/metrics"
	"github.com/atmoslens/weather-dashboard/internal/scheduler"
	"github.com/atmoslens/weather-dashboard/internal/search"
	"github.com/atmoslens/weather-dashboard/internal/upstream"
	"github.com/atmoslens/weather-dashboard/internal/weather"
)

func main() {
	log := logger.Get()
	defer func() { _ = logger.Close() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Stores are constructed here and injected; nothing reaches them as
	// ambient global state.
	forecastCache := cache.New(cfg.CacheTTL)
	searches := search.NewStore(cfg.MaxRecent)
	histStore := history.NewStore(cfg.HistoryMaxPoints, cfg.HistoryMaxAge)

	client := upstream.NewClient(httpClient, cfg.OpenWeatherAPIKey, cfg.GoogleGeocoderKey, cfg.UpstreamMode)

	service := weather.NewService(client, forecastCache, searches, histStore, cfg.FallbackMode)
	defer service.Close()

	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service, searches)

	go func() {
		if err := metrics.Serve(":" + cfg.MetricsPort); err != nil {
			log.Warnw("metrics listener stopped", "error", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}
