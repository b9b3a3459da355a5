package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/mrnez/weewx-ecowitt-API/internal/api/http"
	"github.com/mrnez/weewx-ecowitt-API/internal/config"
	"github.com/mrnez/weewx-ecowitt-API/internal/ecowitt"
	"github.com/mrnez/weewx-ecowitt-API/internal/scheduler"
	"github.com/mrnez/weewx-ecowitt-API/internal/store"
)

func main() {
	log := &logrus.Logger{
		Out:       os.Stdout,
		Formatter: &logrus.TextFormatter{},
		Level:     logrus.InfoLevel,
		Hooks:     make(logrus.LevelHooks),
	}

	// Load configuration.
	cfg, err := config.Load(log.Infof)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Infof("configured: unit_system=%s, interval=%s, label_map entries=%d",
		cfg.UnitSystem, cfg.FetchInterval, len(cfg.LabelMap))

	// Shared HTTP client for the outbound vendor call.
	httpClient := &http.Client{
		Timeout: cfg.RequestTimeout,
	}

	client := ecowitt.NewClient(httpClient, ecowitt.Credentials{
		ApplicationKey: cfg.ApplicationKey,
		APIKey:         cfg.APIKey,
		MAC:            cfg.MAC,
	}, cfg.BaseURL)

	service := ecowitt.NewService(client, cfg.LabelMap, cfg.IgnoreValueError, log)

	// In-memory record store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Scheduler building and augmenting one record per interval.
	sched := scheduler.New(service, memStore, cfg.UnitSystem, cfg.FetchInterval, cfg.RequestTimeout, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weewx-ecowitt-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weewx-ecowitt-api",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Warnf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warnf("error during shutdown: %v", err)
	}
}
