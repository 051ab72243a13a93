package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nachtkarte/nachtkarte/internal/config"
	"github.com/nachtkarte/nachtkarte/internal/database"
	"github.com/nachtkarte/nachtkarte/internal/feed"
	"github.com/nachtkarte/nachtkarte/internal/handlers"
	"github.com/nachtkarte/nachtkarte/internal/logging"
	"github.com/nachtkarte/nachtkarte/internal/middleware"
	"github.com/nachtkarte/nachtkarte/internal/realtime"
	"github.com/nachtkarte/nachtkarte/internal/routes"
	"github.com/nachtkarte/nachtkarte/internal/services"
	"github.com/nachtkarte/nachtkarte/internal/store"
)

func main() {
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	database.SeedVenues()
	database.SeedEvents()

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Change notifications fan out to websocket clients
	notifier := feed.NewNotifier()

	// Stores
	reportStore := store.NewReportStore(database.DB, notifier)
	newsStore := store.NewNewsStore(database.DB, notifier)
	voteStore := store.NewVoteStore(database.DB)
	flagStore := store.NewFlagStore(database.DB)
	eventStore := store.NewEventStore(database.DB)
	venueStore := store.NewVenueStore(database.DB)

	venues, err := venueStore.Directory(context.Background())
	if err != nil {
		slog.Error("failed to load venue directory", "error", err)
		os.Exit(1)
	}
	slog.Info("venue directory loaded", "venues", len(venues))

	classifier := feed.Classifier{
		FreshCutoff:      cfg.FreshCutoff,
		RecentCutoff:     cfg.RecentCutoff,
		ConfidenceWindow: cfg.ConfidenceWindow,
		HighMin:          cfg.ConfidenceHighMin,
		MedMin:           cfg.ConfidenceMedMin,
	}

	aggregator := feed.NewAggregator(reportStore, newsStore, voteStore, flagStore, venues, classifier, notifier, slog.Default())
	timeline := feed.NewTimelineAggregator(reportStore, newsStore, eventStore, venues, cfg.PerVenueLimit, cfg.DistanceBatchSize, slog.Default())

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	reportService := services.NewReportService(database.DB, reportStore, cfg)
	venueService := services.NewVenueService(database.DB, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	feedHandler := handlers.NewFeedHandler(aggregator)
	timelineHandler := handlers.NewTimelineHandler(timeline)
	reportHandler := handlers.NewReportHandler(reportService, reportStore)
	venueHandler := handlers.NewVenueHandler(venueService)
	eventHandler := handlers.NewEventHandler(eventStore)

	// Websocket hub: any data change tells clients to refetch
	hub := realtime.NewHub(slog.Default())
	unsubscribe := notifier.Subscribe(hub.Broadcast)
	defer unsubscribe()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, authHandler, healthHandler, feedHandler, timelineHandler, reportHandler, venueHandler, eventHandler, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
