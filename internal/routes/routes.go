package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/nachtkarte/nachtkarte/internal/config"
	"github.com/nachtkarte/nachtkarte/internal/handlers"
	"github.com/nachtkarte/nachtkarte/internal/middleware"
	"github.com/nachtkarte/nachtkarte/internal/realtime"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	feedHandler *handlers.FeedHandler,
	timelineHandler *handlers.TimelineHandler,
	reportHandler *handlers.ReportHandler,
	venueHandler *handlers.VenueHandler,
	eventHandler *handlers.EventHandler,
	hub *realtime.Hub,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Feed reads work anonymously; a JWT adds the caller's own vote state
	api.Get("/feed", middleware.JWTOptional(cfg), feedHandler.GetFeed)
	api.Get("/timeline", timelineHandler.GetTimeline)
	api.Get("/timeline/nearby", timelineHandler.GetTimelineNearby)

	api.Get("/venues", venueHandler.List)
	api.Get("/venues/:id/status", venueHandler.Status)
	api.Get("/venues/:id/reports", reportHandler.ByVenue)
	api.Get("/events", eventHandler.List)

	// Mutations require a signed-in user
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Create)
	api.Post("/reports/:id/vote", middleware.JWTProtected(cfg), feedHandler.Vote)
	api.Post("/reports/:id/flag", middleware.JWTProtected(cfg), feedHandler.Flag)
	api.Get("/users/me/stats", middleware.JWTProtected(cfg), reportHandler.MyStats)

	// Reload push channel
	app.Use("/ws", hub.Upgrade)
	app.Get("/ws", hub.Handler())
}
