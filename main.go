// main.go
package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/marek-cottingham/steam-api-token-gen-backend/config"
	"github.com/marek-cottingham/steam-api-token-gen-backend/handlers"
	"github.com/marek-cottingham/steam-api-token-gen-backend/logging"
	"github.com/marek-cottingham/steam-api-token-gen-backend/metrics"
	"github.com/marek-cottingham/steam-api-token-gen-backend/middleware"
	"github.com/marek-cottingham/steam-api-token-gen-backend/services"
	"github.com/marek-cottingham/steam-api-token-gen-backend/steam"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load("")
	if err != nil {
		logrus.Fatalf("FATAL: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("FATAL: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.IsProduction())

	client, err := steam.New(steam.Config{
		BaseURL:  cfg.SteamBaseURL,
		APIKey:   cfg.SteamAPIKey,
		Language: cfg.SteamLanguage,
		Timeout:  cfg.SteamHTTPTimeout,
		Logger:   log,
	})
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	aggregator := services.NewAggregator(client, log)

	var limiter *middleware.RateLimiter
	stopCleanup := make(chan struct{})
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(10*time.Minute, stopCleanup)
	}

	app := setupApp(cfg, aggregator, limiter, log)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("🛑 Shutting down")
		close(stopCleanup)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.Infof("🚀 HTTP server starting on port %s", cfg.Port)
	log.Infof("📊 Environment: %s", cfg.AppEnv)
	log.Infof("🎮 Steam API: %s (language %s)", cfg.SteamBaseURL, cfg.SteamLanguage)
	if cfg.ConfigFile != "" {
		log.Infof("📄 Config file: %s", cfg.ConfigFile)
	}

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

// setupApp builds the Fiber app with middleware and routes. limiter may be
// nil to disable rate limiting.
func setupApp(cfg *config.Config, aggregator handlers.AchievementAggregator, limiter *middleware.RateLimiter, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          newErrorHandler(cfg.IsProduction(), log),
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency}) ${locals:requestid}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if limiter != nil {
		app.Use(middleware.FiberRateLimitMiddleware(limiter))
	}

	achievements := handlers.NewAchievementHandler(aggregator)
	app.Get("/getAchievementList", achievements.GetAchievementList)

	api := app.Group("/api")
	api.Get("/achievements", achievements.GetAchievementList)

	app.Get("/health", handlers.Health)
	app.Get("/metrics", metrics.Handler())

	return app
}

// newErrorHandler renders every error as {"success": false, "error": ...}.
// Aggregation errors keep their message, which is already key-redacted.
func newErrorHandler(production bool, log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case isAggregationError(err):
			log.WithField("request_id", handlers.RequestID(c)).WithError(err).Warn("achievement list failed")
		default:
			log.WithField("request_id", handlers.RequestID(c)).WithError(err).Error("unhandled error")
			// Don't expose internal errors in production
			if production {
				message = "An error occurred. Please try again later."
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

func isAggregationError(err error) bool {
	var (
		validation *steam.ValidationError
		logic      *steam.UpstreamLogicError
		transport  *steam.UpstreamTransportError
		invalid    *steam.InvalidUserError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &logic) ||
		errors.As(err, &transport) ||
		errors.As(err, &invalid)
}
