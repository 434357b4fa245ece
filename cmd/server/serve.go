package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(appConfig)
	},
}

func runServe(cfg *config.Config) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if cfg.DBPassword == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return err
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(logging.NewGormSink(database.DB), logging.PGOptions{})
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, cfg.AppEnv),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	authService := services.NewAuthService(store.NewGormAuthStore(database.DB), cfg)
	moodService := services.NewMoodService(store.NewGormMoodStore(database.DB), cfg.Location(), cfg.HistoryLimit)

	var generator services.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := services.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("gemini client init failed", "error", err)
		} else {
			generator = gen
		}
	} else {
		slog.Warn("GEMINI_API_KEY not set, mood analysis disabled")
	}
	analysisService := services.NewAnalysisService(moodService, generator, cfg.AITimeout)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := newApp(cfg, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		User:     handlers.NewUserHandler(authService),
		Mood:     handlers.NewMoodHandler(moodService),
		Analysis: handlers.NewAnalysisHandler(analysisService),
		Health:   handlers.NewHealthHandler(database.Ping),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "timezone", cfg.Location().String())
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	var runErr error
	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-listenErr:
		runErr = err
		slog.Error("server failed to start", "error", err)
	}

	close(cleanupDone)
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	pgLogHandler.Stop()

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
	return runErr
}

func newApp(cfg *config.Config, h routes.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, h)
	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
