package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Mood     *handlers.MoodHandler
	Analysis *handlers.AnalysisHandler
	Health   *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(ipLimiter(60))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(ipLimiter(10))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)
	auth.Delete("/account", middleware.JWTProtected(cfg), h.Auth.DeleteAccount)

	// JWT is applied per group so public routes stay public.
	users := api.Group("/users", middleware.JWTProtected(cfg))
	users.Get("/me", h.User.Me)
	users.Put("/me", h.User.UpdateMe)

	moods := api.Group("/moods", middleware.JWTProtected(cfg))
	moods.Post("/", h.Mood.Save)
	moods.Get("/", h.Mood.List)
	moods.Get("/today", h.Mood.Today)
	moods.Get("/all", h.Mood.History)
	moods.Get("/insights", h.Mood.Insights)
	moods.Get("/distribution", h.Mood.Distribution)
	moods.Get("/comparison", h.Mood.Comparison)
	moods.Get("/daily", h.Mood.Daily)
	moods.Get("/report", h.Mood.Report)

	ai := api.Group("/ai", middleware.JWTProtected(cfg))
	ai.Get("/analyze", h.Analysis.Analyze)
}

func ipLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
