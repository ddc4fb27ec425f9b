package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/staff-portal/internal/api/http/handlers"
	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	LoginLogs      *handlers.LoginLogsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	RatePerSecond  int
	RateBurst      int
}

// FiberConfig builds the server settings. c.IP reads ProxyHeader only for
// connections from a trusted proxy, which keeps audit addresses and rate limit
// buckets keyed on the real client.
func FiberConfig(cfg config.AppConfig) fiber.Config {
	return fiber.Config{
		AppName:                 cfg.Name,
		ReadTimeout:             cfg.RequestTimeout(),
		WriteTimeout:            cfg.RequestTimeout(),
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: cfg.ProxyHeader != "",
		TrustedProxies:          cfg.TrustedProxies,
	}
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	if cfg.RatePerSecond > 0 {
		authGroup.Use(RateLimit(cfg.RatePerSecond, cfg.RateBurst))
	}
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/change-password", cfg.Auth.ChangePassword)

	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Auth.Session)

	admin := authGroup.Group("/login-logs", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.StaffRoleAdmin))
	admin.Get("", cfg.LoginLogs.List)
	admin.Get("/count", cfg.LoginLogs.Count)
	admin.Delete("", cfg.LoginLogs.Purge)
}
