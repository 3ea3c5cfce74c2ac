package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/helwan-dev/smart-campus-api/internal/config"
	"github.com/helwan-dev/smart-campus-api/internal/handler"
	"github.com/helwan-dev/smart-campus-api/internal/middleware"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	AttendanceHandler *handler.AttendanceHandler
	ComplaintHandler  *handler.ComplaintHandler
	AdminHandler      *handler.AdminHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if cfg.StorageDriver == "local" {
		app.Static(cfg.LocalStorageBaseURL, cfg.LocalStorageDir)
	}

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Auth
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.Register(auth)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	// Course catalog & materials
	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)
	}

	// Attendance sessions & scans. Staff-only access to session routes is
	// enforced inside the service, the scan route stays open to students.
	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware)
		attendance.Use("/scan", middleware.RateLimit("scan", 30, time.Minute))
		deps.AttendanceHandler.RegisterScan(attendance)
		deps.AttendanceHandler.Register(attendance)
	}

	// Complaints
	if deps.ComplaintHandler != nil {
		complaints := api.Group("/complaints", jwtMiddleware)
		deps.ComplaintHandler.Register(complaints)
	}

	// Admin reporting & moderation
	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, adminOnly)
		deps.AdminHandler.Register(admin)
	}
}
