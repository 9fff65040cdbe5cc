package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/complaint-desk/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Complaints  *handlers.ComplaintsHandler
	Departments *handlers.DepartmentsHandler
	Metrics     nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	api := app.Group("/api")

	api.Get("/departments", cfg.Departments.ListDepartments)
	api.Post("/departments", cfg.Departments.CreateDepartment)

	api.Get("/complaints", cfg.Complaints.ListComplaints)
	api.Post("/complaints", cfg.Complaints.CreateComplaint)
	api.Get("/complaints/:id", cfg.Complaints.GetComplaint)
	api.Post("/complaints/:id/actions", cfg.Complaints.AddAction)
	api.Put("/complaints/:id/status", cfg.Complaints.SetStatus)
}
