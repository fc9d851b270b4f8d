package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/IamTkle/capstone1-dashboard/internal/metrics"
	"github.com/IamTkle/capstone1-dashboard/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, mapSvc *service.MapService) {
	handler := NewHandler(mapSvc)

	// Health check
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/schema", handler.GetSchema)
		api.Get("/regions", handler.ListRegions)
		api.Get("/regions/:id", handler.GetRegion)

		// Stateless render pass
		api.Get("/layers", handler.GetLayers)
		api.Get("/minimap", handler.GetMinimap)

		// Sessions hold selection and tooltip state between pointer events
		api.Post("/sessions", handler.CreateSession)
		sessions := api.Group("/sessions")
		sessions.Get("/:id", handler.GetSession)
		sessions.Delete("/:id", handler.DeleteSession)
		sessions.Put("/:id/params", handler.UpdateSessionParams)
		sessions.Get("/:id/layers", handler.GetSessionLayers)
		sessions.Get("/:id/minimap", handler.GetSessionMinimap)
		sessions.Post("/:id/pick", handler.Pick)
		sessions.Post("/:id/hover", handler.Hover)
		sessions.Delete("/:id/selection", handler.ClearSelection)
	}
}
