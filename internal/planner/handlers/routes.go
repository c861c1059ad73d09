package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

// Mount registers every planner route on app.
func Mount(app *fiber.App, health *HealthHandler, catalog *CatalogHandler, sessions *SessionHandler) {
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	app.Get("/docs", SwaggerUI)
	app.Get("/docs/openapi.yaml", SwaggerSpec)

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Wallpaper Planner API v1",
			"status":  "ok",
		})
	})

	api.Post("/estimate", Estimate)
	api.Get("/presets", Presets)

	api.Get("/catalog/swatches", catalog.List)
	api.Get("/catalog/swatches/:id", catalog.Get)

	api.Post("/sessions", sessions.Create)

	s := api.Group("/sessions")
	s.Get("/:id", sessions.Get)
	s.Delete("/:id", sessions.Delete)
	s.Post("/:id/reset", sessions.Reset)
	s.Post("/:id/mode", sessions.Mode)
	s.Post("/:id/pointer", sessions.Pointer)
	s.Put("/:id/reference", sessions.SetReference)
	s.Post("/:id/reference/:preset", sessions.ApplyPreset)
	s.Put("/:id/mask", sessions.SetMask)
	s.Put("/:id/product", sessions.SetProduct)
	s.Put("/:id/product/:swatchID", sessions.SelectSwatch)
	s.Get("/:id/estimate", sessions.Estimate)
	s.Post("/:id/images/:kind", sessions.UploadImage)
	s.Put("/:id/credential", sessions.SetCredential)
	s.Post("/:id/render", sessions.Render)
}
