package meta

import "github.com/gofiber/fiber/v2"

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"@link":   "https://zonefinder.dev",
			"message": "zonefinder API: smoking zones around you",
			"endpoints": fiber.Map{
				"zones":  "/api/zones",
				"geo":    "/api/geo/locate",
				"health": "/api/_/health",
			},
		})
	})
}
