package handlers

import (
	"backgammon-server/middleware"
	"backgammon-server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupWebsocketRoute upgrades /ws connections. The token travels as a
// query parameter because browsers cannot set headers on websocket dials.
func SetupWebsocketRoute(app *fiber.App, hub *services.ConnectionManager) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		username, err := middleware.ParseToken(c.Query("token"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "could not validate credentials"})
		}
		c.Locals("username", username)
		return c.Next()
	})

	app.Get("/ws", websocket.New(hub.Handle))
}
