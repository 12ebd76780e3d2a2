package handlers

import (
	"backgammon-server/middleware"
	"backgammon-server/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	secured := app.Group("/", middleware.Protected())

	secured.Get("/users/me", userService.Me)
	secured.Get("/users/search", userService.Search)
	secured.Get("/users/leaderboard", userService.Leaderboard)
}
