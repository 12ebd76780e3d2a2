package handlers

import (
	"backgammon-server/middleware"
	"backgammon-server/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService) {
	secured := app.Group("/", middleware.Protected())

	secured.Post("/tournaments", tournamentService.CreateTournament)
	secured.Post("/tournaments/join", tournamentService.JoinTournament)
	secured.Get("/tournaments", tournamentService.GetCurrentTournament)
	secured.Get("/tournaments/exists", tournamentService.TournamentExists)
	secured.Get("/tournaments/available", tournamentService.AvailableTournaments)
	secured.Get("/tournaments/concluded", tournamentService.ConcludedTournaments)
}
