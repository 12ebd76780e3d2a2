package handlers

import (
	"backgammon-server/middleware"
	"backgammon-server/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, inviteService *services.InviteService) {
	secured := app.Group("/", middleware.Protected())

	secured.Get("/game", gameService.GetGame)
	secured.Get("/game/exists", gameService.GameExists)
	secured.Get("/throw_start_dice", gameService.ThrowStartDiceEndpoint)
	secured.Get("/throw_dice", gameService.ThrowDiceEndpoint)

	secured.Post("/move/piece", gameService.MovePiece)
	secured.Post("/move/ai", gameService.MoveAI)
	secured.Post("/game/pass_turn", gameService.PassTurnEndpoint)
	secured.Post("/game/message", gameService.SendInGameMessage)
	secured.Post("/game/request_timeout", gameService.RequestTimeout)
	secured.Post("/game/quit", gameService.QuitGame)

	secured.Post("/game/double/propose", gameService.ProposeDoubleEndpoint)
	secured.Post("/game/double/accept", gameService.AcceptDoubleEndpoint)
	secured.Post("/game/double/reject", gameService.RejectDoubleEndpoint)

	secured.Post("/ai/suggestions", gameService.UseAISuggestion)

	secured.Get("/invites", inviteService.PendingInvites)
	secured.Post("/invites", inviteService.CreateInvite)
	secured.Post("/invites/accept", inviteService.AcceptInvite)
}
