package services

import (
	"errors"
	"time"

	"backgammon-server/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InviteService manages match invites. An invite is a pending match; AI
// opponents skip the invite phase and start immediately.
type InviteService struct {
	DB    *gorm.DB
	Hub   *ConnectionManager
	Games *GameService
}

func NewInviteService(db *gorm.DB, hub *ConnectionManager, games *GameService) *InviteService {
	return &InviteService{DB: db, Hub: hub, Games: games}
}

// PendingInvites lists the caller's received invites.
func (s *InviteService) PendingInvites(c *fiber.Ctx) error {
	var invites []models.Match
	err := s.DB.Where("player2 = ? AND status = ?", username(c), models.MatchPending).Find(&invites).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(fiber.Map{"pending_invites": invites})
}

// CreateInvite invites an opponent by username or email. Inviting an AI
// identifier starts the match immediately.
func (s *InviteService) CreateInvite(c *fiber.Ctx) error {
	var req models.CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user := username(c)
	opponent := req.OpponentUsername

	if req.UseEmail {
		var found models.User
		err := s.DB.First(&found, "email = ?", opponent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Opponent not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}
		opponent = found.Username
	} else if !IsAI(opponent) {
		var found models.User
		err := s.DB.First(&found, "username = ?", opponent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Opponent not found"})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}
	}

	if user == opponent {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot invite yourself"})
	}

	current, err := s.Games.CurrentGame(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if current != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You are already playing a match"})
	}

	if IsAI(opponent) {
		if _, err := CreateStartedMatch(s.DB, user, opponent, req.RoundsToWin); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match"})
		}
		return c.JSON(fiber.Map{"message": "Invite created successfully"})
	}

	invite := models.Match{
		ID:            uuid.NewString(),
		Player1:       user,
		Player2:       opponent,
		Board:         models.DefaultBoard(),
		Turn:          -1,
		Status:        models.MatchPending,
		RoundsToWin:   req.RoundsToWin,
		AISuggestions: []int{0, 0},
		LastUpdated:   time.Now(),
	}
	if err := s.DB.Create(&invite).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create invite"})
	}

	s.Hub.Deliver(user, fiber.Map{"type": "invite-sent", "to": opponent})
	s.Hub.Deliver(opponent, fiber.Map{"type": "invite", "from": user})
	return c.JSON(fiber.Map{"message": "Invite created successfully"})
}

// AcceptInvite starts the match behind an invite once both sides are free.
func (s *InviteService) AcceptInvite(c *fiber.Ctx) error {
	var req models.AcceptInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user := username(c)

	current, err := s.Games.CurrentGame(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if current != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You are already playing a match"})
	}

	var invite models.Match
	err = s.DB.First(&invite, "id = ? AND status = ?", req.InviteID, models.MatchPending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invite not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if invite.Player2 != user {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the recipient of this invite"})
	}

	opponentGame, err := s.Games.CurrentGame(invite.Player1)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if opponentGame != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Opponent is already playing a match"})
	}

	updates := map[string]any{"status": models.MatchStarted, "turn": -1, "last_updated": time.Now()}
	if err := s.DB.Model(&models.Match{}).Where("id = ?", invite.ID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to accept invite"})
	}

	s.Hub.Deliver(invite.Player1, fiber.Map{"type": "invite-accepted", "from": user})
	return c.JSON(fiber.Map{"message": "Invite accepted successfully"})
}
