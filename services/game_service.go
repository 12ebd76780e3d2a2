package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"backgammon-server/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameService owns the match lifecycle: every state-changing operation on a
// match is serialized through a per-match lock, persisted, and only then
// fanned out to connected players.
type GameService struct {
	DB          *gorm.DB
	Hub         *ConnectionManager
	Locks       *KeyedMutex
	Tournaments *TournamentService
	TurnTimeout time.Duration
}

func NewGameService(db *gorm.DB, hub *ConnectionManager, locks *KeyedMutex) *GameService {
	timeout := 30 * time.Second
	if v := os.Getenv("TURN_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return &GameService{
		DB:          db,
		Hub:         hub,
		Locks:       locks,
		TurnTimeout: timeout,
	}
}

// delivery is one pending best-effort event send, emitted after the match
// lock is released and the row is persisted.
type delivery struct {
	username string
	event    any
}

// MatchOutcome is handed to the tournament coordinator when a match reaches
// a terminal state.
type MatchOutcome struct {
	MatchID string
	Winner  string
	Loser   string
	Points  int
}

func (s *GameService) emit(deliveries []delivery) {
	for _, d := range deliveries {
		if !IsAI(d.username) {
			s.Hub.Deliver(d.username, d.event)
		}
	}
}

func toBoth(m *models.Match, event any) []delivery {
	return []delivery{{m.Player1, event}, {m.Player2, event}}
}

// CreateStartedMatch inserts a fresh match that skips the invite phase.
func CreateStartedMatch(db *gorm.DB, player1, player2 string, roundsToWin int) (*models.Match, error) {
	m := &models.Match{
		ID:            uuid.NewString(),
		Player1:       player1,
		Player2:       player2,
		Board:         models.DefaultBoard(),
		Turn:          -1,
		Status:        models.MatchStarted,
		RoundsToWin:   roundsToWin,
		AISuggestions: []int{0, 0},
		LastUpdated:   time.Now(),
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CurrentGame finds the started match a user participates in, if any.
func (s *GameService) CurrentGame(username string) (*models.Match, error) {
	var m models.Match
	err := s.DB.Where("(player1 = ? OR player2 = ?) AND status = ?", username, username, models.MatchStarted).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// withGame runs fn against the caller's current match under the per-match
// lock. The match is re-read inside the lock so concurrent operations see
// each other's writes. A nil error from fn persists the match and bumps
// last_updated exactly once.
func (s *GameService) withGame(username string, fn func(m *models.Match) ([]delivery, error)) ([]delivery, error) {
	probe, err := s.CurrentGame(username)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, ErrNoOngoingGame
	}

	s.Locks.Lock(probe.ID)
	defer s.Locks.Unlock(probe.ID)

	var m models.Match
	if err := s.DB.First(&m, "id = ? AND status = ?", probe.ID, models.MatchStarted).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOngoingGame
		}
		return nil, err
	}

	deliveries, err := fn(&m)
	if err != nil {
		return nil, err
	}

	m.LastUpdated = time.Now()
	if err := s.DB.Save(&m).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func username(c *fiber.Ctx) string {
	u, _ := c.Locals("username").(string)
	return u
}

// GetGame returns the caller's current match.
func (s *GameService) GetGame(c *fiber.Ctx) error {
	m, err := s.CurrentGame(username(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if m == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No started game found"})
	}
	return c.JSON(m)
}

// GameExists reports whether the caller is in a started match.
func (s *GameService) GameExists(c *fiber.Ctx) error {
	m, err := s.CurrentGame(username(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(m != nil)
}

// ThrowStartDiceEndpoint handles the pre-game tie-break throw.
func (s *GameService) ThrowStartDiceEndpoint(c *fiber.Ctx) error {
	user := username(c)
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		player := m.PlayerNumber(user)
		if player == 0 {
			return nil, ErrNoOngoingGame
		}
		d1, d2 := ThrowDice()
		opponentIsAI := IsAI(m.PlayerName(models.Opponent(player)))
		if err := ThrowStartDice(m, player, d1, d2, opponentIsAI); err != nil {
			return nil, err
		}
		event := fiber.Map{"type": "start_dice_roll", "result": m.StartDice, "starter": m.Starter, "turn": m.Turn}
		return toBoth(m, event), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	return c.JSON(fiber.Map{"message": "start dice thrown"})
}

// ThrowDiceEndpoint assigns the current turn's dice.
func (s *GameService) ThrowDiceEndpoint(c *fiber.Ctx) error {
	user := username(c)
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if err := EnsureTurn(m, m.PlayerNumber(user)); err != nil {
			return nil, err
		}
		d1, d2 := ThrowDice()
		if err := AssignDice(m, d1, d2); err != nil {
			return nil, err
		}
		event := fiber.Map{"type": "dice_roll", "result": m.Dice, "available": m.Available}
		return toBoth(m, event), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	return c.JSON(fiber.Map{"message": "dice thrown"})
}

// MovePiece applies a client-submitted board for one die and evaluates the
// win condition.
func (s *GameService) MovePiece(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	user := username(c)
	var outcome *MatchOutcome
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if err := EnsureTurn(m, m.PlayerNumber(user)); err != nil {
			return nil, err
		}
		if err := ApplyMove(m, req.Board, req.Dice); err != nil {
			return nil, err
		}

		deliveries := toBoth(m, fiber.Map{"type": "move_piece", "match": m})
		roundDeliveries, o, err := s.evaluateRound(m, 0, false)
		if err != nil {
			return nil, err
		}
		outcome = o
		return append(deliveries, roundDeliveries...), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	s.forwardOutcome(outcome)
	return c.JSON(fiber.Map{"message": "move applied"})
}

// MoveAI applies the AI opponent's move, submitted by the human client.
// The AI's whole turn is consumed at once.
func (s *GameService) MoveAI(c *fiber.Ctx) error {
	var req models.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	user := username(c)
	var outcome *MatchOutcome
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if !IsAI(m.Player1) && !IsAI(m.Player2) {
			return nil, ErrNotYourTurn
		}
		if err := validateBoardTransition(m.Board, req.Board); err != nil {
			return nil, err
		}
		m.Board = req.Board
		PassTurn(m)

		deliveries := []delivery{{user, fiber.Map{"type": "move_piece", "match": m}}}
		roundDeliveries, o, err := s.evaluateRound(m, 0, false)
		if err != nil {
			return nil, err
		}
		outcome = o
		return append(deliveries, roundDeliveries...), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	s.forwardOutcome(outcome)
	return c.JSON(fiber.Map{"message": "move applied"})
}

// PassTurnEndpoint hands the turn over when no legal move exists.
func (s *GameService) PassTurnEndpoint(c *fiber.Ctx) error {
	user := username(c)
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if err := EnsureTurn(m, m.PlayerNumber(user)); err != nil {
			return nil, err
		}
		PassTurn(m)
		return toBoth(m, fiber.Map{"type": "pass_turn", "match": m}), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	return c.JSON(fiber.Map{"message": "turn passed"})
}

// RequestTimeout evaluates the opponent's inactivity budget and forfeits
// the round on their behalf when exceeded.
func (s *GameService) RequestTimeout(c *fiber.Ctx) error {
	user := username(c)
	var outcome *MatchOutcome
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		player := m.PlayerNumber(user)
		if player == 0 {
			return nil, ErrNoOngoingGame
		}
		if TimeoutDefaulter(m) == player {
			return nil, ErrOwnTurnTimeout
		}
		if !TimedOut(m, time.Now(), s.TurnTimeout) {
			return nil, ErrTimeoutNotMet
		}

		roundDeliveries, o, err := s.evaluateRound(m, 0, true)
		if err != nil {
			return nil, err
		}
		outcome = o
		return append(roundDeliveries, toBoth(m, fiber.Map{"type": "pass_turn", "match": m})...), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	s.forwardOutcome(outcome)
	return c.JSON(fiber.Map{"message": "timeout granted"})
}

// ProposeDoubleEndpoint offers the doubling cube.
func (s *GameService) ProposeDoubleEndpoint(c *fiber.Ctx) error {
	user := username(c)
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if err := ProposeDouble(m, m.PlayerNumber(user)); err != nil {
			return nil, err
		}
		return toBoth(m, fiber.Map{"type": "double_proposed", "match": m}), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	return c.JSON(fiber.Map{"message": "double proposed"})
}

// AcceptDoubleEndpoint accepts a pending double.
func (s *GameService) AcceptDoubleEndpoint(c *fiber.Ctx) error {
	user := username(c)
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		if err := AcceptDouble(m, m.PlayerNumber(user)); err != nil {
			return nil, err
		}
		return toBoth(m, fiber.Map{"type": "double_accepted", "match": m}), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	return c.JSON(fiber.Map{"message": "double accepted"})
}

// RejectDoubleEndpoint declines a pending double, forfeiting the round to
// the proposer at the board's current severity.
func (s *GameService) RejectDoubleEndpoint(c *fiber.Ctx) error {
	user := username(c)
	var outcome *MatchOutcome
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		player := m.PlayerNumber(user)
		if err := EnsureCanRejectDouble(m, player); err != nil {
			return nil, err
		}

		roundDeliveries, o, err := s.evaluateRound(m, models.Opponent(player), false)
		if err != nil {
			return nil, err
		}
		outcome = o
		return append(roundDeliveries, toBoth(m, fiber.Map{"type": "double_rejected", "match": m})...), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	s.forwardOutcome(outcome)
	return c.JSON(fiber.Map{"message": "double rejected"})
}

// UseAISuggestion consumes one capped suggestion use.
func (s *GameService) UseAISuggestion(c *fiber.Ctx) error {
	user := username(c)
	_, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		return nil, UseSuggestion(m, m.PlayerNumber(user))
	})
	if err != nil {
		return validationError(c, err)
	}
	return c.JSON(fiber.Map{"message": "suggestion granted"})
}

// QuitGame concedes every remaining round to the opponent.
func (s *GameService) QuitGame(c *fiber.Ctx) error {
	user := username(c)
	var outcome *MatchOutcome
	deliveries, err := s.withGame(user, func(m *models.Match) ([]delivery, error) {
		player := m.PlayerNumber(user)
		if player == 0 {
			return nil, ErrNoOngoingGame
		}
		winner := models.Opponent(player)
		res := ResolveQuit(m, winner)

		matchDeliveries, o, err := s.applyMatchResult(m, res)
		if err != nil {
			return nil, err
		}
		outcome = o
		event := fiber.Map{"type": "quit_game", "winner": winner, "user": user, "match": m}
		return append(toBoth(m, event), matchDeliveries...), nil
	})
	if err != nil {
		return validationError(c, err)
	}
	s.emit(deliveries)
	s.forwardOutcome(outcome)
	return c.JSON(fiber.Map{"message": "game quit"})
}

// SendInGameMessage relays an in-match chat line to both players.
func (s *GameService) SendInGameMessage(c *fiber.Ctx) error {
	var req models.InGameMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user := username(c)
	m, err := s.CurrentGame(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if m == nil {
		return validationError(c, ErrNoOngoingGame)
	}
	s.emit(toBoth(m, fiber.Map{"type": "in_game_msg", "msg": req.Message, "user": user}))
	return c.JSON(fiber.Map{"message": "sent"})
}

// evaluateRound runs the win scan (or applies a forced winner) and settles
// the round: counters, ratings on a terminal match, reset otherwise.
func (s *GameService) evaluateRound(m *models.Match, forcedWinner int, timeout bool) ([]delivery, *MatchOutcome, error) {
	winner := forcedWinner
	if timeout {
		winner = TimeoutWinner(m)
	} else if winner == 0 {
		winner = WinScan(m.Board)
	}
	if winner == 0 {
		return nil, nil, nil
	}

	res := ResolveRound(m, winner, timeout)
	if res.MatchOver {
		return s.applyMatchResult(m, res)
	}

	info := ""
	switch res.Severity {
	case "gammon", "backgammon":
		info = " with a " + res.Severity
	case "timeout":
		info = " due to timeout"
	}
	event := fiber.Map{"type": "round_over", "winner": m.PlayerName(winner), "info": info}
	return toBoth(m, event), nil, nil
}

// applyMatchResult persists ratings and stats for a terminal match and
// builds the match_over event. AI opponents use their fixed synthetic
// rating and are never written back.
func (s *GameService) applyMatchResult(m *models.Match, res RoundResult) ([]delivery, *MatchOutcome, error) {
	winnerName := m.PlayerName(res.Winner)
	loserName := m.PlayerName(models.Opponent(res.Winner))

	oldWinner, err := s.ratingOf(winnerName)
	if err != nil {
		return nil, nil, err
	}
	oldLoser, err := s.ratingOf(loserName)
	if err != nil {
		return nil, nil, err
	}

	newWinner, newLoser := NewRatingsAfterMatch(oldWinner, oldLoser)

	if !IsAI(winnerName) {
		updates := map[string]any{
			"rating":         newWinner,
			"matches_played": gorm.Expr("matches_played + 1"),
			"matches_won":    gorm.Expr("matches_won + 1"),
			"highest_rating": gorm.Expr("GREATEST(highest_rating, ?)", newWinner),
		}
		if err := s.DB.Model(&models.User{}).Where("username = ?", winnerName).Updates(updates).Error; err != nil {
			return nil, nil, err
		}
	}
	if !IsAI(loserName) {
		updates := map[string]any{
			"rating":         newLoser,
			"matches_played": gorm.Expr("matches_played + 1"),
		}
		if err := s.DB.Model(&models.User{}).Where("username = ?", loserName).Updates(updates).Error; err != nil {
			return nil, nil, err
		}
	}

	event := fiber.Map{
		"type":              "match_over",
		"winner":            winnerName,
		"loser":             loserName,
		"old_winner_rating": oldWinner,
		"new_winner_rating": newWinner,
		"old_loser_rating":  oldLoser,
		"new_loser_rating":  newLoser,
	}
	outcome := &MatchOutcome{MatchID: m.ID, Winner: winnerName, Loser: loserName, Points: res.Points}
	return toBoth(m, event), outcome, nil
}

func (s *GameService) ratingOf(name string) (int, error) {
	if IsAI(name) {
		return AIRating(name), nil
	}
	var user models.User
	if err := s.DB.First(&user, "username = ?", name).Error; err != nil {
		return 0, err
	}
	return user.Rating, nil
}

// forwardOutcome hands a terminal match to the tournament coordinator,
// after the match lock has been released.
func (s *GameService) forwardOutcome(outcome *MatchOutcome) {
	if outcome == nil || s.Tournaments == nil {
		return
	}
	if err := s.Tournaments.HandleMatchOver(*outcome); err != nil {
		log.Printf("[GAME] tournament progression for match %s failed: %v", outcome.MatchID, err)
	}
}
