package services

import (
	"errors"
	"log"

	"backgammon-server/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TournamentService is the tournament coordinator: it owns tournament
// records, schedules round-robin rounds and aggregates standings. It never
// mutates match internals; it only creates matches and reads their ids.
type TournamentService struct {
	DB    *gorm.DB
	Hub   *ConnectionManager
	Locks *KeyedMutex
	Games *GameService
}

func NewTournamentService(db *gorm.DB, hub *ConnectionManager, locks *KeyedMutex) *TournamentService {
	return &TournamentService{DB: db, Hub: hub, Locks: locks}
}

// CurrentTournament finds the pending or started tournament a user has
// joined, if any.
func (s *TournamentService) CurrentTournament(username string) (*models.Tournament, error) {
	var candidates []models.Tournament
	err := s.DB.Where("status IN ?", []string{models.TournamentPending, models.TournamentStarted}).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].HasConfirmed(username) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (s *TournamentService) tournamentOfMatch(matchID string) (*models.Tournament, error) {
	var candidates []models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentStarted).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		for _, id := range candidates[i].MatchIDs {
			if id == matchID {
				return &candidates[i], nil
			}
		}
	}
	return nil, nil
}

// CreateTournament creates a tournament with the caller as auto-confirmed
// owner. AI invitees are auto-confirmed too, at most one per tournament.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req models.CreateTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user := username(c)

	if busy, err := s.userIsBusy(c, user); busy || err != nil {
		return err
	}

	confirmed := []string{user}
	aiCount := 0
	for _, p := range req.Participants {
		if IsAI(p) {
			confirmed = append(confirmed, p)
			aiCount++
		}
	}
	if aiCount > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot have more than 1 AI players in a tournament"})
	}

	participants := req.Participants
	if req.Open && len(participants) == 0 {
		participants = []string{user}
	}

	tournament := models.Tournament{
		ID:                    uuid.NewString(),
		Owner:                 user,
		Name:                  req.Name,
		Type:                  req.Type,
		Participants:          participants,
		ConfirmedParticipants: confirmed,
		Open:                  req.Open,
		MatchIDs:              []string{},
		Status:                models.TournamentPending,
		RoundsToWin:           req.RoundsToWin,
		Stats:                 []models.TournamentStats{},
	}
	if err := s.DB.Create(&tournament).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create tournament"})
	}

	// an AI invitee can fill the bracket on its own
	if len(tournament.ConfirmedParticipants) == models.MaxTournamentParticipants {
		s.Locks.Lock(tournament.ID)
		err := s.startTournament(&tournament)
		s.Locks.Unlock(tournament.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start tournament"})
		}
	}

	return c.JSON(fiber.Map{"tournament": tournament})
}

// JoinTournament joins by owner and name. Open tournaments accept anyone
// while below the cap; closed ones require an invite. Reaching four
// confirmed participants starts the bracket.
func (s *TournamentService) JoinTournament(c *fiber.Ctx) error {
	var req models.JoinTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	user := username(c)

	if busy, err := s.userIsBusy(c, user); busy || err != nil {
		return err
	}

	var probe models.Tournament
	err := s.DB.First(&probe, "owner = ? AND name = ?", req.Owner, req.Name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No corresponding tournament found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	s.Locks.Lock(probe.ID)
	joined, joinErr := s.addParticipant(probe.ID, user)
	s.Locks.Unlock(probe.ID)
	if joinErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": joinErr.Error()})
	}

	return c.JSON(fiber.Map{"tournament": joined})
}

func (s *TournamentService) addParticipant(tournamentID, participant string) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		return nil, errors.New("No corresponding tournament found")
	}
	if t.Status != models.TournamentPending {
		return nil, errors.New("Cannot join tournament")
	}

	if t.Open {
		if len(t.Participants) >= models.MaxTournamentParticipants || t.IsInvited(participant) {
			return nil, errors.New("Cannot join tournament")
		}
		t.Participants = append(t.Participants, participant)
		t.ConfirmedParticipants = append(t.ConfirmedParticipants, participant)
	} else {
		if !t.IsInvited(participant) {
			return nil, errors.New("Not invited to tournament")
		}
		if t.HasConfirmed(participant) {
			return nil, errors.New("Already joined tournament")
		}
		t.ConfirmedParticipants = append(t.ConfirmedParticipants, participant)
	}

	if len(t.ConfirmedParticipants) == models.MaxTournamentParticipants {
		if err := s.startTournament(&t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	if err := s.DB.Save(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// startTournament zeroes the standings and generates round 1. Caller holds
// the tournament lock.
func (s *TournamentService) startTournament(t *models.Tournament) error {
	t.Status = models.TournamentStarted
	t.Stats = make([]models.TournamentStats, 0, len(t.ConfirmedParticipants))
	for _, p := range t.ConfirmedParticipants {
		t.Stats = append(t.Stats, models.TournamentStats{Username: p})
	}

	if t.Type == models.TournamentRoundRobin {
		if err := s.createRoundRobinRound(t, 1); err != nil {
			return err
		}
	}
	return s.DB.Save(t).Error
}

// createRoundRobinRound generates one round's matches. Rejected when the
// round was already generated, so progression cannot double-advance.
func (s *TournamentService) createRoundRobinRound(t *models.Tournament, round int) error {
	if t.CurrentRound >= round {
		return ErrRoundExists
	}
	pairs, err := RoundRobinPairs(t.ConfirmedParticipants, round)
	if err != nil {
		return err
	}

	ids := make([]string, 0, 2)
	for _, pair := range pairs {
		m, err := CreateStartedMatch(s.DB, pair[0], pair[1], t.RoundsToWin)
		if err != nil {
			return err
		}
		ids = append(ids, m.ID)
	}

	t.MatchIDs = ids
	t.CurrentRound = round
	log.Printf("[TOURNAMENT] %s round %d: (%s vs %s), (%s vs %s)",
		t.ID, round, pairs[0][0], pairs[0][1], pairs[1][0], pairs[1][1])
	return nil
}

// HandleMatchOver consumes a terminal match outcome: standings update, then
// either the next round or the tournament finish. Event fan-out happens
// after the tournament lock is released.
func (s *TournamentService) HandleMatchOver(outcome MatchOutcome) error {
	probe, err := s.tournamentOfMatch(outcome.MatchID)
	if err != nil {
		return err
	}
	if probe == nil {
		return nil // casual match
	}

	s.Locks.Lock(probe.ID)
	deliveries, err := s.progress(probe.ID, outcome)
	s.Locks.Unlock(probe.ID)
	if err != nil {
		return err
	}

	for _, d := range deliveries {
		if !IsAI(d.username) {
			s.Hub.Deliver(d.username, d.event)
		}
	}
	return nil
}

func (s *TournamentService) progress(tournamentID string, outcome MatchOutcome) ([]delivery, error) {
	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", tournamentID).Error; err != nil {
		return nil, err
	}

	RecordOutcome(&t, outcome.Winner, outcome.Loser, outcome.Points)

	var deliveries []delivery
	if t.Type == models.TournamentRoundRobin {
		action, round := NextRoundAction(t.Stats, len(t.ConfirmedParticipants))
		switch action {
		case RoundFinish:
			deliveries = s.finish(&t)
		case RoundAdvance:
			if err := s.createRoundRobinRound(&t, round); err != nil {
				return nil, err
			}
		}
	}

	if err := s.DB.Save(&t).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// finish closes the bracket, crowns the champion and credits their
// persistent tournament-win counter.
func (s *TournamentService) finish(t *models.Tournament) []delivery {
	t.Status = models.TournamentFinished
	champion := ChampionOf(t.Stats)

	if !IsAI(champion.Username) {
		err := s.DB.Model(&models.User{}).
			Where("username = ?", champion.Username).
			Update("tournaments_won", gorm.Expr("tournaments_won + 1")).Error
		if err != nil {
			log.Printf("[TOURNAMENT] crediting champion %s failed: %v", champion.Username, err)
		}
	}

	event := fiber.Map{"type": "tournament_over", "winner": champion.Username}
	deliveries := make([]delivery, 0, len(t.ConfirmedParticipants))
	for _, p := range t.ConfirmedParticipants {
		deliveries = append(deliveries, delivery{p, event})
	}
	return deliveries
}

// userIsBusy rejects tournament creation/joining while the caller already
// has a running game or tournament. It writes the response itself when the
// user is busy.
func (s *TournamentService) userIsBusy(c *fiber.Ctx, user string) (bool, error) {
	current, err := s.CurrentTournament(user)
	if err != nil {
		return true, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if current != nil {
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You have already joined a tournament"})
	}
	if s.Games != nil {
		game, err := s.Games.CurrentGame(user)
		if err != nil {
			return true, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
		}
		if game != nil {
			return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot join a tournament while playing a game"})
		}
	}
	return false, nil
}

// GetCurrentTournament returns the caller's pending or started tournament.
func (s *TournamentService) GetCurrentTournament(c *fiber.Ctx) error {
	t, err := s.CurrentTournament(username(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No started tournament found"})
	}
	return c.JSON(t)
}

// TournamentExists reports whether the caller has an active tournament.
func (s *TournamentService) TournamentExists(c *fiber.Ctx) error {
	t, err := s.CurrentTournament(username(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(t != nil)
}

// AvailableTournaments lists pending tournaments the caller could join:
// ones they are invited to, plus open ones with a free seat.
func (s *TournamentService) AvailableTournaments(c *fiber.Ctx) error {
	user := username(c)
	var candidates []models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentPending).Find(&candidates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	available := make([]models.Tournament, 0)
	for _, t := range candidates {
		if t.IsInvited(user) || (t.Open && len(t.Participants) < models.MaxTournamentParticipants) {
			available = append(available, t)
		}
	}
	return c.JSON(available)
}

// ConcludedTournaments lists finished tournaments the caller played in.
func (s *TournamentService) ConcludedTournaments(c *fiber.Ctx) error {
	user := username(c)
	var candidates []models.Tournament
	if err := s.DB.Where("status = ?", models.TournamentFinished).Find(&candidates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	concluded := make([]models.Tournament, 0)
	for _, t := range candidates {
		if t.HasConfirmed(user) {
			concluded = append(concluded, t)
		}
	}
	return c.JSON(concluded)
}
