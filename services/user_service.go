package services

import (
	"errors"

	"backgammon-server/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserService serves the read-only user surface: profiles, leaderboard and
// username search.
type UserService struct {
	DB  *gorm.DB
	Hub *ConnectionManager
}

func NewUserService(db *gorm.DB, hub *ConnectionManager) *UserService {
	return &UserService{DB: db, Hub: hub}
}

// Me returns the caller's profile with stats and online flag.
func (s *UserService) Me(c *fiber.Ctx) error {
	var user models.User
	err := s.DB.First(&user, "username = ?", username(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(user)
}

// Search lists up to 10 users whose name starts with the query prefix.
func (s *UserService) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.JSON([]fiber.Map{})
	}

	var users []models.User
	err := s.DB.Where("username LIKE ?", query+"%").Order("username ASC").Limit(10).Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	results := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		results = append(results, fiber.Map{
			"id":       u.ID,
			"username": u.Username,
			"online":   s.Hub.IsOnline(u.Username),
		})
	}
	return c.JSON(results)
}

// Leaderboard ranks all users by rating.
func (s *UserService) Leaderboard(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Order("rating DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "database error"})
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Position: i + 1,
			Username: u.Username,
			Rating:   u.Rating,
		})
	}
	return c.JSON(entries)
}
