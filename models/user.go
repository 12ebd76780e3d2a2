package models

import "time"

// User is a registered human player. AI opponents are reserved identifiers
// and never appear in this table.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Rating   int    `gorm:"default:1500" json:"rating"`

	// Persistent stats
	MatchesPlayed  int `gorm:"default:0" json:"matches_played"`
	MatchesWon     int `gorm:"default:0" json:"matches_won"`
	TournamentsWon int `gorm:"default:0" json:"tournaments_won"`
	HighestRating  int `gorm:"default:1500" json:"highest_rating"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LeaderboardEntry is the public leaderboard row.
type LeaderboardEntry struct {
	Position int    `json:"position"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
