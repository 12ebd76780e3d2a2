package models

import "time"

// Tournament lifecycle states.
const (
	TournamentPending  = "pending"
	TournamentStarted  = "started"
	TournamentFinished = "finished"
)

// TournamentRoundRobin is the only supported tournament type.
const TournamentRoundRobin = "round_robin"

// MaxTournamentParticipants is the confirmed-participant cap; a tournament
// starts the instant it is reached.
const MaxTournamentParticipants = 4

// TournamentStats is one participant's standing inside a tournament.
type TournamentStats struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Matches  int    `json:"matches"`
	Points   int    `json:"points"`
}

// Tournament is a round-robin bracket of up to four players. MatchIDs holds
// only the currently active round's matches; CurrentRound guards round
// generation against double advancement.
type Tournament struct {
	ID                    string            `gorm:"primaryKey" json:"id"`
	Owner                 string            `gorm:"index;not null" json:"owner"`
	Name                  string            `gorm:"not null" json:"name"`
	Type                  string            `json:"type"`
	Participants          []string          `gorm:"serializer:json" json:"participants"`
	ConfirmedParticipants []string          `gorm:"serializer:json" json:"confirmed_participants"`
	Open                  bool              `json:"open"`
	MatchIDs              []string          `gorm:"serializer:json" json:"match_ids"`
	Status                string            `gorm:"index;default:'pending'" json:"status"`
	RoundsToWin           int               `json:"rounds_to_win"`
	CurrentRound          int               `json:"current_round"`
	Stats                 []TournamentStats `gorm:"serializer:json" json:"stats"`
	CreatedAt             time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasConfirmed reports whether a username already joined the tournament.
func (t *Tournament) HasConfirmed(username string) bool {
	for _, p := range t.ConfirmedParticipants {
		if p == username {
			return true
		}
	}
	return false
}

// IsInvited reports whether a username is on the participant list.
func (t *Tournament) IsInvited(username string) bool {
	for _, p := range t.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// StatsFor returns the standing record of one participant, or nil.
func (t *Tournament) StatsFor(username string) *TournamentStats {
	for i := range t.Stats {
		if t.Stats[i].Username == username {
			return &t.Stats[i]
		}
	}
	return nil
}

// CreateTournamentRequest creates a new tournament.
type CreateTournamentRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	Open         bool     `json:"open"`
	RoundsToWin  int      `json:"rounds_to_win"`
	Type         string   `json:"type"`
}

// JoinTournamentRequest joins a tournament addressed by owner and name.
type JoinTournamentRequest struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}
