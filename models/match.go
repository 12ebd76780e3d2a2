package models

import "time"

// Match lifecycle states.
const (
	MatchPending    = "pending"
	MatchStarted    = "started"
	MatchPlayer1Won = "player_1_won"
	MatchPlayer2Won = "player_2_won"
)

// MaxAISuggestions is the per-player cap on AI move suggestions per match.
const MaxAISuggestions = 3

// Match records one backgammon match between two players. Either player may
// be a reserved AI identifier. Nested game state is stored as JSON columns.
type Match struct {
	ID            string             `gorm:"primaryKey" json:"id"`
	Player1       string             `gorm:"index;not null" json:"player1"`
	Player2       string             `gorm:"index;not null" json:"player2"`
	Board         BoardConfiguration `gorm:"serializer:json" json:"board_configuration"`
	Dice          []int              `gorm:"serializer:json" json:"dice"`
	Available     []int              `gorm:"serializer:json" json:"available"`
	Turn          int                `gorm:"default:-1" json:"turn"`
	Status        string             `gorm:"index;default:'pending'" json:"status"`
	RoundsToWin   int                `json:"rounds_to_win"`
	WinsP1        int                `json:"winsP1"`
	WinsP2        int                `json:"winsP2"`
	Starter       int                `json:"starter"`
	StartDice     StartDice          `gorm:"serializer:json" json:"startDice"`
	AISuggestions []int              `gorm:"serializer:json" json:"ai_suggestions"`
	DoublingCube  DoublingCube       `gorm:"serializer:json" json:"doublingCube"`
	LastUpdated   time.Time          `gorm:"index" json:"last_updated"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

// PlayerNumber returns 1 or 2 for a participant, 0 for anyone else.
func (m *Match) PlayerNumber(username string) int {
	switch username {
	case m.Player1:
		return 1
	case m.Player2:
		return 2
	}
	return 0
}

// CurrentPlayerNumber derives turn ownership from turn parity.
// Returns 0 before the start dice have resolved.
func (m *Match) CurrentPlayerNumber() int {
	if m.Turn < 0 {
		return 0
	}
	if m.Turn%2 == 0 {
		return 1
	}
	return 2
}

// PlayerName maps a player number back to its username.
func (m *Match) PlayerName(number int) string {
	if number == 1 {
		return m.Player1
	}
	return m.Player2
}

// Opponent returns the other player number.
func Opponent(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}

// CreateInviteRequest asks to invite an opponent to a match.
type CreateInviteRequest struct {
	OpponentUsername string `json:"opponent_username"`
	RoundsToWin      int    `json:"rounds_to_win"`
	UseEmail         bool   `json:"use_email"`
}

// AcceptInviteRequest accepts a pending invite by match id.
type AcceptInviteRequest struct {
	InviteID string `json:"invite_id"`
}

// MoveRequest submits the resulting board after moving with one die.
type MoveRequest struct {
	Board BoardConfiguration `json:"board"`
	Dice  int                `json:"dice"`
}

// InGameMessageRequest carries an in-match chat message.
type InGameMessageRequest struct {
	Message string `json:"message"`
}
