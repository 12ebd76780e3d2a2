package models

// NumberOfPlayerPieces is the per-player checker count on a full board.
const NumberOfPlayerPieces = 15

// Point holds the checker counts of both players on a single board position.
type Point struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// BoardConfiguration is the full board: 24 points plus the bar.
// Borne-off checkers are not tracked explicitly; they are inferred as
// 15 - on-board - on-bar.
type BoardConfiguration struct {
	Points []Point `json:"points"`
	Bar    Point   `json:"bar"`
}

// DefaultBoard returns the standard backgammon opening layout: each side
// starts with 2 checkers on its 24-point, 5 on the 13-point, 3 on the
// 8-point and 5 on the 6-point.
func DefaultBoard() BoardConfiguration {
	points := make([]Point, 24)
	points[0].Player2 = 2
	points[5].Player1 = 5
	points[7].Player1 = 3
	points[11].Player2 = 5
	points[12].Player1 = 5
	points[16].Player2 = 3
	points[18].Player2 = 5
	points[23].Player1 = 2
	return BoardConfiguration{Points: points}
}

// StartDice tracks the pre-game tie-break rolls. Counts record how many
// times each side has thrown, so ties can be re-rolled symmetrically.
type StartDice struct {
	Roll1  int `json:"roll1"`
	Count1 int `json:"count1"`
	Roll2  int `json:"roll2"`
	Count2 int `json:"count2"`
}

// DoublingCube models the shared stake multiplier. Count is the number of
// accepted doubles (value = 2^count, capped at 8). LastUsage is the player
// number that currently owns the cube, 0 while centered.
type DoublingCube struct {
	Count     int  `json:"count"`
	LastUsage int  `json:"last_usage"`
	Proposed  bool `json:"proposed"`
	Proposer  int  `json:"proposer"`
}

// Value returns the current stake multiplier of the cube.
func (d DoublingCube) Value() int {
	return 1 << d.Count
}
