package services

import (
	"testing"

	"backgammon-server/models"

	"github.com/stretchr/testify/assert"
)

func TestPiecesSummary_DefaultBoard(t *testing.T) {
	board := models.DefaultBoard()

	p1Board, p1Bar, p1Home := PiecesSummary(board, true)
	assert.Equal(t, models.NumberOfPlayerPieces, p1Board)
	assert.Equal(t, 0, p1Bar)
	assert.Equal(t, 2, p1Home) // the two back checkers on point 24

	p2Board, p2Bar, p2Home := PiecesSummary(board, false)
	assert.Equal(t, models.NumberOfPlayerPieces, p2Board)
	assert.Equal(t, 0, p2Bar)
	assert.Equal(t, 2, p2Home) // the two back checkers on point 1
}

func TestPiecesSummary_CountsBar(t *testing.T) {
	board := models.DefaultBoard()
	board.Points[0].Player2 = 1
	board.Bar.Player2 = 1

	onBoard, onBar, _ := PiecesSummary(board, false)
	assert.Equal(t, 14, onBoard)
	assert.Equal(t, 1, onBar)
}

// boardWhereP1Won returns a board with player 1 fully borne off and all of
// player 2's checkers stacked on a single point.
func boardWhereP1Won(loserPoint int) models.BoardConfiguration {
	board := models.BoardConfiguration{Points: make([]models.Point, 24)}
	board.Points[loserPoint].Player2 = models.NumberOfPlayerPieces
	return board
}

func TestIsGammon_LoserBoreOffNothing(t *testing.T) {
	board := boardWhereP1Won(12)

	assert.True(t, IsGammon(board, true))
}

func TestIsGammon_LoserBoreOffSome(t *testing.T) {
	board := boardWhereP1Won(12)
	board.Points[12].Player2 = 10

	assert.False(t, IsGammon(board, true))
}

func TestIsBackgammon_LoserInWinnersHome(t *testing.T) {
	// player 1 bears off from points 1-6, so a loser checker there counts
	board := boardWhereP1Won(3)

	assert.True(t, IsBackgammon(board, true))
}

func TestIsBackgammon_LoserOnBar(t *testing.T) {
	board := boardWhereP1Won(12)
	board.Points[12].Player2 = 14
	board.Bar.Player2 = 1

	assert.True(t, IsBackgammon(board, true))
}

func TestIsBackgammon_PlainGammonIsNot(t *testing.T) {
	board := boardWhereP1Won(12)

	assert.True(t, IsGammon(board, true))
	assert.False(t, IsBackgammon(board, true))
}
