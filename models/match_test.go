package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPlayerNumber_TurnParity(t *testing.T) {
	m := Match{Turn: -1}
	assert.Equal(t, 0, m.CurrentPlayerNumber(), "no one on turn before start dice resolve")

	m.Turn = 0
	assert.Equal(t, 1, m.CurrentPlayerNumber())
	m.Turn = 1
	assert.Equal(t, 2, m.CurrentPlayerNumber())
	m.Turn = 6
	assert.Equal(t, 1, m.CurrentPlayerNumber())
}

func TestPlayerNumber(t *testing.T) {
	m := Match{Player1: "alice", Player2: "bob"}

	assert.Equal(t, 1, m.PlayerNumber("alice"))
	assert.Equal(t, 2, m.PlayerNumber("bob"))
	assert.Equal(t, 0, m.PlayerNumber("mallory"))
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, 2, Opponent(1))
	assert.Equal(t, 1, Opponent(2))
}

func TestDefaultBoard_FullSetup(t *testing.T) {
	board := DefaultBoard()

	assert.Len(t, board.Points, 24)
	var p1, p2 int
	for _, p := range board.Points {
		p1 += p.Player1
		p2 += p.Player2
	}
	assert.Equal(t, NumberOfPlayerPieces, p1)
	assert.Equal(t, NumberOfPlayerPieces, p2)
	assert.Equal(t, Point{}, board.Bar)
}
