package services

import (
	"fmt"
	"testing"

	"backgammon-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairs_AllRounds(t *testing.T) {
	seats := []string{"alice", "bob", "carol", "dave"}

	expected := map[int][2][2]string{
		1: {{"alice", "bob"}, {"carol", "dave"}},
		2: {{"alice", "carol"}, {"bob", "dave"}},
		3: {{"alice", "dave"}, {"bob", "carol"}},
	}
	for round, want := range expected {
		pairs, err := RoundRobinPairs(seats, round)
		require.NoError(t, err)
		assert.Equal(t, want, pairs, "round %d", round)
	}
}

func TestRoundRobinPairs_EveryPairingOnce(t *testing.T) {
	seats := []string{"a", "b", "c", "d"}
	seen := map[string]bool{}

	for round := 1; round <= 3; round++ {
		pairs, err := RoundRobinPairs(seats, round)
		require.NoError(t, err)
		for _, p := range pairs {
			key := fmt.Sprintf("%s-%s", p[0], p[1])
			assert.False(t, seen[key], "pairing %s repeated", key)
			seen[key] = true
		}
	}
	assert.Len(t, seen, TotalRoundRobinWins(len(seats)))
}

func TestRoundRobinPairs_InvalidInput(t *testing.T) {
	_, err := RoundRobinPairs([]string{"a", "b"}, 1)
	assert.ErrorIs(t, err, ErrInvalidRound)

	_, err = RoundRobinPairs([]string{"a", "b", "c", "d"}, 4)
	assert.ErrorIs(t, err, ErrInvalidRound)

	_, err = RoundRobinPairs([]string{"a", "b", "c", "d"}, 0)
	assert.ErrorIs(t, err, ErrInvalidRound)
}

func TestChampionOf_MostWins(t *testing.T) {
	stats := []models.TournamentStats{
		{Username: "alice", Wins: 1, Points: 4},
		{Username: "bob", Wins: 3, Points: 3},
		{Username: "carol", Wins: 2, Points: 8},
	}

	assert.Equal(t, "bob", ChampionOf(stats).Username)
}

func TestChampionOf_TieBrokenByPoints(t *testing.T) {
	stats := []models.TournamentStats{
		{Username: "alice", Wins: 2, Points: 3},
		{Username: "bob", Wins: 2, Points: 5},
		{Username: "carol", Wins: 2, Points: 4},
	}

	assert.Equal(t, "bob", ChampionOf(stats).Username)
}

func TestTotalRoundRobinWins(t *testing.T) {
	assert.Equal(t, 6, TotalRoundRobinWins(4))
}
