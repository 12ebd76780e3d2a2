package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRatingsAfterMatch_EqualRatings(t *testing.T) {
	winner, loser := NewRatingsAfterMatch(1500, 1500)

	assert.Equal(t, 1516, winner)
	assert.Equal(t, 1484, loser)
}

func TestNewRatingsAfterMatch_UpsetWin(t *testing.T) {
	// a low-rated winner gains more than a favourite would, and the
	// beaten favourite pays for it
	winner, loser := NewRatingsAfterMatch(1200, 1800)

	assert.Greater(t, winner-1200, 16)
	assert.Greater(t, 1800-loser, 16)
}

func TestNewRatingsAfterMatch_FavouriteWin(t *testing.T) {
	winner, loser := NewRatingsAfterMatch(1800, 1200)

	assert.Less(t, winner-1800, 16)
	assert.GreaterOrEqual(t, winner, 1800)
	assert.LessOrEqual(t, loser, 1200)
}

func TestNewRatingsAfterMatch_FloorApplied(t *testing.T) {
	_, loser := NewRatingsAfterMatch(200, 210)

	assert.Equal(t, MinimumRating, loser)
}

func TestNewRatingsAfterMatch_WinnerNeverLoses(t *testing.T) {
	for _, opponent := range []int{200, 1000, 1500, 2400} {
		winner, _ := NewRatingsAfterMatch(1500, opponent)
		assert.GreaterOrEqual(t, winner, 1500, "opponent rating %d", opponent)
	}
}
