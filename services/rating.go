package services

import "math"

const (
	// DefaultRating is assigned to every new account.
	DefaultRating = 1500
	// MinimumRating is the floor a loser's rating can never drop below.
	MinimumRating = 200

	ratingK = 32
)

// NewRatingsAfterMatch computes both players' updated ratings from a match
// result using a logistic expected-score model (base 10, divisor 400).
func NewRatingsAfterMatch(winnerRating, loserRating int) (int, int) {
	expectedWin := 1 / (1 + math.Pow(10, float64(loserRating-winnerRating)/400))
	expectedLose := 1 / (1 + math.Pow(10, float64(winnerRating-loserRating)/400))

	newWinner := int(float64(winnerRating) + ratingK*(1-expectedWin))
	newLoser := int(float64(loserRating) + ratingK*(0-expectedLose))

	if newLoser < MinimumRating {
		newLoser = MinimumRating
	}
	return newWinner, newLoser
}
