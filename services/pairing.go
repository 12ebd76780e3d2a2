package services

import (
	"errors"

	"backgammon-server/models"
)

var (
	ErrRoundExists  = errors.New("round already exists")
	ErrInvalidRound = errors.New("invalid round number")
)

// RoundRobinPairs computes round r's two pairings among four seats, ordered
// as seated when the tournament started: seat 0 plays seat r, the remaining
// two seats play each other in ascending order. Across rounds 1-3 this
// yields every unique pairing exactly once.
func RoundRobinPairs(seats []string, round int) ([2][2]string, error) {
	var pairs [2][2]string
	if len(seats) != models.MaxTournamentParticipants || round < 1 || round > 3 {
		return pairs, ErrInvalidRound
	}

	pairs[0] = [2]string{seats[0], seats[round]}

	rest := make([]int, 0, 2)
	for i := 1; i < len(seats); i++ {
		if i != round {
			rest = append(rest, i)
		}
	}
	pairs[1] = [2]string{seats[rest[0]], seats[rest[1]]}
	return pairs, nil
}

// RoundAction is the coordinator's next step after a standings change.
type RoundAction int

const (
	RoundContinue RoundAction = iota // current round still has an open match
	RoundAdvance                     // generate the next round
	RoundFinish                      // bracket complete
)

// RecordOutcome applies one finished match to the standings. Winners collect
// the match's awarded points; losers only log the appearance.
func RecordOutcome(t *models.Tournament, winner, loser string, points int) {
	if w := t.StatsFor(winner); w != nil {
		w.Wins++
		w.Matches++
		w.Points += points
	}
	if l := t.StatsFor(loser); l != nil {
		l.Losses++
		l.Matches++
	}
}

// NextRoundAction decides what follows from the standings: finish once the
// full round-robin win total is reached, advance when both of a round's
// matches are done, otherwise wait for the open match.
func NextRoundAction(stats []models.TournamentStats, participants int) (RoundAction, int) {
	total := 0
	for _, s := range stats {
		total += s.Wins
	}
	switch {
	case total >= TotalRoundRobinWins(participants):
		return RoundFinish, 0
	case total%2 == 0:
		return RoundAdvance, total/2 + 1
	}
	return RoundContinue, 0
}

// ChampionOf picks the tournament winner: most round wins, ties broken by
// accumulated points.
func ChampionOf(stats []models.TournamentStats) models.TournamentStats {
	best := stats[0]
	for _, s := range stats[1:] {
		if s.Wins > best.Wins || (s.Wins == best.Wins && s.Points > best.Points) {
			best = s
		}
	}
	return best
}

// TotalRoundRobinWins is the win total at which a round-robin bracket of n
// players is complete.
func TotalRoundRobinWins(n int) int {
	return n * (n - 1) / 2
}
