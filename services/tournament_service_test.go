package services

import (
	"testing"

	"backgammon-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedTournament(seats ...string) *models.Tournament {
	t := &models.Tournament{
		ID:                    "t1",
		Owner:                 seats[0],
		Name:                  "weekly",
		Type:                  models.TournamentRoundRobin,
		ConfirmedParticipants: seats,
		Status:                models.TournamentStarted,
		RoundsToWin:           1,
		CurrentRound:          1,
	}
	for _, p := range seats {
		t.Stats = append(t.Stats, models.TournamentStats{Username: p})
	}
	return t
}

func TestRecordOutcome_UpdatesStandings(t *testing.T) {
	tournament := newStartedTournament("alice", "bob", "carol", "dave")

	RecordOutcome(tournament, "alice", "bob", 2)

	winner := tournament.StatsFor("alice")
	require.NotNil(t, winner)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, winner.Matches)
	assert.Equal(t, 2, winner.Points)

	loser := tournament.StatsFor("bob")
	require.NotNil(t, loser)
	assert.Equal(t, 1, loser.Losses)
	assert.Equal(t, 1, loser.Matches)
	assert.Equal(t, 0, loser.Points)
}

func TestNextRoundAction_FullBracket(t *testing.T) {
	// round 1: (alice,bob) and (carol,dave); round 2: (alice,carol) and
	// (bob,dave); round 3: (alice,dave) and (bob,carol)
	tournament := newStartedTournament("alice", "bob", "carol", "dave")
	n := len(tournament.ConfirmedParticipants)

	results := []struct {
		winner, loser string
		points        int
		action        RoundAction
		round         int
	}{
		{"alice", "bob", 1, RoundContinue, 0},
		{"carol", "dave", 1, RoundAdvance, 2},
		{"alice", "carol", 1, RoundContinue, 0},
		{"bob", "dave", 2, RoundAdvance, 3},
		{"dave", "alice", 1, RoundContinue, 0},
		{"bob", "carol", 1, RoundFinish, 0},
	}
	for _, r := range results {
		RecordOutcome(tournament, r.winner, r.loser, r.points)
		action, round := NextRoundAction(tournament.Stats, n)
		assert.Equal(t, r.action, action, "after %s beat %s", r.winner, r.loser)
		assert.Equal(t, r.round, round, "after %s beat %s", r.winner, r.loser)
	}

	// alice and bob both end on two wins; bob's gammon breaks the tie
	assert.Equal(t, "bob", ChampionOf(tournament.Stats).Username)
}

func TestNextRoundAction_FreshBracketWantsRoundOne(t *testing.T) {
	tournament := newStartedTournament("alice", "bob", "carol", "dave")

	action, round := NextRoundAction(tournament.Stats, 4)
	assert.Equal(t, RoundAdvance, action)
	assert.Equal(t, 1, round)
}

func TestCreateRoundRobinRound_AlreadyGenerated(t *testing.T) {
	s := &TournamentService{}
	tournament := newStartedTournament("alice", "bob", "carol", "dave")
	tournament.CurrentRound = 2

	assert.ErrorIs(t, s.createRoundRobinRound(tournament, 2), ErrRoundExists)
	assert.ErrorIs(t, s.createRoundRobinRound(tournament, 1), ErrRoundExists)
}
