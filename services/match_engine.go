package services

import (
	"errors"
	"time"

	"backgammon-server/models"
)

// Validation errors reported synchronously to callers. None of them leave
// the match mutated.
var (
	ErrNoOngoingGame        = errors.New("no ongoing game found")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrStartDiceResolved    = errors.New("start dice already thrown")
	ErrAwaitOpponentThrow   = errors.New("you have already thrown the start dice, wait for the other player")
	ErrDiceAlreadyThrown    = errors.New("dice already thrown")
	ErrDieNotAvailable      = errors.New("die value not available")
	ErrBoardRejected        = errors.New("submitted board violates checker counts")
	ErrDoubleUnavailable    = errors.New("doubling already proposed or cube owned by you")
	ErrCubeMaxed            = errors.New("doubling cube already reached maximum value")
	ErrNoDoublePending      = errors.New("no doubling cube proposed to you")
	ErrSuggestionsExhausted = errors.New("all suggestions already used")
	ErrOwnTurnTimeout       = errors.New("it's not your opponent's turn")
	ErrTimeoutNotMet        = errors.New("timeout condition not met")
)

// RoundResult describes the outcome of a finished round.
type RoundResult struct {
	Winner    int    // 1 or 2
	Points    int    // severity x cube value, added to the winner's counter
	Severity  string // "", "gammon", "backgammon" or "timeout"
	MatchOver bool
}

// EnsureTurn validates that a player may take a state-changing game action:
// the turn must be theirs and no doubling proposal may be pending.
func EnsureTurn(m *models.Match, player int) error {
	if m.CurrentPlayerNumber() != player || m.DoublingCube.Proposed {
		return ErrNotYourTurn
	}
	return nil
}

// ThrowStartDice records one pre-game tie-break throw. When the opponent is
// an AI, both dice of the throw are consumed at once since no second human
// will throw. The first strict inequality at equal throw counts fixes the
// starter and the initial turn parity.
func ThrowStartDice(m *models.Match, player, die1, die2 int, opponentIsAI bool) error {
	if m.Starter > 0 {
		return ErrStartDiceResolved
	}
	sd := &m.StartDice
	if (player == 1 && sd.Count1 > sd.Count2) || (player == 2 && sd.Count2 > sd.Count1) {
		return ErrAwaitOpponentThrow
	}

	if player == 1 {
		sd.Roll1, sd.Count1 = die1, sd.Count1+1
		if opponentIsAI {
			sd.Roll2, sd.Count2 = die2, sd.Count2+1
		}
	} else {
		sd.Roll2, sd.Count2 = die1, sd.Count2+1
		if opponentIsAI {
			sd.Roll1, sd.Count1 = die2, sd.Count1+1
		}
	}

	if sd.Count1 == sd.Count2 {
		if sd.Roll1 > sd.Roll2 {
			m.Starter, m.Turn = 1, 0
		} else if sd.Roll2 > sd.Roll1 {
			m.Starter, m.Turn = 2, 1
		}
		// equal rolls: tie, both sides re-roll
	}
	return nil
}

// AssignDice gives the current turn its dice. Doubles expand to four
// available moves.
func AssignDice(m *models.Match, die1, die2 int) error {
	if len(m.Dice) > 0 {
		return ErrDiceAlreadyThrown
	}
	m.Dice = []int{die1, die2}
	if die1 == die2 {
		m.Available = []int{die1, die1, die1, die1}
	} else {
		m.Available = []int{die1, die2}
	}
	return nil
}

// ApplyMove replaces the board with the client-submitted configuration and
// consumes one instance of the used die. Individual checker legality is the
// client's concern; only checker-count sanity is enforced: a side's total
// can never grow or exceed 15 (bearing off only shrinks it). The turn
// advances once no dice remain.
func ApplyMove(m *models.Match, board models.BoardConfiguration, die int) error {
	idx := -1
	for i, v := range m.Available {
		if v == die {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrDieNotAvailable
	}
	if err := validateBoardTransition(m.Board, board); err != nil {
		return err
	}

	m.Board = board
	m.Available = append(m.Available[:idx], m.Available[idx+1:]...)
	if len(m.Available) == 0 {
		advanceTurn(m)
	}
	return nil
}

func validateBoardTransition(old, next models.BoardConfiguration) error {
	if len(next.Points) != 24 {
		return ErrBoardRejected
	}
	for _, p := range next.Points {
		if p.Player1 < 0 || p.Player2 < 0 {
			return ErrBoardRejected
		}
	}
	if next.Bar.Player1 < 0 || next.Bar.Player2 < 0 {
		return ErrBoardRejected
	}
	for _, isPlayer1 := range []bool{true, false} {
		oldBoard, oldBar, _ := PiecesSummary(old, isPlayer1)
		newBoard, newBar, _ := PiecesSummary(next, isPlayer1)
		total := newBoard + newBar
		if total > models.NumberOfPlayerPieces || total > oldBoard+oldBar {
			return ErrBoardRejected
		}
	}
	return nil
}

// PassTurn unconditionally hands the turn to the opponent, clearing dice.
// Used when no legal move exists for the remaining dice.
func PassTurn(m *models.Match) {
	advanceTurn(m)
}

func advanceTurn(m *models.Match) {
	m.Turn++
	m.Dice = nil
	m.Available = nil
}

// ProposeDouble offers the cube. The proposer must be on turn, no proposal
// may be pending, the proposer must not already own the cube, and the cube
// must be below its cap.
func ProposeDouble(m *models.Match, player int) error {
	if m.CurrentPlayerNumber() != player {
		return ErrNotYourTurn
	}
	if m.DoublingCube.Proposed || m.DoublingCube.LastUsage == player {
		return ErrDoubleUnavailable
	}
	if m.DoublingCube.Count >= 3 {
		return ErrCubeMaxed
	}
	m.DoublingCube.Proposed = true
	m.DoublingCube.Proposer = player
	return nil
}

// AcceptDouble doubles the stake. The cube passes to the proposer, who may
// not re-propose until it changes hands again.
func AcceptDouble(m *models.Match, player int) error {
	if err := ensureDoublePending(m, player); err != nil {
		return err
	}
	m.DoublingCube.Count++
	m.DoublingCube.Proposed = false
	m.DoublingCube.LastUsage = m.DoublingCube.Proposer
	m.DoublingCube.Proposer = 0
	return nil
}

// EnsureCanRejectDouble validates the reject-double precondition; the round
// forfeiture itself runs through ResolveRound.
func EnsureCanRejectDouble(m *models.Match, player int) error {
	return ensureDoublePending(m, player)
}

func ensureDoublePending(m *models.Match, player int) error {
	if !m.DoublingCube.Proposed || m.DoublingCube.Proposer == player {
		return ErrNoDoublePending
	}
	return nil
}

// UseSuggestion consumes one of a player's capped AI suggestion uses.
func UseSuggestion(m *models.Match, player int) error {
	if m.CurrentPlayerNumber() != player {
		return ErrNotYourTurn
	}
	if len(m.AISuggestions) < 2 {
		m.AISuggestions = []int{0, 0}
	}
	if m.AISuggestions[player-1] >= models.MaxAISuggestions {
		return ErrSuggestionsExhausted
	}
	m.AISuggestions[player-1]++
	return nil
}

// WinScan finds the round winner by scanning the board: the side with zero
// checkers left on points and bar has borne everything off.
func WinScan(board models.BoardConfiguration) int {
	p1 := board.Bar.Player1
	p2 := board.Bar.Player2
	for _, point := range board.Points {
		p1 += point.Player1
		p2 += point.Player2
		if p1 > 0 && p2 > 0 {
			return 0
		}
	}
	if p1 == 0 {
		return 1
	}
	return 2
}

// WinSeverity classifies a finished round from the loser's distribution.
func WinSeverity(board models.BoardConfiguration, winner int) (multiplier int, label string) {
	winnerIsPlayer1 := winner == 1
	switch {
	case IsBackgammon(board, winnerIsPlayer1):
		return 3, "backgammon"
	case IsGammon(board, winnerIsPlayer1):
		return 2, "gammon"
	default:
		return 1, ""
	}
}

// TimedOut reports whether the side on turn has exceeded its inactivity
// budget.
func TimedOut(m *models.Match, now time.Time, threshold time.Duration) bool {
	return now.Sub(m.LastUpdated) > threshold
}

// TimeoutDefaulter is the player charged with the clock. Before the start
// dice resolve the pre-start turn of -1 falls on player 2, so a stalled
// tie-break can still be forfeited.
func TimeoutDefaulter(m *models.Match) int {
	if m.Turn < 0 {
		return 2
	}
	return m.CurrentPlayerNumber()
}

// TimeoutWinner is the opponent of whoever let the clock run out.
func TimeoutWinner(m *models.Match) int {
	return models.Opponent(TimeoutDefaulter(m))
}

// ResolveRound credits a finished round to the winner and either terminates
// the match or resets it for the next round. Timeout forfeitures carry the
// cube value but no severity multiplier. On a reset the round loser moves
// first.
func ResolveRound(m *models.Match, winner int, timeout bool) RoundResult {
	res := RoundResult{Winner: winner}

	if timeout {
		res.Points = m.DoublingCube.Value()
		res.Severity = "timeout"
	} else {
		mult, label := WinSeverity(m.Board, winner)
		res.Points = mult * m.DoublingCube.Value()
		res.Severity = label
	}

	if winner == 1 {
		m.WinsP1 += res.Points
	} else {
		m.WinsP2 += res.Points
	}

	if m.WinsP1 >= m.RoundsToWin || m.WinsP2 >= m.RoundsToWin {
		res.MatchOver = true
		m.DoublingCube.Proposed = false
		m.DoublingCube.Proposer = 0
		if winner == 1 {
			m.Status = models.MatchPlayer1Won
		} else {
			m.Status = models.MatchPlayer2Won
		}
		return res
	}

	resetForNewRound(m, winner)
	return res
}

// ResolveQuit concedes every remaining round to the opponent of the
// quitting player and terminates the match.
func ResolveQuit(m *models.Match, winner int) RoundResult {
	m.Board = models.DefaultBoard()
	cube := m.DoublingCube.Value()

	var remaining int
	if winner == 1 {
		remaining = m.RoundsToWin - m.WinsP1
		m.WinsP1 += remaining * cube
		m.Status = models.MatchPlayer1Won
	} else {
		remaining = m.RoundsToWin - m.WinsP2
		m.WinsP2 += remaining * cube
		m.Status = models.MatchPlayer2Won
	}
	m.Dice = nil
	m.Available = nil
	m.DoublingCube.Proposed = false
	m.DoublingCube.Proposer = 0

	return RoundResult{Winner: winner, Points: cube, MatchOver: true}
}

func resetForNewRound(m *models.Match, winner int) {
	m.Board = models.DefaultBoard()
	m.Dice = nil
	m.Available = nil
	// suggestion counters are per match, they survive the reset
	m.Starter = 0
	m.StartDice = models.StartDice{}
	m.DoublingCube = models.DoublingCube{}
	// loser of the round moves first
	if winner == 1 {
		m.Turn = 1
	} else {
		m.Turn = 0
	}
}
