package services

import "backgammon-server/models"

// PiecesSummary returns a player's checker distribution on a board: checkers
// on the 24 points, checkers on the bar, and checkers inside the opponent's
// home board (points 19-24 for player 1, points 1-6 for player 2).
func PiecesSummary(board models.BoardConfiguration, isPlayer1 bool) (onBoard, onBar, onOpponentHome int) {
	if isPlayer1 {
		for _, p := range board.Points {
			onBoard += p.Player1
		}
		for _, p := range board.Points[18:24] {
			onOpponentHome += p.Player1
		}
		onBar = board.Bar.Player1
		return
	}
	for _, p := range board.Points {
		onBoard += p.Player2
	}
	for _, p := range board.Points[0:6] {
		onOpponentHome += p.Player2
	}
	onBar = board.Bar.Player2
	return
}

// IsGammon reports whether the winner bore off all 15 checkers while the
// loser bore off none.
func IsGammon(board models.BoardConfiguration, winnerIsPlayer1 bool) bool {
	winBoard, winBar, _ := PiecesSummary(board, winnerIsPlayer1)
	loseBoard, loseBar, _ := PiecesSummary(board, !winnerIsPlayer1)

	return winBoard+winBar == 0 && loseBoard+loseBar == models.NumberOfPlayerPieces
}

// IsBackgammon reports a gammon where the loser additionally still has a
// checker on the bar or inside the winner's home board.
func IsBackgammon(board models.BoardConfiguration, winnerIsPlayer1 bool) bool {
	winBoard, winBar, _ := PiecesSummary(board, winnerIsPlayer1)
	loseBoard, loseBar, loseInHome := PiecesSummary(board, !winnerIsPlayer1)

	return winBoard+winBar == 0 &&
		loseBoard+loseBar == models.NumberOfPlayerPieces &&
		loseBar+loseInHome > 0
}
