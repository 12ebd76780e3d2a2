package services

import "math/rand"

// ThrowDice produces two independent uniform dice in [1,6].
func ThrowDice() (int, int) {
	return rand.Intn(6) + 1, rand.Intn(6) + 1
}
