package rules

import "github.com/brensch/snekarena/game"

// CheckWin implements spec §4.3 step 13 (tournament mode only): the
// game finishes once at most one snake is alive, provided at least two
// snakes are currently registered. Returns whether the game just finished and the
// winner's ID (empty on a draw).
func CheckWin(state *game.GameState) (finished bool, winnerID string) {
	if len(state.Snakes) < 2 {
		return false, ""
	}
	alive := state.AliveSnakeIDs()
	if len(alive) > 1 {
		return false, ""
	}
	if len(alive) == 1 {
		return true, alive[0]
	}
	return true, ""
}
