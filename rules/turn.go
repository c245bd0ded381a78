// Package rules implements the per-tick pipeline phases of the
// simulation kernel (spec §4.3): turning, movement, eating, collision,
// death processing, respawn, food top-up and the win check. Each phase
// is a small pure(ish) function over *game.GameState so the scheduler
// package can compose them in the exact contractual order spec §4.3
// requires.
package rules

import "github.com/brensch/snekarena/game"

// Decision is the result of one AI dispatch for one snake (spec §4.2's
// {targetAngle, error} contract).
type Decision struct {
	TargetAngle *float64
	Err         string
}

// Turn applies the turn governor to every alive snake using its
// decision from this tick's AI fan-out (spec §4.3 step 5). A nil
// TargetAngle leaves heading unchanged; LastAIError is always recorded.
func Turn(state *game.GameState, cfg game.Config, decisions map[string]Decision) {
	for _, id := range state.AliveSnakeIDs() {
		snk := state.Snakes[id]
		d, ok := decisions[id]
		if !ok {
			snk.SteeredThisTick = false
			continue
		}
		snk.LastAIError = d.Err
		if d.TargetAngle != nil {
			snk.Angle = game.TurnToward(snk.Angle, game.NormalizeAngle(*d.TargetAngle), cfg.MaxTurnRate)
			snk.SteeredThisTick = true
		} else {
			snk.SteeredThisTick = false
		}
	}
}
