package rules

import "github.com/brensch/snekarena/game"

// ResolveEating applies food-eating for every alive snake against the
// current food list (spec §4.3 step 8). Food already claimed by an
// earlier snake this tick is skipped so two heads cannot both eat the
// same tile; all eaten food is removed in a single stable-order rebuild
// at the end of the step.
func ResolveEating(state *game.GameState, cfg game.Config) {
	if len(state.Food) == 0 {
		return
	}

	claimed := make([]bool, len(state.Food))

	for _, id := range state.AliveSnakeIDs() {
		snk := state.Snakes[id]
		head := game.Point{X: snk.X, Y: snk.Y}
		for i, f := range state.Food {
			if claimed[i] {
				continue
			}
			eatRadius := cfg.SnakeRadius + f.Radius
			if game.DistSq(head, game.Point{X: f.X, Y: f.Y}) < eatRadius*eatRadius {
				claimed[i] = true
				snk.SegmentCount += f.Value
				if snk.SegmentCount > snk.BestLength {
					snk.BestLength = snk.SegmentCount
				}
			}
		}
	}

	remaining := make([]*game.Food, 0, len(state.Food))
	for i, f := range state.Food {
		if !claimed[i] {
			remaining = append(remaining, f)
		}
	}
	state.Food = remaining
}
