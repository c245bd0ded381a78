package rules

import "github.com/brensch/snekarena/game"

const normalFoodValue = 1

// TopUpFood implements spec §4.3 step 12: maintain
// len(food) >= min(minFood + 20*len(snakes), maxFood) by appending
// uniformly sampled food tiles. Per spec §9's open question, this is a
// floor applied only after corpse food (step 10) has already been
// added — MaxFood is the one hard cap enforced at every insertion
// point, never retroactively trimmed.
func TopUpFood(state *game.GameState, cfg game.Config, rng game.Sampler, salt uint64) {
	target := cfg.MinFood + 20*len(state.Snakes)
	if target > cfg.MaxFood {
		target = cfg.MaxFood
	}

	i := uint64(0)
	for len(state.Food) < target && len(state.Food) < cfg.MaxFood {
		p := game.SpawnFood(cfg.ArenaRadius, rng, salt^(i*0xA24BAED4963EE407), state.Tick)
		state.Food = append(state.Food, &game.Food{
			X:      p.X,
			Y:      p.Y,
			Value:  normalFoodValue,
			Radius: cfg.FoodRadius,
		})
		i++
	}
}
