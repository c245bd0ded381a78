package rules

import (
	"sort"

	"github.com/brensch/snekarena/game"
)

// DeathEvent is emitted for each snake that died this tick, for the
// scheduler to turn into a `snake:died` broadcast event.
type DeathEvent struct {
	SnakeID string
	Name    string
	Reason  string
}

// ProcessDeaths applies spec §4.3 step 10 to every snake marked dead
// this tick: flips alive/lifecycle fields, schedules a respawn tick
// when the arena runs respawn-on-death, and converts the snake's body
// into corpse food. Iteration is over sorted IDs so corpse-food
// ordering (and therefore which tiles get dropped once MaxFood is
// reached) is deterministic.
func ProcessDeaths(state *game.GameState, cfg game.Config, deaths map[string]DeathInfo, rng game.Sampler, salt uint64) []DeathEvent {
	ids := make([]string, 0, len(deaths))
	for id := range deaths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	events := make([]DeathEvent, 0, len(ids))
	for _, id := range ids {
		snk, ok := state.Snakes[id]
		if !ok || !snk.Alive {
			continue
		}
		info := deaths[id]
		segs := state.Segments(id)

		snk.Alive = false
		snk.Deaths++
		snk.DiedAtTick = state.Tick
		snk.DeathReason = info.Reason
		if cfg.RespawnOnDeath {
			snk.RespawnAt = state.Tick + cfg.RespawnDelayTicks()
		}

		events = append(events, DeathEvent{SnakeID: id, Name: snk.Name, Reason: info.Reason})

		corpseCount := len(segs) / 2
		if corpseCount > 0 {
			for i, f := range spawnCorpseFood(segs, corpseCount, cfg, rng, salt, state.Tick, id) {
				if len(state.Food) >= cfg.MaxFood {
					break
				}
				_ = i
				state.Food = append(state.Food, f)
			}
		}

		snk.Trail = nil
	}
	return events
}

// ApplyKillCredit implements spec §4.3 step 11: a kill is credited only
// if the killer is not itself among this tick's dead (kill credit is
// revoked when both snakes die in the same tick).
func ApplyKillCredit(state *game.GameState, deaths map[string]DeathInfo) {
	for _, info := range deaths {
		if info.Killer == "" {
			continue
		}
		if _, killerDied := deaths[info.Killer]; killerDied {
			continue
		}
		killer, ok := state.Snakes[info.Killer]
		if !ok {
			continue
		}
		killer.Kills++
		killer.TotalKills++
	}
}

const (
	corpseFoodValue      = 5
	corpseFoodRadiusMult = 1.5
	corpseJitterRange    = 5
)

// spawnCorpseFood picks `count` points spaced evenly through the dying
// snake's cached segments, jitters each axis uniformly within
// [-5, +5] and returns elevated-value, elevated-radius food tiles
// (spec §3 "Food" lifetime clause).
func spawnCorpseFood(segs []game.Point, count int, cfg game.Config, rng game.Sampler, salt uint64, tick int64, snakeID string) []*game.Food {
	if len(segs) == 0 || count <= 0 {
		return nil
	}
	out := make([]*game.Food, 0, count)
	step := float64(len(segs)) / float64(count)
	for i := 0; i < count; i++ {
		idx := int(float64(i) * step)
		if idx >= len(segs) {
			idx = len(segs) - 1
		}
		p := segs[idx]
		jx := jitter(rng, salt, tick, uint64(i)*2+1, snakeID)
		jy := jitter(rng, salt, tick, uint64(i)*2+2, snakeID)
		out = append(out, &game.Food{
			X:      p.X + jx,
			Y:      p.Y + jy,
			Value:  corpseFoodValue,
			Radius: cfg.FoodRadius * corpseFoodRadiusMult,
		})
	}
	return out
}

func jitter(rng game.Sampler, salt uint64, tick int64, stream uint64, snakeID string) float64 {
	u := sampleUnit(rng, salt, tick, stream, snakeID)
	return (u*2 - 1) * corpseJitterRange
}

func sampleUnit(rng game.Sampler, salt uint64, tick int64, stream uint64, snakeID string) float64 {
	if rng != nil {
		return rng.Float64()
	}
	h := fnvHash(snakeID)
	v := deterministicU64(uint64(tick)^h, salt^(stream*0x9E3779B97F4A7C15))
	return float64(v>>11) / (1 << 53)
}

// fnvHash is a tiny string hash used only to fold a snake ID into the
// deterministic RNG fallback's seed.
func fnvHash(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// deterministicU64 duplicates game's splitmix64 helper; kept local the
// way the teacher's own game/food.go and rules/food.go each carry their
// own copy rather than sharing a tiny hash utility across packages.
func deterministicU64(a, b uint64) uint64 {
	x := a + b
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
