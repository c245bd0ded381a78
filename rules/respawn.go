package rules

import (
	"math"
	"sort"

	"github.com/brensch/snekarena/game"
)

// Respawn places a snake at a freshly sampled spawn point and rebuilds
// its starting trail (spec §4.4). It is idempotent: repeated calls
// always reset the same fields to the same kind of fresh state and
// never touch ID, name, color, or lifetime/submission stats. Used both
// by the respawn sweep (spec §4.3 step 2) and by submit/register
// (spec §4.3 "Command application").
//
// It returns the freshly built segment cache for the new trail so
// every caller can push it into GameState.SetSegments immediately —
// otherwise a respawned snake's AI input (spec §6) would see a stale
// or empty segments list for the rest of the tick, since RebuildSegments
// (step 7) runs after AI fan-out (step 4).
func Respawn(snk *game.Snake, cfg game.Config, rng game.Sampler, salt uint64, tick int64) []game.Point {
	pos, heading := game.SpawnPosition(cfg.ArenaRadius, rng, salt, tick)

	snk.X = pos.X
	snk.Y = pos.Y
	snk.Angle = heading
	snk.Speed = cfg.SnakeSpeed
	snk.Trail = buildInitialTrail(pos, heading, cfg)
	snk.SegmentCount = cfg.StartingSegments

	snk.Alive = true
	snk.Kills = 0
	snk.DiedAtTick = 0
	snk.DeathReason = ""
	snk.RespawnAt = 0
	snk.LastAIError = ""
	snk.SteeredThisTick = false

	return game.SegmentPositions(snk.Trail, snk.SegmentCount, cfg.SegmentSpacing)
}

// buildInitialTrail lays startingSegments*3 points spaced spacing/2
// apart, trailing back along the opposite of the spawn heading
// (spec §4.3 step 2).
func buildInitialTrail(head game.Point, heading float64, cfg game.Config) []game.Point {
	n := cfg.StartingSegments * 3
	if n < 1 {
		n = 1
	}
	step := cfg.SegmentSpacing / 2
	backDX := -math.Cos(heading) * step
	backDY := -math.Sin(heading) * step

	trail := make([]game.Point, n)
	trail[0] = head
	for i := 1; i < n; i++ {
		prev := trail[i-1]
		trail[i] = game.Point{X: prev.X + backDX, Y: prev.Y + backDY}
	}
	return trail
}

// RespawnSweep implements spec §4.3 step 2: every dead snake whose
// RespawnAt has arrived is placed back into the arena. Returns the
// names of respawned snakes in deterministic order for `snake:respawned`
// events.
func RespawnSweep(state *game.GameState, cfg game.Config, rng game.Sampler, salt uint64) []string {
	if !cfg.RespawnOnDeath {
		return nil
	}

	ids := make([]string, 0)
	for id, snk := range state.Snakes {
		if !snk.Alive && snk.RespawnAt <= state.Tick && snk.RespawnAt != 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		snk := state.Snakes[id]
		segs := Respawn(snk, cfg, rng, salt^fnvHash(id), state.Tick)
		state.SetSegments(id, segs)
		names = append(names, snk.Name)
	}
	return names
}
