package rules

import (
	"math"

	"github.com/brensch/snekarena/game"
)

// Move advances every alive snake's head along its heading and prunes
// its trail (spec §4.3 step 6).
func Move(state *game.GameState, cfg game.Config) {
	for _, id := range state.AliveSnakeIDs() {
		snk := state.Snakes[id]
		snk.X += math.Cos(snk.Angle) * snk.Speed
		snk.Y += math.Sin(snk.Angle) * snk.Speed

		head := game.Point{X: snk.X, Y: snk.Y}
		snk.Trail = append([]game.Point{head}, snk.Trail...)

		maxArc := float64(snk.SegmentCount+int(cfg.SegmentSlack)) * cfg.SegmentSpacing
		snk.Trail = game.PruneTrail(snk.Trail, maxArc)
	}
}

// RebuildSegments reconstructs the per-tick visible segment cache for
// every alive snake (spec §4.3 step 7). This cache is the only source
// both collision (this package) and broadcast (package broadcast) may
// use this tick — it must never be rebuilt a second time (spec §9).
func RebuildSegments(state *game.GameState, cfg game.Config) {
	for _, id := range state.AliveSnakeIDs() {
		snk := state.Snakes[id]
		segs := game.SegmentPositions(snk.Trail, snk.SegmentCount, cfg.SegmentSpacing)
		state.SetSegments(id, segs)
	}
}
