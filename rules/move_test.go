package rules

import (
	"math"
	"testing"

	"github.com/brensch/snekarena/game"
)

func TestMove_AdvancesHeadAlongHeading(t *testing.T) {
	cfg := baseConfig()
	cfg.SegmentSpacing = 20
	cfg.SegmentSlack = 2
	state := game.NewGameState(cfg.ArenaRadius)
	state.Snakes["a"] = &game.Snake{
		ID: "a", Alive: true, X: 0, Y: 0, Angle: 0, Speed: 5, SegmentCount: 3,
		Trail: []game.Point{{X: 0, Y: 0}},
	}

	Move(state, cfg)

	snk := state.Snakes["a"]
	if math.Abs(snk.X-5) > 1e-9 || math.Abs(snk.Y) > 1e-9 {
		t.Errorf("head moved to (%v, %v), want (5, 0)", snk.X, snk.Y)
	}
	if len(snk.Trail) < 2 || snk.Trail[0] != (game.Point{X: 5, Y: 0}) {
		t.Error("Trail[0] should be the new head position")
	}
}

func TestMove_PrunesTrailToSegmentBudget(t *testing.T) {
	cfg := baseConfig()
	cfg.SegmentSpacing = 10
	cfg.SegmentSlack = 0
	state := game.NewGameState(cfg.ArenaRadius)

	trail := make([]game.Point, 0, 50)
	for i := 0; i < 50; i++ {
		trail = append(trail, game.Point{X: float64(i) * 10, Y: 0})
	}
	state.Snakes["a"] = &game.Snake{
		ID: "a", Alive: true, X: 0, Y: 0, Angle: math.Pi, Speed: 0, SegmentCount: 3,
		Trail: trail,
	}

	Move(state, cfg)

	maxArc := float64(3) * 10.0
	arc := game.TrailArcLength(state.Snakes["a"].Trail)
	if arc > maxArc+10 {
		t.Errorf("trail arc length %v exceeds budget %v by more than one segment", arc, maxArc)
	}
}

func TestRebuildSegments_CachesPerSnake(t *testing.T) {
	cfg := baseConfig()
	cfg.SegmentSpacing = 10
	state := game.NewGameState(cfg.ArenaRadius)
	state.Snakes["a"] = &game.Snake{
		ID: "a", Alive: true, SegmentCount: 2,
		Trail: []game.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 20}},
	}

	RebuildSegments(state, cfg)

	segs := state.Segments("a")
	if len(segs) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(segs))
	}
}

func TestRebuildSegments_OnlyAliveSnakes(t *testing.T) {
	cfg := baseConfig()
	state := game.NewGameState(cfg.ArenaRadius)
	state.Snakes["dead"] = &game.Snake{ID: "dead", Alive: false, SegmentCount: 2, Trail: []game.Point{{X: 0, Y: 0}}}

	RebuildSegments(state, cfg)

	if state.Segments("dead") != nil {
		t.Error("a dead snake should not get a rebuilt segment cache")
	}
}
