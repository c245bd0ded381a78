package rules

import (
	"testing"

	"github.com/brensch/snekarena/game"
)

func TestRespawn_ResetsLifecycleFieldsButKeepsIdentity(t *testing.T) {
	cfg := baseConfig()
	cfg.StartingSegments = 10
	snk := &game.Snake{
		ID: "a", Name: "alice", Color: "#fff",
		TotalKills: 3, Deaths: 2, BestLength: 50,
		Alive: false, DeathReason: "boundary", RespawnAt: 5,
	}

	Respawn(snk, cfg, nil, 0, 12)

	if !snk.Alive {
		t.Error("Respawn should mark the snake alive")
	}
	if snk.DeathReason != "" || snk.RespawnAt != 0 {
		t.Error("Respawn should clear death bookkeeping")
	}
	if snk.SegmentCount != cfg.StartingSegments {
		t.Errorf("SegmentCount = %d, want %d", snk.SegmentCount, cfg.StartingSegments)
	}
	if snk.ID != "a" || snk.Name != "alice" || snk.Color != "#fff" {
		t.Error("Respawn must not touch identity fields")
	}
	if snk.TotalKills != 3 || snk.Deaths != 2 || snk.BestLength != 50 {
		t.Error("Respawn must not touch lifetime stats")
	}
	if snk.Kills != 0 {
		t.Error("Respawn should reset the per-life kill counter")
	}
}

func TestRespawn_BuildsTrailOfExpectedLength(t *testing.T) {
	cfg := baseConfig()
	cfg.StartingSegments = 4
	snk := &game.Snake{ID: "a"}

	Respawn(snk, cfg, nil, 0, 0)

	if len(snk.Trail) != cfg.StartingSegments*3 {
		t.Errorf("len(Trail) = %d, want %d", len(snk.Trail), cfg.StartingSegments*3)
	}
	if snk.Trail[0] != (game.Point{X: snk.X, Y: snk.Y}) {
		t.Error("Trail[0] should be the spawn head position")
	}
}

func TestRespawnSweep_OnlyRespawnsDueSnakes(t *testing.T) {
	cfg := baseConfig()
	cfg.RespawnOnDeath = true
	state := game.NewGameState(cfg.ArenaRadius)
	state.Tick = 100
	state.Snakes["due"] = &game.Snake{ID: "due", Name: "due", Alive: false, RespawnAt: 100}
	state.Snakes["notYet"] = &game.Snake{ID: "notYet", Name: "notYet", Alive: false, RespawnAt: 200}
	state.Snakes["alive"] = &game.Snake{ID: "alive", Name: "alive", Alive: true}

	names := RespawnSweep(state, cfg, nil, 0)

	if len(names) != 1 || names[0] != "due" {
		t.Errorf("RespawnSweep() = %v, want [\"due\"]", names)
	}
	if !state.Snakes["due"].Alive {
		t.Error("due snake should now be alive")
	}
	if state.Snakes["notYet"].Alive {
		t.Error("snake whose RespawnAt has not arrived should stay dead")
	}
	if len(state.Segments("due")) == 0 {
		t.Error("RespawnSweep should populate the segment cache immediately so this tick's AI fan-out sees the new body")
	}
}

func TestRespawnSweep_NoOpWhenRespawnDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.RespawnOnDeath = false
	state := game.NewGameState(cfg.ArenaRadius)
	state.Snakes["a"] = &game.Snake{ID: "a", Alive: false, RespawnAt: 1}

	if names := RespawnSweep(state, cfg, nil, 0); names != nil {
		t.Errorf("expected no respawns in tournament mode, got %v", names)
	}
}
