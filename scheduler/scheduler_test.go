package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/sandbox"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(t *testing.T) (*Scheduler, context.CancelFunc) {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.TickRate = 10 * time.Millisecond
	cfg.ArenaRadius = 500
	cfg.MinFood = 2
	cfg.MaxFood = 10

	sch := New(Options{
		Config: cfg,
		Pool:   sandbox.NewPool(2),
		Log:    testLogger(),
		Seed:   1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go sch.Run(ctx)
	t.Cleanup(cancel)
	return sch, cancel
}

func TestScheduler_RegisterNewSnake(t *testing.T) {
	sch, _ := newTestScheduler(t)

	res := sch.Register("alice", `function move(state) { return 0; }`)
	if res.SnakeID == "" {
		t.Fatal("expected a generated snake id")
	}
	if res.Message != "registered" {
		t.Errorf("Message = %q, want %q", res.Message, "registered")
	}

	state := sch.GetState()
	snk, ok := state.Snakes[res.SnakeID]
	if !ok {
		t.Fatal("registered snake should be present in state")
	}
	if !snk.Alive {
		t.Error("a freshly registered snake should be respawned alive")
	}
	if len(state.Segments(res.SnakeID)) == 0 {
		t.Error("registration should populate the segment cache immediately, not wait for the next tick's RebuildSegments")
	}
}

func TestScheduler_RegisterExistingNameUpdatesAndRespawns(t *testing.T) {
	sch, _ := newTestScheduler(t)

	first := sch.Register("alice", `function move(state) { return 0; }`)
	second := sch.Register("alice", `function move(state) { return 1; }`)

	if second.SnakeID != first.SnakeID {
		t.Error("re-registering an existing name should reuse the same snake id")
	}
	if second.Message != "updated" {
		t.Errorf("Message = %q, want %q", second.Message, "updated")
	}

	state := sch.GetState()
	if len(state.Snakes[first.SnakeID].Submissions) != 2 {
		t.Error("re-registration should append a second submission record")
	}
}

func TestScheduler_SubmitUnknownIDReturnsNotFound(t *testing.T) {
	sch, _ := newTestScheduler(t)

	if err := sch.Submit("ghost", "function move(state){}"); err == nil {
		t.Error("expected an error for an unknown snake id")
	}
}

func TestScheduler_RemoveDeletesSnake(t *testing.T) {
	sch, _ := newTestScheduler(t)
	res := sch.Register("alice", `function move(state) { return 0; }`)

	if err := sch.Remove(res.SnakeID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	state := sch.GetState()
	if _, ok := state.Snakes[res.SnakeID]; ok {
		t.Error("removed snake should no longer be present in state")
	}
}

func TestScheduler_StartPauseTransitions(t *testing.T) {
	sch, _ := newTestScheduler(t)

	sch.Start()
	waitForStatus(t, sch, game.StatusRunning)

	sch.Pause()
	waitForStatus(t, sch, game.StatusPaused)
}

func TestScheduler_ResetKeepsRegistrationsClearsFood(t *testing.T) {
	sch, _ := newTestScheduler(t)
	res := sch.Register("alice", `function move(state) { return 0; }`)
	sch.Start()
	waitForStatus(t, sch, game.StatusRunning)
	time.Sleep(50 * time.Millisecond) // let a few ticks run and top up food

	sch.Reset()
	waitForStatus(t, sch, game.StatusWaiting)

	state := sch.GetState()
	if _, ok := state.Snakes[res.SnakeID]; !ok {
		t.Error("Reset must keep existing registrations")
	}
	if len(state.Food) != 0 {
		t.Error("Reset must clear all food")
	}
	if state.Tick != 0 {
		t.Error("Reset must zero the tick counter")
	}
}

func TestScheduler_UpdateConfigClampsOutOfRangeValues(t *testing.T) {
	sch, _ := newTestScheduler(t)

	got := sch.UpdateConfig(func(c *game.Config) {
		c.TickRate = 1 * time.Millisecond
	})
	if got.TickRate < 20*time.Millisecond {
		t.Errorf("TickRate = %v, want clamped to at least 20ms", got.TickRate)
	}
}

func TestScheduler_GetStatsReflectsRegisteredSnakes(t *testing.T) {
	sch, _ := newTestScheduler(t)
	sch.Register("alice", `function move(state) { return 0; }`)

	stats := sch.GetStats()
	if stats.SnakeCount != 1 {
		t.Errorf("SnakeCount = %d, want 1", stats.SnakeCount)
	}
	if stats.AliveCount != 1 {
		t.Errorf("AliveCount = %d, want 1", stats.AliveCount)
	}
}

func waitForStatus(t *testing.T, sch *Scheduler, want game.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sch.GetState().Status == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("scheduler never reached status %v", want)
}
