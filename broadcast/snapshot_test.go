package broadcast

import (
	"testing"

	"github.com/brensch/snekarena/game"
)

func TestBuild_RoundsHeadAndAngle(t *testing.T) {
	state := game.NewGameState(1000)
	state.Snakes["a"] = &game.Snake{
		ID: "a", Name: "alice", Alive: true,
		X: 1.23456, Y: 7.891, Angle: 0.123456,
	}

	snap := Build(state)

	if len(snap.Snakes) != 1 {
		t.Fatalf("len(Snakes) = %d, want 1", len(snap.Snakes))
	}
	s := snap.Snakes[0]
	if s.Head.X != 1.2 || s.Head.Y != 7.9 {
		t.Errorf("Head = %+v, want rounded to 0.1 precision", s.Head)
	}
	if s.Angle != 0.12 {
		t.Errorf("Angle = %v, want rounded to 0.01 precision", s.Angle)
	}
}

func TestBuild_SortsSnakesByID(t *testing.T) {
	state := game.NewGameState(1000)
	state.Snakes["zeta"] = &game.Snake{ID: "zeta", Name: "zeta"}
	state.Snakes["alpha"] = &game.Snake{ID: "alpha", Name: "alpha"}

	snap := Build(state)

	if len(snap.Snakes) != 2 || snap.Snakes[0].ID != "alpha" || snap.Snakes[1].ID != "zeta" {
		t.Errorf("snakes not sorted: %+v", snap.Snakes)
	}
}

func TestBuild_ReusesSegmentCacheWithoutRecomputing(t *testing.T) {
	state := game.NewGameState(1000)
	state.Snakes["a"] = &game.Snake{ID: "a", Name: "a", SegmentCount: 999}
	// Deliberately leave Trail empty; Build must use whatever is in the
	// segment cache, not recompute from Trail/SegmentCount.
	state.SetSegments("a", []game.Point{{X: 1, Y: 1}, {X: 2, Y: 2}})

	snap := Build(state)

	if len(snap.Snakes[0].Segments) == 0 {
		t.Fatal("expected the cached segments to surface in the snapshot")
	}
}

func TestStrideSegments_IncludesFirstAndLast(t *testing.T) {
	segs := make([]game.Point, 10)
	for i := range segs {
		segs[i] = game.Point{X: float64(i), Y: 0}
	}

	out := strideSegments(segs)

	if out[0] != round1(segs[0]) {
		t.Error("stride should always include the first segment")
	}
	if out[len(out)-1] != round1(segs[len(segs)-1]) {
		t.Error("stride should always include the last segment")
	}
}

func TestStrideSegments_Empty(t *testing.T) {
	if out := strideSegments(nil); out != nil {
		t.Errorf("expected nil for no segments, got %v", out)
	}
}

func TestBuild_LastLineCountFromMostRecentSubmission(t *testing.T) {
	state := game.NewGameState(1000)
	state.Snakes["a"] = &game.Snake{
		ID: "a", Name: "a",
		Submissions: []game.Submission{{LineCount: 5}, {LineCount: 12}},
	}

	snap := Build(state)

	if snap.Snakes[0].LastLineCount != 12 {
		t.Errorf("LastLineCount = %d, want 12 (most recent submission)", snap.Snakes[0].LastLineCount)
	}
	if snap.Snakes[0].SubmissionCount != 2 {
		t.Errorf("SubmissionCount = %d, want 2", snap.Snakes[0].SubmissionCount)
	}
}

func TestRound(t *testing.T) {
	if got := round(1.2345, 100); got != 1.23 {
		t.Errorf("round(1.2345, 100) = %v, want 1.23", got)
	}
	if got := round(1.236, 100); got != 1.24 {
		t.Errorf("round(1.236, 100) = %v, want 1.24", got)
	}
}
