package game

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{twoPi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := NormalizeAngle(c.in)
		if !almostEqual(got, c.want) {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	if d := AngleDiff(0, math.Pi/2); !almostEqual(d, math.Pi/2) {
		t.Errorf("AngleDiff(0, pi/2) = %v, want pi/2", d)
	}
	if d := AngleDiff(math.Pi/2, 0); !almostEqual(d, -math.Pi/2) {
		t.Errorf("AngleDiff(pi/2, 0) = %v, want -pi/2", d)
	}
	// Wraps the short way around the circle.
	if d := AngleDiff(0.1, twoPi-0.1); d > 0 {
		t.Errorf("AngleDiff should take the short arc, got %v", d)
	}
}

func TestTurnToward_ClampsToMaxRate(t *testing.T) {
	got := TurnToward(0, math.Pi, 0.1)
	want := NormalizeAngle(0.1)
	if !almostEqual(got, want) {
		t.Errorf("TurnToward clamped = %v, want %v", got, want)
	}
}

func TestTurnToward_ReachesTargetWithinRate(t *testing.T) {
	got := TurnToward(0, 0.05, 0.1)
	if !almostEqual(got, 0.05) {
		t.Errorf("TurnToward should snap to target, got %v", got)
	}
}

func TestIsInBounds(t *testing.T) {
	if !IsInBounds(0, 0, 100) {
		t.Error("origin should be in bounds")
	}
	if IsInBounds(101, 0, 100) {
		t.Error("point beyond radius should be out of bounds")
	}
	if IsInBounds(100, 0, 100) {
		t.Error("point exactly on the boundary should be out of bounds")
	}
}

func TestSegmentPositions_SamplesAtSpacing(t *testing.T) {
	trail := []Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 20}, {X: 0, Y: 30}}
	segs := SegmentPositions(trail, 3, 10)
	if len(segs) != 3 {
		t.Fatalf("len(segs) = %d, want 3", len(segs))
	}
	want := []Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 20}}
	for i, p := range want {
		if !almostEqual(segs[i].X, p.X) || !almostEqual(segs[i].Y, p.Y) {
			t.Errorf("segs[%d] = %v, want %v", i, segs[i], p)
		}
	}
}

func TestSegmentPositions_EmptyTrail(t *testing.T) {
	if segs := SegmentPositions(nil, 5, 10); segs != nil {
		t.Errorf("expected nil for empty trail, got %v", segs)
	}
}

func TestPruneTrail_CutsAtArcLength(t *testing.T) {
	trail := []Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 0, Y: 20}, {X: 0, Y: 30}}
	pruned := PruneTrail(trail, 15)
	if len(pruned) != 3 {
		t.Fatalf("len(pruned) = %d, want 3 (cumulative arc exceeds 15 at index 2)", len(pruned))
	}
}

func TestSpawnPosition_StaysWithinAnnulus(t *testing.T) {
	const radius = 1000.0
	for tick := int64(0); tick < 50; tick++ {
		pos, heading := SpawnPosition(radius, nil, 42, tick)
		d := math.Hypot(pos.X, pos.Y)
		if d < 0.5*radius-1e-6 || d > 0.8*radius+1e-6 {
			t.Fatalf("tick %d: spawn distance %v outside [0.5R, 0.8R]", tick, d)
		}
		if heading < 0 || heading >= twoPi {
			t.Fatalf("tick %d: heading %v not normalized", tick, heading)
		}
	}
}

func TestSpawnPosition_Deterministic(t *testing.T) {
	p1, h1 := SpawnPosition(500, nil, 7, 3)
	p2, h2 := SpawnPosition(500, nil, 7, 3)
	if p1 != p2 || h1 != h2 {
		t.Error("SpawnPosition with nil Sampler must be deterministic for the same salt/tick")
	}
}

func TestSpawnFood_StaysInsideArena(t *testing.T) {
	const radius = 500.0
	for tick := int64(0); tick < 50; tick++ {
		p := SpawnFood(radius, nil, 99, tick)
		if math.Hypot(p.X, p.Y) > radius {
			t.Fatalf("tick %d: food spawned outside arena radius", tick)
		}
	}
}
