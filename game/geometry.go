package game

import "math"

const twoPi = 2 * math.Pi

// NormalizeAngle returns the representative of a in [0, 2π) (spec §4.1).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

// AngleDiff returns the signed shortest-arc difference from `from` to
// `to`, in (-π, π] (spec §4.1).
func AngleDiff(from, to float64) float64 {
	d := math.Mod(to-from, twoPi)
	if d > math.Pi {
		d -= twoPi
	} else if d <= -math.Pi {
		d += twoPi
	}
	return d
}

// TurnToward is the turn governor: it rate-limits an arbitrary
// participant-requested target angle by maxRate per tick (spec §4.1).
func TurnToward(current, target, maxRate float64) float64 {
	diff := AngleDiff(current, target)
	if math.Abs(diff) <= maxRate {
		return NormalizeAngle(target)
	}
	if diff > 0 {
		return NormalizeAngle(current + maxRate)
	}
	return NormalizeAngle(current - maxRate)
}

// IsInBounds reports whether (x, y) lies within the circular arena of
// the given radius, centered at the origin (spec §4.1).
func IsInBounds(x, y, arenaRadius float64) bool {
	return x*x+y*y < arenaRadius*arenaRadius
}

// SegmentPositions reconstructs up to segmentCount visible segment
// centers from a trail (newest-first head history), starting at
// trail[0] and sampling every `spacing` units of arc length along the
// polyline (spec §4.1). Used for both collision and broadcast so it
// must be called exactly once per tick per snake (spec §9).
func SegmentPositions(trail []Point, segmentCount int, spacing float64) []Point {
	if len(trail) == 0 || segmentCount <= 0 {
		return nil
	}

	out := make([]Point, 0, segmentCount)
	out = append(out, trail[0])
	if segmentCount == 1 || len(trail) == 1 {
		return out
	}

	// Walk the polyline accumulating arc length; emit a point every
	// `spacing` units, linearly interpolating between trail vertices.
	remaining := spacing
	for i := 0; i < len(trail)-1 && len(out) < segmentCount; i++ {
		a, b := trail[i], trail[i+1]
		segLen := Dist(a, b)
		for segLen >= remaining && len(out) < segmentCount {
			t := remaining / segLen
			p := lerp(a, b, t)
			out = append(out, p)
			// Continue walking from the newly emitted point toward b.
			a = p
			segLen = Dist(a, b)
			remaining = spacing
		}
		remaining -= segLen
	}

	return out
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// TrailArcLength sums the polyline length of a trail.
func TrailArcLength(trail []Point) float64 {
	total := 0.0
	for i := 0; i < len(trail)-1; i++ {
		total += Dist(trail[i], trail[i+1])
	}
	return total
}

// PruneTrail trims a trail after the first vertex at which the
// accumulated arc length from the head exceeds maxArcLength; that
// vertex is kept, so the result can run past the limit by up to one
// edge (spec §3: "pruned to (segmentCount+slack) ×
// segmentSpacing each tick").
func PruneTrail(trail []Point, maxArcLength float64) []Point {
	if len(trail) < 2 {
		return trail
	}
	acc := 0.0
	for i := 1; i < len(trail); i++ {
		acc += Dist(trail[i-1], trail[i])
		if acc > maxArcLength {
			return trail[:i+1]
		}
	}
	return trail
}

// Sampler is the minimal randomness source geometry sampling needs;
// satisfied by *math/rand.Rand. A nil Sampler selects the deterministic
// splitmix64 fallback (see deterministicU64), kept for reproducible
// tests the way the teacher's own game/food.go does for food spawning.
type Sampler interface {
	Float64() float64
}

// SpawnPosition samples a spawn point at a uniform angle and a radius
// drawn uniformly from [0.5R, 0.8R], heading toward the arena center
// with a uniform offset (spec §4.1).
func SpawnPosition(arenaRadius float64, rng Sampler, salt uint64, tick int64) (pos Point, heading float64) {
	u1 := sample(rng, salt, tick, 1)
	u2 := sample(rng, salt, tick, 2)
	u3 := sample(rng, salt, tick, 3)

	angle := u1 * twoPi
	radius := (0.5 + 0.3*u2) * arenaRadius

	x := radius * math.Cos(angle)
	y := radius * math.Sin(angle)

	toCenter := math.Atan2(-y, -x)
	perturb := (u3*2 - 1) * (math.Pi / 4)

	return Point{X: x, Y: y}, NormalizeAngle(toCenter + perturb)
}

// SpawnFood samples a food point uniformly over the arena disk (spec
// §4.1: radius = R·√u·0.95).
func SpawnFood(arenaRadius float64, rng Sampler, salt uint64, tick int64) Point {
	u1 := sample(rng, salt, tick, 4)
	u2 := sample(rng, salt, tick, 5)

	angle := u1 * twoPi
	radius := math.Sqrt(u2) * 0.95 * arenaRadius

	return Point{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}

func sample(rng Sampler, salt uint64, tick int64, stream uint64) float64 {
	if rng != nil {
		return rng.Float64()
	}
	v := deterministicU64(uint64(tick), salt^(stream*0x9E3779B97F4A7C15))
	// 53 bits of mantissa, scaled into [0, 1).
	return float64(v>>11) / (1 << 53)
}

// deterministicU64 is a splitmix64 variant used as a reproducible
// stand-in for true randomness in tests (grounded on the teacher's
// game/food.go deterministicU64Fast).
func deterministicU64(a, b uint64) uint64 {
	x := a + b
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
