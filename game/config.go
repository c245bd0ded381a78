package game

import "time"

// Config holds the tunable arena parameters of spec §6
// ("Configuration defaults"). A zero Config is never used directly;
// callers start from DefaultConfig and override fields.
type Config struct {
	ArenaRadius float64
	TickRate    time.Duration

	SnakeSpeed  float64
	SnakeRadius float64

	SegmentSpacing   float64
	SegmentSlack     float64
	StartingSegments int

	MaxTurnRate float64

	FoodRadius float64
	MinFood    int
	MaxFood    int

	RespawnOnDeath bool
	RespawnDelay   time.Duration

	AITimeout time.Duration

	Colors []string
}

// DefaultConfig returns the spec §6 defaults.
func DefaultConfig() Config {
	return Config{
		ArenaRadius:      2000,
		TickRate:         50 * time.Millisecond,
		SnakeSpeed:       4,
		SnakeRadius:      12,
		SegmentSpacing:   20,
		SegmentSlack:     2,
		StartingSegments: 10,
		MaxTurnRate:      0.25,
		FoodRadius:       6,
		MinFood:          200,
		MaxFood:          600,
		RespawnOnDeath:   true,
		RespawnDelay:     3000 * time.Millisecond,
		AITimeout:        50 * time.Millisecond,
		Colors: []string{
			"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
			"#f58231", "#911eb4", "#46f0f0", "#f032e6",
			"#bcf60c", "#fabebe", "#008080", "#e6beff",
		},
	}
}

// EatRadius is the disk radius within which a head claims a food tile.
func (c Config) EatRadius() float64 {
	return c.SnakeRadius + c.FoodRadius
}

// RespawnDelayTicks converts the configured wall-clock respawn delay
// into a tick count at the current tick rate (spec §4.3 step 10:
// "tick + ceil(respawnDelayMs / tickRateMs)").
func (c Config) RespawnDelayTicks() int64 {
	if c.TickRate <= 0 {
		return 0
	}
	ticks := c.RespawnDelay.Milliseconds() / c.TickRate.Milliseconds()
	if c.RespawnDelay.Milliseconds()%c.TickRate.Milliseconds() != 0 {
		ticks++
	}
	return ticks
}

// Clamp applies the valid ranges from spec §6's admin/config table to
// every field a partial update may touch.
func (c *Config) Clamp() {
	c.TickRate = clampDuration(c.TickRate, 20*time.Millisecond, 1000*time.Millisecond)
	c.ArenaRadius = clampFloat(c.ArenaRadius, 500, 10000)
	c.RespawnDelay = clampDuration(c.RespawnDelay, 0, 30000*time.Millisecond)
	c.SnakeSpeed = clampFloat(c.SnakeSpeed, 1, 20)
	c.MaxTurnRate = clampFloat(c.MaxTurnRate, 0.01, 0.5)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
