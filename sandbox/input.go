package sandbox

import "github.com/brensch/snekarena/game"

// PointInput is a single {x,y} pair as exposed to participant programs.
type PointInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// YouInput is the ego perspective of the AI input contract (spec §6).
type YouInput struct {
	ID       string       `json:"id"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Angle    float64      `json:"angle"`
	Speed    float64      `json:"speed"`
	Segments []PointInput `json:"segments"`
	Length   int          `json:"length"`
}

// SnakeInput is one entry of the `snakes` array of the AI input contract.
type SnakeInput struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Angle    float64      `json:"angle"`
	Segments []PointInput `json:"segments"`
	Length   int          `json:"length"`
	Alive    bool         `json:"alive"`
}

// FoodInput is one entry of the `food` array of the AI input contract.
type FoodInput struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int     `json:"value"`
}

// ArenaInput is the `arena` field of the AI input contract.
type ArenaInput struct {
	Radius float64 `json:"radius"`
}

// Input is exactly the object handed to the untrusted `move(state)`
// function (spec §6 "AI input contract"). It is built fresh from a
// deep-copied GameState every tick; mutations the program makes to the
// object it's handed never reach the authoritative state because the
// state itself was already cloned before this function ran.
type Input struct {
	You    YouInput     `json:"you"`
	Arena  ArenaInput   `json:"arena"`
	Snakes []SnakeInput `json:"snakes"`
	Food   []FoodInput  `json:"food"`
	Tick   int64        `json:"tick"`
}

// BuildInput assembles the AI input contract for snake `id` from a
// (typically already cloned) GameState, using the segment cache as it
// stands: the scheduler calls this before the tick's RebuildSegments,
// so the segments are those cached on the previous tick (or by Respawn).
func BuildInput(state *game.GameState, id string) Input {
	you := state.Snakes[id]
	input := Input{
		Arena: ArenaInput{Radius: state.ArenaRadius},
		Tick:  state.Tick,
	}

	if you != nil {
		input.You = YouInput{
			ID:       you.ID,
			X:        you.X,
			Y:        you.Y,
			Angle:    you.Angle,
			Speed:    you.Speed,
			Segments: toPoints(state.Segments(id)),
			Length:   you.Length(),
		}
	}

	// Every registered snake appears here, alive or dead — the `alive`
	// field is how a program tells the two apart (spec §6 "AI input
	// contract"); a dead snake's segments/position are simply whatever
	// they were at time of death (its trail is cleared, but the segment
	// cache keeps the segments built on the tick it died).
	ids := state.AllSnakeIDsSorted()
	input.Snakes = make([]SnakeInput, 0, len(state.Snakes))
	for _, sid := range ids {
		s := state.Snakes[sid]
		input.Snakes = append(input.Snakes, SnakeInput{
			ID:       s.ID,
			Name:     s.Name,
			X:        s.X,
			Y:        s.Y,
			Angle:    s.Angle,
			Segments: toPoints(state.Segments(sid)),
			Length:   s.Length(),
			Alive:    s.Alive,
		})
	}

	input.Food = make([]FoodInput, 0, len(state.Food))
	for _, f := range state.Food {
		input.Food = append(input.Food, FoodInput{X: f.X, Y: f.Y, Value: f.Value})
	}

	return input
}

func toPoints(pts []game.Point) []PointInput {
	out := make([]PointInput, len(pts))
	for i, p := range pts {
		out[i] = PointInput{X: p.X, Y: p.Y}
	}
	return out
}
