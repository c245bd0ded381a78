// Package broadcast reduces the authoritative game state into a
// bandwidth-cheap spectator payload and fans it out over a websocket
// hub.
package broadcast

import (
	"math"
	"sort"

	"github.com/brensch/snekarena/game"
)

const segmentStride = 3

// Point is a rounded {x,y} pair on the wire.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snake is the reduced per-snake view of a tick snapshot.
type Snake struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Color           string  `json:"color"`
	Alive           bool    `json:"alive"`
	Head            Point   `json:"head"`
	Angle           float64 `json:"angle"`
	Speed           float64 `json:"speed"`
	Segments        []Point `json:"segments"`
	Length          int     `json:"length"`
	BestLength      int     `json:"bestLength"`
	Kills           int     `json:"kills"`
	TotalKills      int     `json:"totalKills"`
	Deaths          int     `json:"deaths"`
	DeathReason     string  `json:"deathReason"`
	LastAIError     string  `json:"lastAIError"`
	SubmissionCount int     `json:"submissionCount"`
	LastLineCount   int     `json:"lastLineCount"`
}

// Food is the reduced per-food-tile view.
type Food struct {
	Point
	Value int `json:"value"`
}

// Snapshot is exactly the payload of a `game:tick` event (spec §4.5).
type Snapshot struct {
	Tick           int64   `json:"tick"`
	Status         string  `json:"status"`
	ArenaRadius    float64 `json:"arenaRadius"`
	SpectatorCount int     `json:"spectatorCount"`
	Snakes         []Snake `json:"snakes"`
	Food           []Food  `json:"food"`
}

// Build reduces a GameState into a wire snapshot, reusing the segment
// cache the scheduler populated this tick (spec §9 "Snapshot
// coupling") — it never recomputes SegmentPositions itself.
func Build(state *game.GameState) Snapshot {
	snap := Snapshot{
		Tick:           state.Tick,
		Status:         string(state.Status),
		ArenaRadius:    state.ArenaRadius,
		SpectatorCount: state.SpectatorCount,
	}

	ids := make([]string, 0, len(state.Snakes))
	for id := range state.Snakes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap.Snakes = make([]Snake, 0, len(ids))
	for _, id := range ids {
		snk := state.Snakes[id]
		lastLines := 0
		if n := len(snk.Submissions); n > 0 {
			lastLines = snk.Submissions[n-1].LineCount
		}
		snap.Snakes = append(snap.Snakes, Snake{
			ID:              snk.ID,
			Name:            snk.Name,
			Color:           snk.Color,
			Alive:           snk.Alive,
			Head:            round1(game.Point{X: snk.X, Y: snk.Y}),
			Angle:           round(snk.Angle, 100),
			Speed:           snk.Speed,
			Segments:        strideSegments(state.Segments(id)),
			Length:          snk.Length(),
			BestLength:      snk.BestLength,
			Kills:           snk.Kills,
			TotalKills:      snk.TotalKills,
			Deaths:          snk.Deaths,
			DeathReason:     snk.DeathReason,
			LastAIError:     snk.LastAIError,
			SubmissionCount: len(snk.Submissions),
			LastLineCount:   lastLines,
		})
	}

	snap.Food = make([]Food, 0, len(state.Food))
	for _, f := range state.Food {
		snap.Food = append(snap.Food, Food{
			Point: round1(game.Point{X: f.X, Y: f.Y}),
			Value: f.Value,
		})
	}

	return snap
}

// strideSegments samples every third segment plus the first and last,
// per spec §4.5.
func strideSegments(segs []game.Point) []Point {
	if len(segs) == 0 {
		return nil
	}
	out := make([]Point, 0, len(segs)/segmentStride+2)
	for i := 0; i < len(segs); i += segmentStride {
		out = append(out, round1(segs[i]))
	}
	last := round1(segs[len(segs)-1])
	if len(out) == 0 || out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

func round1(p game.Point) Point {
	return Point{X: round(p.X, 10), Y: round(p.Y, 10)}
}

func round(v float64, precision float64) float64 {
	return math.Round(v*precision) / precision
}
