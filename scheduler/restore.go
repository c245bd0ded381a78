package scheduler

import (
	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/persist"
	"github.com/brensch/snekarena/rules"
)

// RestoreFrom rebuilds the scheduler's initial state from a persisted
// blob (spec §4.6 "Restore"): for each snake, construct a fresh
// runtime snake and respawn it via §4.4, load food verbatim, then
// top up. Must be called before Run starts — it mutates s.state
// directly without going through the command queue.
func (s *Scheduler) RestoreFrom(blob *persist.Blob) {
	if blob == nil {
		return
	}

	s.state.Tick = blob.Tick
	s.state.Status = game.StatusWaiting

	for _, sb := range blob.Snakes {
		snk := &game.Snake{
			ID:          sb.ID,
			Name:        sb.Name,
			Color:       sb.Color,
			Program:     sb.AIFunction,
			Submissions: append([]game.Submission(nil), sb.Submissions...),
			TotalKills:  sb.TotalKills,
			Deaths:      sb.Deaths,
			BestLength:  sb.BestLength,
		}
		segs := rules.Respawn(snk, s.cfg, s.rng, 0, s.state.Tick)
		s.state.Snakes[snk.ID] = snk
		s.state.SetSegments(snk.ID, segs)
	}

	s.state.Food = make([]*game.Food, 0, len(blob.Food))
	for _, fb := range blob.Food {
		s.state.Food = append(s.state.Food, &game.Food{X: fb.X, Y: fb.Y, Value: fb.Value, Radius: fb.Radius})
	}

	rules.TopUpFood(s.state, s.cfg, s.rng, 0)
}
