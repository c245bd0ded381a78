package rules

import "github.com/brensch/snekarena/game"

// DeathInfo records why a snake died this tick and, for a kill, who to
// credit (spec §4.3 step 9).
type DeathInfo struct {
	Reason string
	Killer string // empty for boundary and head-on deaths
}

// ResolveCollisions runs the three collision passes of spec §4.3 step 9
// in their contractual order — boundary, head-vs-other-body,
// head-vs-head — against the segment cache RebuildSegments produced
// this tick. There is deliberately no self-collision pass.
func ResolveCollisions(state *game.GameState, cfg game.Config) map[string]DeathInfo {
	deaths := make(map[string]DeathInfo)
	aliveIDs := state.AliveSnakeIDs()

	// 1. Boundary.
	for _, id := range aliveIDs {
		snk := state.Snakes[id]
		if !game.IsInBounds(snk.X, snk.Y, cfg.ArenaRadius) {
			deaths[id] = DeathInfo{Reason: "boundary"}
		}
	}

	threshold := (2 * cfg.SnakeRadius) * (2 * cfg.SnakeRadius)

	// 2. Head-vs-other-body, skipping the opponent's own head segment.
	for _, aID := range aliveIDs {
		if _, dead := deaths[aID]; dead {
			continue
		}
		a := state.Snakes[aID]
		head := game.Point{X: a.X, Y: a.Y}

		for _, bID := range aliveIDs {
			if bID == aID {
				continue
			}
			segs := state.Segments(bID)
			for i := 1; i < len(segs); i++ {
				if game.DistSq(head, segs[i]) < threshold {
					deaths[aID] = DeathInfo{
						Reason: "snake:" + state.Snakes[bID].Name,
						Killer: bID,
					}
					break
				}
			}
			if _, dead := deaths[aID]; dead {
				break
			}
		}
	}

	// 3. Head-vs-head: symmetric, no kill credit, skip anything already
	// dead this tick from the earlier passes.
	for i := 0; i < len(aliveIDs); i++ {
		aID := aliveIDs[i]
		if _, dead := deaths[aID]; dead {
			continue
		}
		a := state.Snakes[aID]
		for j := i + 1; j < len(aliveIDs); j++ {
			bID := aliveIDs[j]
			if _, dead := deaths[bID]; dead {
				continue
			}
			b := state.Snakes[bID]
			if game.DistSq(game.Point{X: a.X, Y: a.Y}, game.Point{X: b.X, Y: b.Y}) < threshold {
				deaths[aID] = DeathInfo{Reason: "headon:" + b.Name}
				deaths[bID] = DeathInfo{Reason: "headon:" + a.Name}
			}
		}
	}

	return deaths
}
