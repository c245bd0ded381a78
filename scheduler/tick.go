package scheduler

import (
	"context"
	"time"

	"github.com/brensch/snekarena/archive"
	"github.com/brensch/snekarena/broadcast"
	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/rules"
	"github.com/brensch/snekarena/sandbox"
)

// runTick executes one full pass of spec §4.3's 14-step pipeline. It
// is only ever called from the Run loop's own goroutine, so it may
// mutate s.state freely without locking.
func (s *Scheduler) runTick() {
	if !s.tickRunning.CompareAndSwap(false, true) {
		return
	}
	start := time.Now()
	defer func() {
		s.lastTickDur.Store(int64(time.Since(start)))
		s.tickRunning.Store(false)
	}()

	state := s.state

	// 1. Increment tick.
	state.Tick++

	// 2. Respawn sweep.
	respawned := rules.RespawnSweep(state, s.cfg, s.rng, 0)
	for _, name := range respawned {
		s.emitEvent("snake:respawned", map[string]string{"name": name})
	}

	// 3. Nothing alive: broadcast and wait for the next tick.
	aliveIDs := state.AliveSnakeIDs()
	if len(aliveIDs) == 0 {
		s.publishSnapshot()
		return
	}

	// 4. AI fan-out.
	decisions := s.dispatchAI(aliveIDs)

	// 5. Turn.
	rules.Turn(state, s.cfg, decisions)

	// 6. Move.
	rules.Move(state, s.cfg)

	// 7. Rebuild visible segments — the one cache collision and
	// broadcast both reuse this tick.
	rules.RebuildSegments(state, s.cfg)

	// 8. Food eating.
	rules.ResolveEating(state, s.cfg)

	// 9. Collisions.
	deaths := rules.ResolveCollisions(state, s.cfg)

	// 10. Death processing.
	events := rules.ProcessDeaths(state, s.cfg, deaths, s.rng, 0)
	for _, ev := range events {
		s.onDeath(ev)
	}
	if len(events) > 0 {
		s.notifyDirty()
	}

	// 11. Kill credit.
	rules.ApplyKillCredit(state, deaths)

	// 12. Food top-up.
	rules.TopUpFood(state, s.cfg, s.rng, 0)

	// 13. Win check (tournament mode only). Tournament mode is not a
	// separate flag: it is the complement of RespawnOnDeath, read fresh
	// each tick so a live admin/config update takes effect immediately.
	if !s.cfg.RespawnOnDeath {
		if finished, winnerID := rules.CheckWin(state); finished {
			s.finishGame(winnerID)
		}
	}

	// 14. Broadcast.
	s.publishSnapshot()
}

// dispatchAI builds each alive snake's input from the pre-move state
// and fans the calls out across the AI pool, bounded by the tick's own
// rate as its budget (spec §4.2 "Dispatch policy").
func (s *Scheduler) dispatchAI(aliveIDs []string) map[string]rules.Decision {
	if s.pool == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TickRate)
	defer cancel()

	snapshot := s.state.Clone()

	reqs := make([]sandbox.Request, 0, len(aliveIDs))
	for _, id := range aliveIDs {
		snk := snapshot.Snakes[id]
		reqs = append(reqs, sandbox.Request{
			SnakeID: id,
			Source:  snk.Program,
			Input:   sandbox.BuildInput(snapshot, id),
		})
	}

	return s.pool.RunAll(ctx, s.cfg.AITimeout, reqs)
}

// onDeath records ledger/archive side effects and forwards the
// `snake:died` event.
func (s *Scheduler) onDeath(ev rules.DeathEvent) {
	s.emitEvent("snake:died", map[string]string{"name": ev.Name, "reason": ev.Reason})

	snk, ok := s.state.Snakes[ev.SnakeID]
	if !ok {
		return
	}

	// SPEC_FULL.md §4.6.2: the hall-of-fame ledger is updated on death
	// as well as on removal, so a snake's lifetime stats show up even
	// if it is never explicitly removed.
	s.recordToLedger(snk)

	if s.archive == nil {
		return
	}
	birth := int64(0)
	if len(snk.Submissions) > 0 {
		birth = snk.Submissions[len(snk.Submissions)-1].Tick
	}
	s.archive.AppendLife(archive.LifeRow{
		SnakeID:   snk.ID,
		Name:      snk.Name,
		Color:     snk.Color,
		BirthTick: birth,
		DeathTick: s.state.Tick,
		Reason:    ev.Reason,
		Kills:     int32(snk.Kills),
		Length:    int32(snk.BestLength),
	})
}

// finishGame stops scheduling and emits game:finished (spec §4.3 step
// 13, tournament mode).
func (s *Scheduler) finishGame(winnerID string) {
	s.state.Status = game.StatusFinished
	s.state.WinnerID = winnerID

	winnerName := ""
	if snk, ok := s.state.Snakes[winnerID]; ok {
		winnerName = snk.Name
	}
	s.emitEvent("game:finished", map[string]string{"winnerId": winnerID, "winnerName": winnerName})

	if s.archive != nil {
		startTick := int64(0)
		s.archive.AppendGame(archive.GameRow{
			WinnerID:   winnerID,
			WinnerName: winnerName,
			StartTick:  startTick,
			EndTick:    s.state.Tick,
			SnakeCount: int32(len(s.state.Snakes)),
		})
	}
}

func (s *Scheduler) publishSnapshot() {
	s.state.SpectatorCount = s.spectatorCount()
	if s.hub == nil {
		return
	}
	s.hub.Publish(broadcast.Build(s.state))
}

func (s *Scheduler) spectatorCount() int {
	if s.hub == nil {
		return s.state.SpectatorCount
	}
	return s.hub.SpectatorCount()
}
