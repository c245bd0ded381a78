// Package scheduler drives the arena forward: the single-writer tick
// loop (spec §4.3) that owns the authoritative GameState, applies
// commands queued between ticks, fans steering requests out to the AI
// pool, and publishes a reduced snapshot to spectators.
package scheduler

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/brensch/snekarena/archive"
	"github.com/brensch/snekarena/broadcast"
	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/ledger"
	"github.com/brensch/snekarena/persist"
	"github.com/brensch/snekarena/sandbox"
)

// Scheduler owns the authoritative GameState and is its only mutator.
// Every external mutation — the HTTP handlers and the restore on
// startup — goes through the command channel and is applied by the same
// goroutine that runs ticks, so GameState itself never needs its own
// lock (spec §3 "Ownership").
//
// Grounded on executor/selfplay/worker.go's ctx-aware main loop and
// executor/main.go's channel-driven update reporting, generalized from
// "one self-play loop per worker, reported to a TUI" to "one scheduler
// loop per arena, reported to both broadcast and the TUI".
type Scheduler struct {
	state *game.GameState
	cfg   game.Config
	rng   *rand.Rand

	pool    *sandbox.Pool
	hub     *broadcast.Hub
	store   *persist.Store
	archive *archive.Writer
	ledger  *ledger.Ledger
	log     *slog.Logger

	commands chan cmdFunc

	tickRunning atomic.Bool
	lastTickDur atomic.Int64 // nanoseconds
}

// Options bundles the collaborators a Scheduler needs. All are
// optional (a nil Log falls back to slog.Default()); a nil collaborator simply disables its corresponding
// feature (no hub means no broadcast, etc.) so the scheduler can be
// exercised in tests without standing up the full stack.
// Tournament mode is not an independent switch (spec.md "Respawn-on-
// death=false → tournament"): it is derived each tick from
// !Config.RespawnOnDeath, so a live admin/config update that flips
// RespawnOnDeath takes the win-check with it.
type Options struct {
	Config  game.Config
	Pool    *sandbox.Pool
	Hub     *broadcast.Hub
	Store   *persist.Store
	Archive *archive.Writer
	Ledger  *ledger.Ledger
	Log     *slog.Logger
	Seed    int64
}

// New builds a fresh, empty, waiting Scheduler.
func New(opts Options) *Scheduler {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scheduler{
		state:      game.NewGameState(opts.Config.ArenaRadius),
		cfg:        opts.Config,
		rng:        rand.New(rand.NewSource(seed)),
		pool:       opts.Pool,
		hub:        opts.Hub,
		store:      opts.Store,
		archive:    opts.Archive,
		ledger:     opts.Ledger,
		log:        opts.Log,
		commands:   make(chan cmdFunc, 64),
	}
}

// Run drives the tick loop until ctx is cancelled. Commands enqueued
// via the public API methods are drained between ticks (spec §4.3
// "Command application"); the select's natural single-goroutine
// sequencing plus the tickRunning flag make tick overlap structurally
// impossible, matching spec §4.3's re-entry guard requirement.
//
// The next tick is scheduled relative to when this one *should* have
// started, not relative to when it finished: if a tick's own work
// (including AI fan-out) overruns TickRate, the next tick fires
// immediately on completion rather than waiting out a fresh full
// interval on top of the overrun (spec §4.3 "Scheduling model").
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(s.cfg.TickRate)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			cmd(s)
		case <-timer.C:
			delay := s.cfg.TickRate
			if s.state.Status == game.StatusRunning {
				s.runTick()
				if overrun := time.Duration(s.lastTickDur.Load()); overrun > delay {
					delay = 0
				} else {
					delay -= overrun
				}
			}
			timer.Reset(delay)
		}
	}
}

// enqueue submits a command to be applied on the scheduler goroutine
// and blocks until the caller's closure signals completion via
// whatever channel it captured.
func (s *Scheduler) enqueue(cmd cmdFunc) {
	s.commands <- cmd
}

type cmdFunc func(*Scheduler)

// Stats is a point-in-time snapshot of scheduler health, returned by
// GetStats.
type Stats struct {
	Tick        int64
	Status      game.Status
	AliveCount  int
	SnakeCount  int
	FoodCount   int
	LastTickDur time.Duration
	Pool        sandbox.Stats
}

// GetStats returns a snapshot of scheduler/pool health. Tick, Status,
// AliveCount, SnakeCount and FoodCount are read via the same command
// queue GetState uses, since they come from GameState; LastTickDur and
// Pool are plain atomics and are read directly.
func (s *Scheduler) GetStats() Stats {
	var poolStats sandbox.Stats
	if s.pool != nil {
		poolStats = s.pool.Stats()
	}

	resp := make(chan Stats, 1)
	s.enqueue(func(sch *Scheduler) {
		alive := 0
		for _, snk := range sch.state.Snakes {
			if snk.Alive {
				alive++
			}
		}
		resp <- Stats{
			Tick:       sch.state.Tick,
			Status:     sch.state.Status,
			AliveCount: alive,
			SnakeCount: len(sch.state.Snakes),
			FoodCount:  len(sch.state.Food),
		}
	})
	stats := <-resp
	stats.LastTickDur = time.Duration(s.lastTickDur.Load())
	stats.Pool = poolStats
	return stats
}

// AttachStore wires a persistence store into the scheduler after
// construction — useful when the store's own getState callback needs
// a reference to this scheduler, creating an unavoidable construction
// cycle. Must be called before Run starts.
func (s *Scheduler) AttachStore(store *persist.Store) {
	s.store = store
}

// GetState returns a deep clone of the authoritative state, obtained
// safely by routing through the command queue so the read is
// serialized with respect to every mutation (spec §3 "Ownership").
func (s *Scheduler) GetState() *game.GameState {
	resp := make(chan *game.GameState, 1)
	s.enqueue(func(sch *Scheduler) {
		resp <- sch.state.Clone()
	})
	return <-resp
}
