package scheduler

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/ledger"
	"github.com/brensch/snekarena/rules"
	"github.com/brensch/snekarena/sandbox"
)

// ErrNotFound is returned by Submit/Remove for an unknown snake id
// (spec §7 "Lookup errors" → HTTP 404).
var ErrNotFound = errors.New("snake not found")

// RegisterResult is the response to a successful Register call.
type RegisterResult struct {
	SnakeID string
	Color   string
	Message string
}

// Register creates a new snake, or — if name matches an existing
// registration — updates its program and respawns it immediately
// (spec §4.3 "register-existing-name").
func (s *Scheduler) Register(name, program string) RegisterResult {
	resp := make(chan RegisterResult, 1)
	s.enqueue(func(sch *Scheduler) {
		resp <- sch.doRegister(name, program)
	})
	return <-resp
}

func (s *Scheduler) doRegister(name, program string) RegisterResult {
	for _, snk := range s.state.Snakes {
		if snk.Name == name {
			s.applySubmission(snk, program)
			s.log.Info("snake re-registered", "name", name, "id", snk.ID)
			s.emitEvent("snake:registered", map[string]string{"name": snk.Name, "color": snk.Color})
			s.notifyDirty()
			return RegisterResult{SnakeID: snk.ID, Color: snk.Color, Message: "updated"}
		}
	}

	id := uuid.NewString()
	color := s.cfg.Colors[len(s.state.Snakes)%len(s.cfg.Colors)]
	snk := &game.Snake{ID: id, Name: name, Color: color}
	s.state.Snakes[id] = snk
	s.applySubmission(snk, program)

	s.log.Info("snake registered", "name", name, "id", id, "color", color)
	s.emitEvent("snake:registered", map[string]string{"name": name, "color": color})
	s.notifyDirty()
	return RegisterResult{SnakeID: id, Color: color, Message: "registered"}
}

// Submit updates an existing snake's program and respawns it
// immediately (spec §6 POST /api/submit).
func (s *Scheduler) Submit(id, program string) error {
	resp := make(chan error, 1)
	s.enqueue(func(sch *Scheduler) {
		resp <- sch.doSubmit(id, program)
	})
	return <-resp
}

func (s *Scheduler) doSubmit(id, program string) error {
	snk, ok := s.state.Snakes[id]
	if !ok {
		return ErrNotFound
	}
	s.applySubmission(snk, program)
	s.notifyDirty()
	return nil
}

// applySubmission updates the snake's program, respawns it, and
// appends a Submission record — the common tail of Register and
// Submit (spec §4.3: "submit and register-existing-name both respawn
// the affected snake immediately").
func (s *Scheduler) applySubmission(snk *game.Snake, program string) {
	dur, _ := sandbox.Precompile(program)
	snk.Program = program
	segs := rules.Respawn(snk, s.cfg, s.rng, 0, s.state.Tick)
	s.state.SetSegments(snk.ID, segs)
	snk.Submissions = append(snk.Submissions, game.Submission{
		Tick:        s.state.Tick,
		LineCount:   strings.Count(program, "\n") + 1,
		WallClockMs: float64(dur.Microseconds()) / 1000,
	})
}

// Remove deletes a snake's registration (spec §6 DELETE
// /api/admin/snake/:id), recording its final stats into the hall of
// fame ledger first.
func (s *Scheduler) Remove(id string) error {
	resp := make(chan error, 1)
	s.enqueue(func(sch *Scheduler) {
		resp <- sch.doRemove(id)
	})
	return <-resp
}

func (s *Scheduler) doRemove(id string) error {
	snk, ok := s.state.Snakes[id]
	if !ok {
		return ErrNotFound
	}
	s.recordToLedger(snk)
	delete(s.state.Snakes, id)
	s.notifyDirty()
	return nil
}

func (s *Scheduler) recordToLedger(snk *game.Snake) {
	if s.ledger == nil {
		return
	}
	firstSeen := int64(0)
	if len(snk.Submissions) > 0 {
		firstSeen = snk.Submissions[0].Tick
	}
	err := s.ledger.Upsert(ledger.Entry{
		Name:          snk.Name,
		Color:         snk.Color,
		TotalKills:    snk.TotalKills,
		Deaths:        snk.Deaths,
		BestLength:    snk.BestLength,
		FirstSeenTick: firstSeen,
		LastSeenTick:  s.state.Tick,
	})
	if err != nil {
		s.log.Error("ledger upsert", "name", snk.Name, "err", err)
	}
}

// Start transitions waiting|paused → running.
func (s *Scheduler) Start() {
	s.enqueue(func(sch *Scheduler) {
		if sch.state.Status == game.StatusFinished {
			return
		}
		sch.state.Status = game.StatusRunning
		sch.emitEvent("game:started", nil)
	})
}

// Pause transitions running → paused.
func (s *Scheduler) Pause() {
	s.enqueue(func(sch *Scheduler) {
		if sch.state.Status != game.StatusRunning {
			return
		}
		sch.state.Status = game.StatusPaused
		sch.emitEvent("game:paused", nil)
	})
}

// Reset clears per-life state and all food but keeps registrations
// (spec §4.3 "reset keeps registrations but clears per-life state and
// all food").
func (s *Scheduler) Reset() {
	s.enqueue(func(sch *Scheduler) {
		sch.state.Tick = 0
		sch.state.Status = game.StatusWaiting
		sch.state.WinnerID = ""
		sch.state.Food = nil
		for _, snk := range sch.state.Snakes {
			snk.Kills = 0
			segs := rules.Respawn(snk, sch.cfg, sch.rng, 0, 0)
			sch.state.SetSegments(snk.ID, segs)
		}
		sch.emitEvent("game:reset", nil)
		sch.notifyDirty()
	})
}

// UpdateConfig applies a partial config update, clamping to the valid
// ranges of spec §6, and returns the resulting config.
func (s *Scheduler) UpdateConfig(patch func(*game.Config)) game.Config {
	resp := make(chan game.Config, 1)
	s.enqueue(func(sch *Scheduler) {
		patch(&sch.cfg)
		sch.cfg.Clamp()
		resp <- sch.cfg
	})
	return <-resp
}

func (s *Scheduler) emitEvent(name string, payload interface{}) {
	if s.hub != nil {
		s.hub.Emit(name, payload)
	}
}

func (s *Scheduler) notifyDirty() {
	if s.store != nil {
		s.store.NotifyDirty()
	}
}
