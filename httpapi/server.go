package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/ledger"
	"github.com/brensch/snekarena/scheduler"
)

// Server wires the scheduler's command API behind HTTP handlers and
// owns the websocket upgrade route for spectators.
type Server struct {
	sched    *scheduler.Scheduler
	ledger   *ledger.Ledger
	hub      http.Handler
	validate *validator.Validate
	log      *slog.Logger
}

// New builds a Server. hub may be nil if no realtime channel is
// wanted (e.g. a headless test harness).
func New(sched *scheduler.Scheduler, led *ledger.Ledger, hub http.Handler, log *slog.Logger) *Server {
	return &Server{
		sched:    sched,
		ledger:   led,
		hub:      hub,
		validate: validator.New(),
		log:      log,
	}
}

// Routes builds the route table of spec §6.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/docs/ai-contract", s.handleAIContract)

	mux.HandleFunc("POST /api/admin/start", s.handleStart)
	mux.HandleFunc("POST /api/admin/pause", s.handlePause)
	mux.HandleFunc("POST /api/admin/reset", s.handleReset)
	mux.HandleFunc("DELETE /api/admin/snake/{id}", s.handleRemove)
	mux.HandleFunc("POST /api/admin/config", s.handleConfig)
	mux.HandleFunc("GET /api/admin/hall-of-fame", s.handleHallOfFame)

	if s.hub != nil {
		mux.Handle("/ws", s.hub)
	}

	return mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	res := s.sched.Register(req.Name, req.AIFunction)
	writeJSON(w, http.StatusOK, RegisterResponse{SnakeID: res.SnakeID, Color: res.Color, Message: res.Message})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.sched.Submit(req.SnakeID, req.AIFunction); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "submitted"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.sched.GetState()
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAIContract(w http.ResponseWriter, r *http.Request) {
	var doc AIContractDoc
	doc.Entrypoint = "function move(state) { ... }"
	doc.Returns = []string{
		"number (radians, absolute target heading)",
		"{x: number, y: number} (absolute target point)",
		"null/undefined (no steering this tick)",
	}
	doc.Helpers = []string{
		"angleTo(x1, y1, x2, y2)",
		"distTo(x1, y1, x2, y2)",
		"distFromCenter(x, y)",
	}
	doc.Input.You = []string{"id", "x", "y", "angle", "speed", "segments", "length"}
	doc.Input.Arena = []string{"radius"}
	doc.Input.Snakes = []string{"id", "name", "x", "y", "angle", "segments", "length", "alive"}
	doc.Input.Food = []string{"x", "y", "value"}
	doc.Input.Tick = "integer"
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.sched.Start()
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.sched.Pause()
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sched.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "waiting"})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sched.Remove(id); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed"})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var patch ConfigPatch
	if !s.decodeAndValidate(w, r, &patch) {
		return
	}
	cfg := s.sched.UpdateConfig(func(c *game.Config) {
		if patch.TickRateMs != nil {
			c.TickRate = time.Duration(*patch.TickRateMs) * time.Millisecond
		}
		if patch.ArenaRadius != nil {
			c.ArenaRadius = *patch.ArenaRadius
		}
		if patch.RespawnOnDeath != nil {
			c.RespawnOnDeath = *patch.RespawnOnDeath
		}
		if patch.RespawnDelayMs != nil {
			c.RespawnDelay = time.Duration(*patch.RespawnDelayMs) * time.Millisecond
		}
		if patch.SnakeSpeed != nil {
			c.SnakeSpeed = *patch.SnakeSpeed
		}
		if patch.MaxTurnRate != nil {
			c.MaxTurnRate = *patch.MaxTurnRate
		}
	})
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleHallOfFame(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusOK, []ledger.Entry{})
		return
	}
	entries, err := s.ledger.Top(50)
	if err != nil {
		s.log.Error("hall of fame query", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, scheduler.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	s.log.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
