// Package persist implements the arena's single-blob restart recovery:
// a debounced, coalesced, atomically-replaced JSON snapshot of
// long-lived snake metadata and food (spec §4.6).
package persist

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/brensch/snekarena/game"
)

// SnakeBlob is the persisted subset of a Snake's fields — kinematic
// state is never saved, since Restore always respawns fresh.
type SnakeBlob struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Color       string            `json:"color"`
	AIFunction  string            `json:"aiFunction"`
	Submissions []game.Submission `json:"submissions"`
	TotalKills  int               `json:"totalKills"`
	Deaths      int               `json:"deaths"`
	BestLength  int               `json:"bestLength"`
}

// FoodBlob is the persisted representation of one food tile.
type FoodBlob struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Value  int     `json:"value"`
	Radius float64 `json:"radius"`
}

// Blob is the full persisted payload (spec §4.6). Status is always
// serialized but treated as "waiting" on restore.
type Blob struct {
	Tick   int64       `json:"tick"`
	Status string      `json:"status"`
	Snakes []SnakeBlob `json:"snakes"`
	Food   []FoodBlob  `json:"food"`
}

const debounceWindow = 30 * time.Second

// Store debounces and coalesces saves of the authoritative game state
// to a single JSON file, atomically replacing it on each write.
// Grounded on scraper/store/batch_writer.go's tmp-file-then-rename
// Finalize(), generalized from "one parquet batch per training run"
// to "one state.json per save".
type Store struct {
	path     string
	log      *slog.Logger
	getState func() *game.GameState

	trigger chan struct{}
}

// NewStore creates a persistence store writing to path. getState must
// return the current authoritative GameState; it is called only from
// the Store's own save goroutine.
func NewStore(path string, getState func() *game.GameState, log *slog.Logger) *Store {
	return &Store{
		path:     path,
		log:      log,
		getState: getState,
		trigger:  make(chan struct{}, 1),
	}
}

// NotifyDirty enqueues a save. Multiple calls before the save runs
// coalesce into a single write (spec §4.6 "coalesces multiple enqueues
// into a single write").
func (s *Store) NotifyDirty() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drives the save loop until ctx is cancelled: it saves
// immediately on each pending NotifyDirty trigger (triggers that
// arrive before that save runs coalesce into it; saves are not
// otherwise rate-limited) and also on the 30-second timer, matching spec §4.6's
// "on every mutating event ... and on a 30-second timer".
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(debounceWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.saveNow()
		case <-ticker.C:
			s.saveNow()
		}
	}
}

func (s *Store) saveNow() {
	state := s.getState()
	if state == nil {
		return
	}
	if err := s.save(state); err != nil {
		// Persistence errors are logged and otherwise swallowed (spec
		// §7): the simulation continues on last-good in-memory state.
		s.log.Error("save state", "err", err)
	}
}

func (s *Store) save(state *game.GameState) error {
	blob := Blob{
		Tick:   state.Tick,
		Status: string(state.Status),
	}

	ids := state.AllSnakeIDsSorted()
	blob.Snakes = make([]SnakeBlob, 0, len(ids))
	for _, id := range ids {
		snk := state.Snakes[id]
		blob.Snakes = append(blob.Snakes, SnakeBlob{
			ID:          snk.ID,
			Name:        snk.Name,
			Color:       snk.Color,
			AIFunction:  snk.Program,
			Submissions: snk.Submissions,
			TotalKills:  snk.TotalKills,
			Deaths:      snk.Deaths,
			BestLength:  snk.BestLength,
		})
	}

	blob.Food = make([]FoodBlob, 0, len(state.Food))
	for _, f := range state.Food {
		blob.Food = append(blob.Food, FoodBlob{X: f.X, Y: f.Y, Value: f.Value, Radius: f.Radius})
	}

	body, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Restore reads the persisted blob, if any. A missing file is not an
// error: it means a fresh arena with no prior state.
func (s *Store) Restore() (*Blob, error) {
	body, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var blob Blob
	if err := json.Unmarshal(body, &blob); err != nil {
		return nil, err
	}
	return &blob, nil
}
