package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// flushInterval mirrors the teacher's batch-per-run cadence, shortened
// to a wall-clock period since this arena runs continuously rather
// than batching by training run.
const flushInterval = 5 * time.Minute

// Writer buffers life and game rows in memory and periodically flushes
// each buffer to its own Parquet file via a tmp-file-then-rename
// finalize, exactly mirroring scraper/store/batch_writer.go's
// BatchWriter.Finalize().
type Writer struct {
	dir string
	log *slog.Logger

	livesMu sync.Mutex
	lives   []LifeRow

	gamesMu sync.Mutex
	games   []GameRow

	seq int
}

// NewWriter creates an archive writer rooted at dir, creating it if
// missing. Shard numbering continues after the highest shard already
// in dir, so earlier shards are never overwritten.
func NewWriter(dir string, log *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	w := &Writer{dir: dir, log: log}
	for _, kind := range []string{"lives", "games"} {
		matches, _ := filepath.Glob(filepath.Join(dir, kind+"_*.parquet"))
		for _, m := range matches {
			var n int
			if _, err := fmt.Sscanf(filepath.Base(m), kind+"_%d.parquet", &n); err == nil && n > w.seq {
				w.seq = n
			}
		}
	}
	return w, nil
}

// AppendLife records a finished life.
func (w *Writer) AppendLife(row LifeRow) {
	w.livesMu.Lock()
	w.lives = append(w.lives, row)
	w.livesMu.Unlock()
}

// AppendGame records a finished tournament game.
func (w *Writer) AppendGame(row GameRow) {
	w.gamesMu.Lock()
	w.games = append(w.games, row)
	w.gamesMu.Unlock()
}

// Run periodically flushes both buffers until stop is closed.
func (w *Writer) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			w.FlushAll()
			return
		case <-ticker.C:
			w.FlushAll()
		}
	}
}

// FlushAll flushes both the life and game buffers.
func (w *Writer) FlushAll() {
	if n, err := w.flushLives(); err != nil {
		w.log.Error("flush life archive", "err", err)
	} else if n > 0 {
		w.log.Info("flushed life archive", "rows", n)
	}
	if n, err := w.flushGames(); err != nil {
		w.log.Error("flush game archive", "err", err)
	} else if n > 0 {
		w.log.Info("flushed game archive", "rows", n)
	}
}

func (w *Writer) flushLives() (int, error) {
	w.livesMu.Lock()
	rows := w.lives
	w.lives = nil
	w.livesMu.Unlock()
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), writeParquet(w.dir, "lives", w.nextSeq(), rows)
}

func (w *Writer) flushGames() (int, error) {
	w.gamesMu.Lock()
	rows := w.games
	w.games = nil
	w.gamesMu.Unlock()
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), writeParquet(w.dir, "games", w.nextSeq(), rows)
}

func (w *Writer) nextSeq() int {
	w.seq++
	return w.seq
}

// writeParquet writes rows to <dir>/<kind>_<seq>.parquet via a tmp
// file in <dir>/tmp, renamed into place once closed — the same
// crash-safe finalize shape as BatchWriter.Finalize().
func writeParquet[T any](dir, kind string, seq int, rows []T) error {
	tmpDir := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.parquet", kind, seq)
	tmpPath := filepath.Join(tmpDir, name)
	outPath := filepath.Join(dir, name)

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp parquet: %w", err)
	}

	writer := parquet.NewGenericWriter[T](f, parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}))
	if _, err := writer.Write(rows); err != nil {
		writer.Close()
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("close writer: %w", err)
	}
	_ = f.Sync()
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close file: %w", err)
	}

	return os.Rename(tmpPath, outPath)
}
