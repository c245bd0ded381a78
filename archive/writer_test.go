package archive

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWriter(dir, logger)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	return w
}

func TestWriter_FlushAllWritesParquetFiles(t *testing.T) {
	w := newTestWriter(t)
	w.AppendLife(LifeRow{SnakeID: "a", Name: "alice", BirthTick: 1, DeathTick: 10, Reason: "boundary", Kills: 1, Length: 20})
	w.AppendGame(GameRow{WinnerID: "a", WinnerName: "alice", StartTick: 0, EndTick: 100, SnakeCount: 2})

	w.FlushAll()

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	foundLives, foundGames := false, false
	for _, n := range names {
		if filepath.Ext(n) == ".parquet" {
			if contains(n, "lives_") {
				foundLives = true
			}
			if contains(n, "games_") {
				foundGames = true
			}
		}
	}
	if !foundLives {
		t.Errorf("expected a lives_*.parquet file among %v", names)
	}
	if !foundGames {
		t.Errorf("expected a games_*.parquet file among %v", names)
	}
}

func TestWriter_FlushAll_NoOpWhenEmpty(t *testing.T) {
	w := newTestWriter(t)
	w.FlushAll()

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".parquet" {
			t.Errorf("expected no parquet files written for empty buffers, found %s", e.Name())
		}
	}
}

func TestWriter_BuffersClearAfterFlush(t *testing.T) {
	w := newTestWriter(t)
	w.AppendLife(LifeRow{SnakeID: "a", Name: "a"})
	w.FlushAll()

	if len(w.lives) != 0 {
		t.Error("life buffer should be empty after a flush")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
