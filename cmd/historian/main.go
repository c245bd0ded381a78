// Command historian serves read-only analytics over the match archive:
// a leaderboard and lifetime stats computed by DuckDB queries against
// the Parquet files archive.Writer produces, in the spirit of
// viewer/main.go's read-only reporting HTTP server over the scraped
// parquet corpus.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brensch/snekarena/archive"
	"github.com/brensch/snekarena/logging"
)

func main() {
	fs := flag.NewFlagSet("historian", flag.ExitOnError)
	listen := fs.String("listen", ":8081", "HTTP listen address")
	archiveDir := fs.String("archive-dir", "data/archive", "directory containing lives_*.parquet and games_*.parquet")
	pretty := fs.Bool("pretty-log", false, "pretty-print JSON logs for local development")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	logger := logging.New(os.Stdout, slog.LevelInfo, *pretty)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/history/games", handleLeaderboard(logger, *archiveDir))
	mux.HandleFunc("GET /api/history/stats", handleStats(logger, *archiveDir))

	srv := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("historian listening", "addr", *listen, "archiveDir", *archiveDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// openArchive opens a fresh in-memory DuckDB handle per request. The
// archive grows via new parquet files between requests, and DuckDB's
// glob-backed views are cheapest to just recreate than track for
// staleness.
func openArchive(dir string) (*sql.DB, error) {
	return archive.OpenDuckDB(dir)
}

func handleLeaderboard(logger *slog.Logger, dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		db, err := openArchive(dir)
		if err != nil {
			writeErr(w, logger, err)
			return
		}
		defer db.Close()

		entries, err := archive.Leaderboard(r.Context(), db, limit)
		if err != nil {
			writeErr(w, logger, err)
			return
		}
		writeJSON(w, entries)
	}
}

func handleStats(logger *slog.Logger, dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db, err := openArchive(dir)
		if err != nil {
			writeErr(w, logger, err)
			return
		}
		defer db.Close()

		stats, err := archive.Stats(r.Context(), db)
		if err != nil {
			writeErr(w, logger, err)
			return
		}
		writeJSON(w, stats)
	}
}

func writeErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("query failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
