package archive

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// OpenDuckDB opens an in-memory DuckDB connection with read_parquet
// views over every lives_*.parquet and games_*.parquet file under
// dir. Grounded on viewer/main.go's openDuckDB: a view per logical row
// type, built from a glob over the flushed shards. A row type with no
// shard yet (e.g. no games in a respawn-mode arena) gets an empty table
// of the same columns instead, so queries over it return no rows.
func OpenDuckDB(dir string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=4")
	_, _ = db.Exec("PRAGMA enable_object_cache=false")

	if err := createView(db, "lives", filepath.Join(dir, "lives_*.parquet"),
		"snake_id VARCHAR, name VARCHAR, color VARCHAR, birth_tick BIGINT, death_tick BIGINT, reason VARCHAR, killer_name VARCHAR, kills INTEGER, length INTEGER"); err != nil {
		db.Close()
		return nil, err
	}
	if err := createView(db, "games", filepath.Join(dir, "games_*.parquet"),
		"winner_id VARCHAR, winner_name VARCHAR, start_tick BIGINT, end_tick BIGINT, snake_count INTEGER"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createView(db *sql.DB, name, glob, emptyColumns string) error {
	if matches, _ := filepath.Glob(glob); len(matches) == 0 {
		_, err := db.Exec(fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", name, emptyColumns))
		return err
	}
	escaped := strings.ReplaceAll(glob, "'", "''")
	q := fmt.Sprintf(
		"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s', union_by_name=true)",
		name, escaped,
	)
	_, err := db.Exec(q)
	return err
}

// LeaderboardEntry is one row of the "top snakes by lifetime kills"
// query.
type LeaderboardEntry struct {
	Name       string  `json:"name"`
	TotalKills int64   `json:"totalKills"`
	Lives      int64   `json:"lives"`
	AvgLength  float64 `json:"avgLength"`
}

// Leaderboard answers "top snakes by lifetime kills", mirroring the
// shape of viewer/main.go's queryGames/queryStats aggregate queries.
func Leaderboard(ctx context.Context, db *sql.DB, limit int) ([]LeaderboardEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, SUM(kills) AS total_kills, COUNT(*) AS lives, AVG(length) AS avg_length
		FROM lives
		GROUP BY name
		ORDER BY total_kills DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.TotalKills, &e.Lives, &e.AvgLength); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LifeStats is the answer to "average life length / kills per hour".
type LifeStats struct {
	TotalLives   int64   `json:"totalLives"`
	AvgLifeTicks float64 `json:"avgLifeTicks"`
	TotalKills   int64   `json:"totalKills"`
	TotalGames   int64   `json:"totalGames"`
}

// Stats answers aggregate history questions across all archived lives
// and games.
func Stats(ctx context.Context, db *sql.DB) (LifeStats, error) {
	var s LifeStats
	row := db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(death_tick - birth_tick), SUM(kills)
		FROM lives`)
	if err := row.Scan(&s.TotalLives, &s.AvgLifeTicks, &s.TotalKills); err != nil {
		return s, err
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&s.TotalGames); err != nil {
		return s, err
	}
	return s, nil
}
