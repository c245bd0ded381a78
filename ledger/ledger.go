// Package ledger is a durable "hall of fame" table retaining stats for
// every snake that has ever died or been removed, independent of the
// live registration the authoritative GameState drops when a
// participant is removed (spec §4.6.2, supplemented feature).
//
// Grounded on scraper/db/db.go's DB: a mutex-guarded *sql.DB wrapper
// with schema bootstrap, used there as a scrape-progress cache and
// reused here as a small point-lookup/upsert store — a different
// access pattern from the bulk columnar archive package, which is
// exactly why this keeps its own engine (SQLite) rather than sharing
// DuckDB/Parquet.
package ledger

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one hall-of-fame row.
type Entry struct {
	Name          string
	Color         string
	TotalKills    int
	Deaths        int
	BestLength    int
	FirstSeenTick int64
	LastSeenTick  int64
}

// Ledger wraps the SQLite connection with thread-safe operations.
type Ledger struct {
	conn *sql.DB
	mu   sync.Mutex
}

// Open creates a new database connection and initializes the schema.
func Open(path string) (*Ledger, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	l := &Ledger{conn: conn}
	if err := l.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hall_of_fame (
		name            TEXT PRIMARY KEY,
		color           TEXT,
		total_kills     INTEGER DEFAULT 0,
		deaths          INTEGER DEFAULT 0,
		best_length     INTEGER DEFAULT 0,
		first_seen_tick INTEGER DEFAULT 0,
		last_seen_tick  INTEGER DEFAULT 0
	);
	`
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Upsert records (or updates) a snake's lifetime stats, called
// whenever a snake dies or is removed.
func (l *Ledger) Upsert(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.conn.Exec(`
		INSERT INTO hall_of_fame (name, color, total_kills, deaths, best_length, first_seen_tick, last_seen_tick)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			color = excluded.color,
			total_kills = excluded.total_kills,
			deaths = excluded.deaths,
			best_length = MAX(hall_of_fame.best_length, excluded.best_length),
			first_seen_tick = MIN(hall_of_fame.first_seen_tick, excluded.first_seen_tick),
			last_seen_tick = excluded.last_seen_tick
	`, e.Name, e.Color, e.TotalKills, e.Deaths, e.BestLength, e.FirstSeenTick, e.LastSeenTick)
	if err != nil {
		return fmt.Errorf("upsert hall of fame: %w", err)
	}
	return nil
}

// Top returns the top N entries by total kills.
func (l *Ledger) Top(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.conn.Query(`
		SELECT name, color, total_kills, deaths, best_length, first_seen_tick, last_seen_tick
		FROM hall_of_fame
		ORDER BY total_kills DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query hall of fame: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Color, &e.TotalKills, &e.Deaths, &e.BestLength, &e.FirstSeenTick, &e.LastSeenTick); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}
