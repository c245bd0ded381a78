// Package archive is the append-only match/life history store: every
// finished tournament game and every respawn-on-death life is flushed
// as a row into a columnar Parquet file, queryable later by
// cmd/historian through DuckDB. This supplements, and is independent
// of, the live restart blob the persist package owns.
package archive

// LifeRow is one snake's birth-to-death life, appended when it dies.
type LifeRow struct {
	SnakeID    string `parquet:"snake_id,dict"`
	Name       string `parquet:"name,dict"`
	Color      string `parquet:"color,dict"`
	BirthTick  int64  `parquet:"birth_tick"`
	DeathTick  int64  `parquet:"death_tick"`
	Reason     string `parquet:"reason,dict"`
	KillerName string `parquet:"killer_name,dict,optional"`
	Kills      int32  `parquet:"kills"`
	Length     int32  `parquet:"length"`
}

// GameRow is one finished tournament-mode game.
type GameRow struct {
	WinnerID   string `parquet:"winner_id,dict,optional"`
	WinnerName string `parquet:"winner_name,dict,optional"`
	StartTick  int64  `parquet:"start_tick"`
	EndTick    int64  `parquet:"end_tick"`
	SnakeCount int32  `parquet:"snake_count"`
}
