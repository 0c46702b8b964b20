// Package storage provides the SQLite-backed results board.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// The board lives in memory for the lifetime of the process: results are
// shared by every session on one cabinet (or SSH server) and are gone on restart.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Store manages the SQLite database connection for the results board.
type Store struct {
	db *sql.DB
}

// ResultEntry represents one completed game.
type ResultEntry struct {
	ID        string
	Player    string
	Average   float64
	Times     []float64 // Recorded round times, in round order
	Rounds    int
	TimedOut  bool
	CreatedAt time.Time
}

// Stats contains aggregated statistics for the board.
type Stats struct {
	Games       int
	BestAverage float64
	MeanAverage float64
	Players     int
	LastPlayed  time.Time
}

// Open creates an in-memory results board.
// An empty dsn selects MemoryDSN.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			average REAL NOT NULL,
			round1 REAL NOT NULL DEFAULT 0,
			round2 REAL NOT NULL DEFAULT 0,
			round3 REAL NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_average ON results(average ASC);
		CREATE INDEX IF NOT EXISTS idx_results_player ON results(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a completed game and returns its ID.
// Games without a positive average are not ranked.
func (s *Store) SaveResult(entry ResultEntry) (string, error) {
	if entry.Average <= 0 {
		return "", fmt.Errorf("storage: cannot save result with average %.2f", entry.Average)
	}
	if len(entry.Times) > 3 {
		return "", fmt.Errorf("storage: cannot save %d round times", len(entry.Times))
	}

	var rounds [3]float64
	copy(rounds[:], entry.Times)

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO results
		 (id, player, average, round1, round2, round3, rounds, timed_out, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Player,
		entry.Average,
		rounds[0], rounds[1], rounds[2],
		entry.Rounds,
		entry.TimedOut,
		entry.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save result: %w", err)
	}

	return entry.ID, nil
}

// TopResults retrieves the best N results, fastest average first.
func (s *Store) TopResults(limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, average, round1, round2, round3, rounds, timed_out, created_at
		 FROM results
		 ORDER BY average ASC, created_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// PlayerResults retrieves the most recent results for one player.
func (s *Store) PlayerResults(player string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, average, round1, round2, round3, rounds, timed_out, created_at
		 FROM results
		 WHERE player = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// BestAverage returns the fastest average on the board.
// Returns false if no results exist.
func (s *Store) BestAverage() (float64, bool, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow("SELECT MIN(average) FROM results").Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best average: %w", err)
	}

	if !best.Valid {
		return 0, false, nil
	}
	return best.Float64, true, nil
}

// Rank returns the 1-based board position an average would take.
func (s *Store) Rank(average float64) (int, error) {
	var better int
	err := s.db.QueryRow("SELECT COUNT(*) FROM results WHERE average < ?", average).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query rank: %w", err)
	}
	return better + 1, nil
}

// GetStats retrieves aggregated statistics for the board.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(average), 0), COALESCE(AVG(average), 0), COUNT(DISTINCT player)
		 FROM results`,
	).Scan(&stats.Games, &stats.BestAverage, &stats.MeanAverage, &stats.Players)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results ORDER BY created_at DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// scanResults reads result rows in the column order used by the queries above.
func scanResults(rows *sql.Rows) ([]ResultEntry, error) {
	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var r1, r2, r3 float64
		var timedOut int
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Average, &r1, &r2, &r3, &e.Rounds, &timedOut, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		for i, v := range []float64{r1, r2, r3} {
			if i >= e.Rounds {
				break
			}
			e.Times = append(e.Times, v)
		}
		e.TimedOut = timedOut != 0
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
