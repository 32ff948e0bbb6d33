// Package storage keeps game results in SQLite: campaign scores, finished
// tournaments, a mirror of the roster and online matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished campaign.
type ScoreEntry struct {
	ID        int64
	Mode      string
	Player    string
	Level     int
	Cash      int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			player TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			cash INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(mode, cash DESC);

		CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rounds INTEGER NOT NULL,
			win_condition TEXT NOT NULL,
			winner TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tournament_players (
			tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			name TEXT NOT NULL,
			cash INTEGER NOT NULL,
			rounds_won INTEGER NOT NULL,
			PRIMARY KEY (tournament_id, rank)
		);

		CREATE TABLE IF NOT EXISTS roster (
			name TEXT PRIMARY KEY,
			tournaments INTEGER NOT NULL DEFAULT 0,
			tournaments_wins INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			rounds_wins INTEGER NOT NULL DEFAULT 0,
			treasures_collected INTEGER NOT NULL DEFAULT 0,
			total_money INTEGER NOT NULL DEFAULT 0,
			bombs_bought INTEGER NOT NULL DEFAULT 0,
			bombs_dropped INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			meters_ran INTEGER NOT NULL DEFAULT 0,
			history BLOB,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_mode ON online_matches(mode);

		CREATE TABLE IF NOT EXISTS online_match_players (
			match_id TEXT NOT NULL REFERENCES online_matches(match_id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			session TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (match_id, slot)
		);
		CREATE INDEX IF NOT EXISTS idx_online_match_players_session ON online_match_players(session);
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

// parseTime converts a DATETIME column; the driver returns either a
// time.Time or the raw text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.DateTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a finished game of the given mode.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(mode, player string, level, cash int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (mode, player, level, cash) VALUES (?, ?, ?, ?)",
		mode, player, level, cash,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given mode, richest first.
// Equal cash is ordered by the level reached.
func (s *Store) TopScores(mode string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, player, level, cash, created_at
		 FROM scores
		 WHERE mode = ?
		 ORDER BY cash DESC, level DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Player, &e.Level, &e.Cash, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest cash recorded for the given mode.
// Returns 0 if no scores exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(cash) FROM scores WHERE mode = ?",
		mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given mode.
func (s *Store) ClearScores(mode string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE mode = ?", mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	Mode       string
	GamesCount int
	HighScore  int
	AvgScore   float64
	BestLevel  int
	LastPlayed time.Time
}

// GetModeStats retrieves aggregated statistics for a mode. Campaign stats
// come from scores, tournament and deathmatch stats from their own tables.
func (s *Store) GetModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	var (
		query string
		args  []any
	)
	switch mode {
	case "tournament":
		query = `SELECT COUNT(DISTINCT t.id), COALESCE(MAX(p.cash), 0), COALESCE(AVG(p.cash), 0), 0, MAX(t.created_at)
		         FROM tournaments t LEFT JOIN tournament_players p ON p.tournament_id = t.id AND p.rank = 1`
	case "deathmatch":
		query = `SELECT COUNT(DISTINCT m.match_id), COALESCE(MAX(p.score), 0), COALESCE(AVG(p.score), 0), 0, MAX(m.created_at)
		         FROM online_matches m LEFT JOIN online_match_players p ON p.match_id = m.match_id
		         WHERE m.mode = ?`
		args = []any{mode}
	default:
		query = `SELECT COUNT(*), COALESCE(MAX(cash), 0), COALESCE(AVG(cash), 0), COALESCE(MAX(level), 0), MAX(created_at)
		         FROM scores WHERE mode = ?`
		args = []any{mode}
	}

	var lastPlayed any
	err := s.db.QueryRow(query, args...).Scan(
		&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.BestLevel, &lastPlayed,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}
