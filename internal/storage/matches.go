package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/minebombers/internal/multiplayer"
)

// OnlineMatchResult represents the outcome of an online deathmatch.
type OnlineMatchResult struct {
	ID            int64
	MatchID       string
	Mode          string
	Sessions      []string // by player slot
	Scores        []int    // by player slot
	WinnerSession string   // Empty if draw
	EndReason     string
	Duration      int // Duration in seconds
	CreatedAt     time.Time
}

// SaveOnlineMatch records the result of an online match.
// Returns the ID of the inserted record.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.Exec(
		`INSERT INTO online_matches (match_id, mode, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		result.MatchID, result.Mode, result.WinnerSession, result.EndReason, result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for slot, session := range result.Sessions {
		score := 0
		if slot < len(result.Scores) {
			score = result.Scores[slot]
		}
		if _, err := tx.Exec(
			"INSERT INTO online_match_players (match_id, slot, session, score) VALUES (?, ?, ?, ?)",
			result.MatchID, slot, session, score,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save match player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit online match: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, mode, winner_session, end_reason, duration_secs, created_at`

func scanMatch(row interface{ Scan(...any) error }) (OnlineMatchResult, error) {
	var (
		result        OnlineMatchResult
		winnerSession sql.NullString
		createdAt     any
	)
	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.Mode,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTime(createdAt)
	return result, err
}

// loadPlayers fills the per-slot sessions and scores.
func (s *Store) loadPlayers(result *OnlineMatchResult) error {
	rows, err := s.db.Query(
		"SELECT session, score FROM online_match_players WHERE match_id = ? ORDER BY slot",
		result.MatchID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query match players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			session string
			score   int
		)
		if err := rows.Scan(&session, &score); err != nil {
			return fmt.Errorf("storage: cannot scan row: %w", err)
		}
		result.Sessions = append(result.Sessions, session)
		result.Scores = append(result.Scores, score)
	}
	return rows.Err()
}

// OnlineMatchByID retrieves an online match by its match ID.
// Returns nil without an error when the match is unknown.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	result, err := scanMatch(s.db.QueryRow(
		"SELECT "+matchColumns+" FROM online_matches WHERE match_id = ?",
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	if err := s.loadPlayers(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent online matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		"SELECT "+matchColumns+" FROM online_matches ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
}

// PlayerMatchHistory retrieves the matches a session took part in.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches
		 WHERE match_id IN (SELECT match_id FROM online_match_players WHERE session = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range results {
		if err := s.loadPlayers(&results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:       data.MatchID,
		Mode:          data.Mode,
		Sessions:      data.Sessions,
		Scores:        data.Scores,
		WinnerSession: data.WinnerSession,
		EndReason:     data.EndReason,
		Duration:      data.DurationSecs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)
